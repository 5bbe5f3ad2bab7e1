package explain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/llm"
)

const validJSON = `{"explanation":"\"Goed\" is not a word. Go is irregular: its past form is \"went\".","tip":"Go, went, gone."}`

func missed() Input {
	return Input{
		Kind:      "short_answer",
		Prompt:    "Yesterday I ___ to school.",
		Answer:    "goed",
		Correct:   "went",
		Rationale: "Irregular past simple.",
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	svc := NewService(mock, DefaultConfig(), nil)

	exp, err := svc.Explain(context.Background(), missed())
	require.NoError(t, err)
	assert.Contains(t, exp.Text, "went")
	assert.Equal(t, "Go, went, gone.", exp.Tip)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, Schema, call.Schema)
	require.Len(t, call.Messages, 1)
	assert.Contains(t, call.Messages[0].Content, "Learner answered: goed")
	assert.Contains(t, call.Messages[0].Content, "Teacher's note: Irregular past simple.")
}

func TestExplain_NoAnswer(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig(), nil)

	in := missed()
	in.Answer = "  "
	_, err := svc.Explain(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.Zero(t, mock.CallCount())
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	svc := NewService(mock, DefaultConfig(), nil)

	_, err := svc.Explain(context.Background(), missed())
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestExplain_BadJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"plain text"`)})
	svc := NewService(mock, DefaultConfig(), nil)

	_, err := svc.Explain(context.Background(), missed())
	assert.ErrorContains(t, err, "parse explanation")
}

func consume(t *testing.T, svc *Service, key Key) (*Explanation, error) {
	t.Helper()
	var (
		exp *Explanation
		err error
	)
	require.Eventually(t, func() bool {
		var ok bool
		exp, err, ok = svc.Consume(key)
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	return exp, err
}

func TestRequestConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	svc := NewService(mock, DefaultConfig(), nil)
	key := Key{Generation: 1, Question: 3}

	svc.Request(context.Background(), key, missed())
	exp, err := consume(t, svc, key)
	require.NoError(t, err)
	assert.NotEmpty(t, exp.Text)

	// consumed once
	_, _, ok := svc.Consume(key)
	assert.False(t, ok)
}

func TestConsume_StaleKeyDropped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	svc := NewService(mock, DefaultConfig(), nil)

	svc.Request(context.Background(), Key{Generation: 1, Question: 0}, missed())
	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return svc.pending != nil
	}, 2*time.Second, 5*time.Millisecond)

	_, _, ok := svc.Consume(Key{Generation: 2, Question: 0})
	assert.False(t, ok)
	_, _, ok = svc.Consume(Key{Generation: 1, Question: 0})
	assert.False(t, ok, "stale result is discarded, not kept")
}

// slowProvider blocks until its context ends.
type slowProvider struct{ started chan struct{} }

func (p *slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	close(p.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p *slowProvider) ModelID() string { return "slow" }

func TestCancel(t *testing.T) {
	p := &slowProvider{started: make(chan struct{})}
	svc := NewService(p, DefaultConfig(), nil)
	key := Key{Generation: 1}

	svc.Request(context.Background(), key, missed())
	<-p.started
	svc.Cancel()

	time.Sleep(20 * time.Millisecond)
	_, _, ok := svc.Consume(key)
	assert.False(t, ok)
}
