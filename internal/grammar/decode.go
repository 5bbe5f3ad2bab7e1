package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyIndex = errors.New("grammar index has no topics")
	ErrEmptyTopic = errors.New("grammar topic has no sections")
)

// DecodeIndex parses grammar/index.json. Entries without an id are
// dropped.
func DecodeIndex(data []byte) (*Index, error) {
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("parse grammar index: %w", err)
	}
	topics := ix.Topics[:0]
	for _, t := range ix.Topics {
		if t.ID != "" {
			topics = append(topics, t)
		}
	}
	ix.Topics = topics
	if len(ix.Topics) == 0 {
		return nil, ErrEmptyIndex
	}
	return &ix, nil
}

// DecodeTopic parses a topic file and merges the index entry into it.
func DecodeTopic(info TopicInfo, data []byte) (*Topic, error) {
	var t Topic
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse grammar topic %q: %w", info.ID, err)
	}
	if len(t.Sections) == 0 {
		return nil, fmt.Errorf("grammar topic %q: %w", info.ID, ErrEmptyTopic)
	}
	t.Info = info
	if t.Title == "" {
		t.Title = info.Title
	}
	if t.Title == "" {
		t.Title = info.ID
	}
	return &t, nil
}
