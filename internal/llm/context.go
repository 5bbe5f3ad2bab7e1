package llm

import "context"

// Purpose labels why a request was made. It is recorded with every
// request so usage can be broken down later.
type Purpose string

const (
	PurposeExplain Purpose = "explain"
	PurposeUnknown Purpose = "unknown"
)

type purposeKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}
