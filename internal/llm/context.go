package llm

import "context"

// Request purposes recorded with each call in the event log.
const (
	PurposeIntent   = "intent"
	PurposeTeach    = "teach"
	PurposeQuiz     = "quiz"
	PurposeAnswer   = "answer"
	PurposeSimplify = "simplify"
	PurposeExample  = "example"
)

type purposeKey struct{}

// WithPurpose labels calls made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
