// Package intent defines the purposes an utterance can be classified into and
// the classifier that maps raw text to one of them.
package intent

import (
	"context"

	"github.com/abhisek/viva/internal/i18n"
)

// Intent is the classified purpose of one utterance.
type Intent string

const (
	Learn      Intent = "learn"
	Quiz       Intent = "quiz"
	Question   Intent = "question"
	Repeat     Intent = "repeat"
	Back       Intent = "back"
	Stop       Intent = "stop"
	Slower     Intent = "slower"
	Faster     Intent = "faster"
	Example    Intent = "example"
	Simplify   Intent = "simplify"
	Continue   Intent = "continue"
	QuizAnswer Intent = "quiz_answer"
	Unknown    Intent = "unknown"
)

// classifiable are the intents a classifier may return. QuizAnswer is only
// ever assigned by the dialogue controller.
var classifiable = []Intent{
	Learn, Quiz, Question, Repeat, Back, Stop,
	Slower, Faster, Example, Simplify, Continue, Unknown,
}

// Classifiable returns the intents a classifier may produce.
func Classifiable() []Intent {
	out := make([]Intent, len(classifiable))
	copy(out, classifiable)
	return out
}

// Parse maps a label to an Intent. Unrecognised labels, including
// "quiz_answer", map to Unknown.
func Parse(s string) Intent {
	for _, in := range classifiable {
		if string(in) == s {
			return in
		}
	}
	return Unknown
}

// String implements fmt.Stringer.
func (i Intent) String() string {
	return string(i)
}

// KeepsQuiz reports whether the intent is honored while a quiz question is
// pending. Every other intent is treated as an answer.
func (i Intent) KeepsQuiz() bool {
	switch i {
	case Stop, Repeat, Simplify, Example:
		return true
	}
	return false
}

// Result is the output of a classification.
type Result struct {
	Intent Intent
	// Topic is the subject named in the utterance, empty when none.
	Topic string
	// Confidence is in [0, 1].
	Confidence float64
}

// Classifier maps raw text in a language to an intent.
// Implementations never fail: any internal error yields UnknownResult.
type Classifier interface {
	Classify(ctx context.Context, text string, lang i18n.Lang) Result
}

// UnknownResult is the degraded classification returned on failure.
func UnknownResult() Result {
	return Result{Intent: Unknown}
}
