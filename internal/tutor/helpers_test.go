package tutor

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/intent"
	"github.com/abhisek/viva/internal/prompt"
	"github.com/abhisek/viva/internal/session"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// scriptedClassifier maps exact utterances to results; anything else is
// unknown.
type scriptedClassifier map[string]intent.Result

func (c scriptedClassifier) Classify(_ context.Context, text string, _ i18n.Lang) intent.Result {
	if res, ok := c[text]; ok {
		return res
	}
	return intent.UnknownResult()
}

func is(in intent.Intent) intent.Result {
	return intent.Result{Intent: in, Confidence: 0.9}
}

func about(in intent.Intent, topic string) intent.Result {
	return intent.Result{Intent: in, Topic: topic, Confidence: 0.9}
}

// fakeGenerator records requests and answers through fn, or with the
// request purpose when fn is nil.
type fakeGenerator struct {
	mu   sync.Mutex
	reqs []prompt.Request
	fn   func(prompt.Request) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, req prompt.Request) (string, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	fn := g.fn
	g.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return "generated " + req.Purpose(), nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reqs)
}

func (g *fakeGenerator) last() prompt.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.reqs) == 0 {
		return nil
	}
	return g.reqs[len(g.reqs)-1]
}

// replies returns a generator function handing out texts in order.
func replies(texts ...string) func(prompt.Request) (string, error) {
	var mu sync.Mutex
	return func(prompt.Request) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(texts) == 0 {
			return "", errors.New("no more replies")
		}
		out := texts[0]
		texts = texts[1:]
		return out, nil
	}
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestController(c intent.Classifier, g Generator) *Controller {
	return NewController(c, g,
		WithClock(func() time.Time { return t0 }),
		WithLogger(quietLogger()),
	)
}

func newTestSession(lang i18n.Lang) *session.Session {
	return session.New("s1", lang, t0)
}
