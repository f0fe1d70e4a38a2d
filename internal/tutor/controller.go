// Package tutor runs the dialogue: it classifies each utterance, advances
// the session's learning or quiz flow and produces the reply.
package tutor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/intent"
	"github.com/abhisek/viva/internal/prompt"
	"github.com/abhisek/viva/internal/session"
)

// Reply is the outcome of one processed turn.
type Reply struct {
	Text       string
	Intent     intent.Intent // after the quiz-mode override
	Topic      string        // as classified
	Confidence float64
}

// Controller processes single turns against a session.
type Controller struct {
	classifier intent.Classifier
	generator  Generator
	now        func() time.Time
	log        logrus.FieldLogger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController creates a Controller.
func NewController(classifier intent.Classifier, generator Generator, opts ...Option) *Controller {
	c := &Controller{
		classifier: classifier,
		generator:  generator,
		now:        time.Now,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process handles one utterance, mutating s in place. On error s may hold
// partial changes and must be discarded by the caller.
func (c *Controller) Process(ctx context.Context, text string, s *session.Session) (Reply, error) {
	res := c.classifier.Classify(ctx, text, s.Lang)

	in := res.Intent
	if s.Quizzing() && !in.KeepsQuiz() {
		in = intent.QuizAnswer
	}

	reply := Reply{Intent: in, Topic: res.Topic, Confidence: res.Confidence}

	c.log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"classified": res.Intent,
		"intent":     in,
		"topic":      res.Topic,
		"confidence": res.Confidence,
		"mode":       s.Mode,
	}).Debug("turn classified")

	s.AppendMessage(session.RoleUser, text, in, c.now())

	out, err := c.dispatch(ctx, in, res.Topic, text, s)
	if err != nil {
		return reply, err
	}

	s.AppendMessage(session.RoleAssistant, out, in, c.now())
	reply.Text = out
	return reply, nil
}

func (c *Controller) dispatch(ctx context.Context, in intent.Intent, topic, text string, s *session.Session) (string, error) {
	switch in {
	case intent.Learn:
		return c.learn(ctx, topic, text, s)
	case intent.Quiz:
		return c.quiz(ctx, topic, text, s)
	case intent.QuizAnswer:
		return c.quizAnswer(ctx, topic, text, s)
	case intent.Question:
		return c.question(ctx, topic, text, s)
	case intent.Repeat:
		return c.repeat(ctx, topic, text, s)
	case intent.Back:
		return c.back(ctx, topic, text, s)
	case intent.Stop:
		return c.stop(ctx, topic, text, s)
	case intent.Slower:
		return c.slower(ctx, topic, text, s)
	case intent.Faster:
		return c.faster(ctx, topic, text, s)
	case intent.Example:
		return c.example(ctx, topic, text, s)
	case intent.Simplify:
		return c.simplify(ctx, topic, text, s)
	case intent.Continue:
		return c.continueLearning(ctx, topic, text, s)
	default:
		return c.unknown(ctx, topic, text, s)
	}
}

// generate calls the generator once and tags its error with the purpose.
func (c *Controller) generate(ctx context.Context, req prompt.Request) (string, error) {
	out, err := c.generator.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", req.Purpose(), err)
	}
	return out, nil
}
