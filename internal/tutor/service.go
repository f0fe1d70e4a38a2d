package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/llm"
	"github.com/abhisek/viva/internal/session"
	"github.com/abhisek/viva/internal/store"
)

// ErrSessionNotFound is returned when an operation names an unknown session.
var ErrSessionNotFound = fmt.Errorf("tutor: %w", session.ErrNotFound)

// TurnInput is one utterance addressed to a session.
type TurnInput struct {
	// SessionID may be empty or unknown; a fresh session is created then.
	SessionID string
	Text      string
	// Lang, when valid, switches the session language before the turn.
	Lang i18n.Lang
}

// TurnOutput is the result of a turn.
type TurnOutput struct {
	Reply
	// Status describes the session after the turn, or as it was before the
	// turn when the turn failed.
	Status session.Status
}

// Service runs turns against the session store. Turns on one session are
// serialized; a turn commits only when it completes without error.
type Service struct {
	sessions   *session.Store
	controller *Controller
	events     store.EventRepo
	log        logrus.FieldLogger
	now        func() time.Time
	lang       i18n.Lang
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDefaultLang sets the language of sessions created without one.
// Unsupported languages are ignored.
func WithDefaultLang(lang i18n.Lang) ServiceOption {
	return func(s *Service) {
		if lang.Valid() {
			s.lang = lang
		}
	}
}

// NewService creates a Service. events may be nil to disable the turn log.
func NewService(sessions *session.Store, controller *Controller, events store.EventRepo, log logrus.FieldLogger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{
		sessions:   sessions,
		controller: controller,
		events:     events,
		log:        log,
		now:        time.Now,
		lang:       i18n.DefaultLang,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultLang returns the language of sessions created without one.
func (s *Service) DefaultLang() i18n.Lang {
	return s.lang
}

// Turn processes one utterance.
func (s *Service) Turn(ctx context.Context, in TurnInput) (TurnOutput, error) {
	lang := in.Lang
	if !lang.Valid() {
		lang = s.lang
	}

	sess, unlock := s.acquire(in.SessionID, lang)
	defer unlock()

	work := sess.Clone()
	if in.Lang.Valid() {
		work.Lang = in.Lang
	}

	start := s.now()
	reply, err := s.controller.Process(ctx, in.Text, work)
	latency := s.now().Sub(start)

	logger := s.log.WithFields(logrus.Fields{
		"session_id": work.ID,
		"intent":     reply.Intent,
		"latency_ms": latency.Milliseconds(),
	})

	if err != nil {
		logger.WithError(err).WithField("llm_error", llm.KindOf(err)).Warn("turn failed")
		s.record(ctx, work, sess.Mode, in.Text, reply, latency, err)
		st := sess.Status()
		st.Lang = work.Lang
		return TurnOutput{Reply: reply, Status: st}, err
	}

	s.sessions.Save(work)
	logger.WithField("mode", work.Mode).Info("turn")
	s.record(ctx, work, work.Mode, in.Text, reply, latency, nil)

	return TurnOutput{Reply: reply, Status: work.Status()}, nil
}

// acquire returns the session to run a turn on, holding its lock. A reset
// can delete the session between lookup and lock; the lookup is retried.
func (s *Service) acquire(id string, lang i18n.Lang) (*session.Session, func()) {
	for {
		sess := s.sessions.GetOrCreate(id, lang)
		unlock := s.sessions.Lock(sess.ID)
		if cur, ok := s.sessions.Get(sess.ID); ok {
			return cur, unlock
		}
		unlock()
		id = sess.ID
	}
}

func (s *Service) record(ctx context.Context, sess *session.Session, mode session.Mode, input string, reply Reply, latency time.Duration, turnErr error) {
	if s.events == nil {
		return
	}
	data := store.TurnEventData{
		SessionID:  sess.ID,
		Lang:       sess.Lang.String(),
		Input:      input,
		Intent:     reply.Intent.String(),
		Topic:      reply.Topic,
		Confidence: reply.Confidence,
		Mode:       string(mode),
		Reply:      reply.Text,
		LatencyMs:  latency.Milliseconds(),
		Success:    turnErr == nil,
	}
	if turnErr != nil {
		data.ErrorMessage = turnErr.Error()
	}
	if err := s.events.AppendTurn(context.WithoutCancel(ctx), data); err != nil {
		s.log.WithError(err).Warn("failed to record turn")
	}
}

// Create starts a new session.
func (s *Service) Create(lang i18n.Lang) session.Status {
	return s.sessions.Create(lang).Status()
}

// Get returns a copy of the session with id.
func (s *Service) Get(id string) (*session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// GetOrCreate returns a copy of the session with id, creating a fresh one
// when id is empty or unknown.
func (s *Service) GetOrCreate(id string, lang i18n.Lang) *session.Session {
	return s.sessions.GetOrCreate(id, lang).Clone()
}

// Save upserts sess, waiting for any in-flight turn on it.
func (s *Service) Save(sess *session.Session) {
	unlock := s.sessions.Lock(sess.ID)
	defer unlock()
	s.sessions.Save(sess.Clone())
}

// Status returns the status projection of the session with id.
func (s *Service) Status(id string) (session.Status, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return session.Status{}, ErrSessionNotFound
	}
	return sess.Status(), nil
}

// Reset discards the session with id, if any, and returns a fresh one.
func (s *Service) Reset(id string, lang i18n.Lang) session.Status {
	sess := s.sessions.Reset(id, lang)
	s.log.WithFields(logrus.Fields{
		"previous_id": id,
		"session_id":  sess.ID,
	}).Info("session reset")
	return sess.Status()
}

// SetLanguage switches the language of the session with id.
func (s *Service) SetLanguage(id string, lang i18n.Lang) (session.Status, error) {
	if !lang.Valid() {
		return session.Status{}, fmt.Errorf("unsupported language %q", lang)
	}

	unlock := s.sessions.Lock(id)
	defer unlock()

	sess, ok := s.sessions.Get(id)
	if !ok {
		return session.Status{}, ErrSessionNotFound
	}
	work := sess.Clone()
	work.Lang = lang
	s.sessions.Save(work)
	return work.Status(), nil
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	return s.sessions.Len()
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, session.ErrNotFound)
}
