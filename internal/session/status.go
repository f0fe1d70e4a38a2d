package session

import (
	"slices"
	"time"

	"github.com/abhisek/viva/internal/i18n"
)

// Status is the externally visible projection of a Session.
type Status struct {
	ID        string    `json:"sid"`
	Mode      Mode      `json:"mode"`
	Topic     *string   `json:"topic"`
	Topics    []string  `json:"topics"`
	QuizScore int       `json:"quiz_score"`
	QuizTotal int       `json:"quiz_total"`
	ConvLen   int       `json:"conv_len"`
	CreatedAt time.Time `json:"created"`
	Rate      float64   `json:"rate"`
	Lang      i18n.Lang `json:"lang"`
}

// Status projects the session. Quiz figures are zero outside a quiz.
func (s *Session) Status() Status {
	st := Status{
		ID:        s.ID,
		Mode:      s.Mode,
		Topics:    slices.Clone(s.Topics),
		ConvLen:   len(s.History),
		CreatedAt: s.CreatedAt,
		Rate:      s.Rate,
		Lang:      s.Lang,
	}
	if st.Topics == nil {
		st.Topics = []string{}
	}
	if s.Topic != "" {
		topic := s.Topic
		st.Topic = &topic
	}
	if s.Quiz != nil {
		st.QuizScore = s.Quiz.Score
		st.QuizTotal = s.Quiz.Total
	}
	return st
}
