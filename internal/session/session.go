// Package session holds the per-learner conversation state and the
// in-memory store that owns it.
package session

import (
	"slices"
	"time"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/intent"
)

// Mode is the pedagogical state of a session.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeLearning Mode = "learning"
	ModeQuiz     Mode = "quiz"
	ModeQA       Mode = "qa"
)

// Speech rate bounds and step.
const (
	MinRate     = 0.5
	MaxRate     = 2.0
	RateStep    = 0.25
	DefaultRate = 1.0
)

// MaxSection is the number of sections in every learning flow.
const MaxSection = 5

// Role identifies the author of a ConvMsg.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConvMsg is one entry of the conversation log.
type ConvMsg struct {
	Role      Role
	Content   string
	Timestamp time.Time
	Intent    intent.Intent // empty when untagged
}

// LearnState tracks an active learning flow. Section is 1-indexed; it
// briefly reaches MaxSection+1 when the last section completes, right
// before the state is cleared.
type LearnState struct {
	Topic      string
	Section    int
	Covered    []string
	MaxSection int
}

// NewLearnState starts a flow on topic at section 1.
func NewLearnState(topic string) *LearnState {
	return &LearnState{Topic: topic, Section: 1, MaxSection: MaxSection}
}

// QuizRecord is one graded question.
type QuizRecord struct {
	Question string
	Answer   string
	Correct  bool
}

// QuizState tracks an active quiz. Score never exceeds Total.
type QuizState struct {
	Question string // pending question text
	Number   int    // starts at 1
	Score    int
	Total    int
	History  []QuizRecord
}

// NewQuizState starts a quiz at question 1.
func NewQuizState() *QuizState {
	return &QuizState{Number: 1}
}

// Session is the full dialogue state of one learner.
//
// Learn is non-nil exactly while Mode is ModeLearning and Quiz is non-nil
// exactly while Mode is ModeQuiz; use SetMode, StartLearning and StartQuiz
// to change modes so the two stay in step.
type Session struct {
	ID        string
	Mode      Mode
	Lang      i18n.Lang
	History   []ConvMsg
	Topics    []string // insertion ordered, no duplicates
	Topic     string   // current focus, empty when none
	Learn     *LearnState
	Quiz      *QuizState
	Profile   Profile
	LastReply string
	Rate      float64
	CreatedAt time.Time
}

// New returns a session in its default state.
func New(id string, lang i18n.Lang, now time.Time) *Session {
	if !lang.Valid() {
		lang = i18n.DefaultLang
	}
	return &Session{
		ID:        id,
		Mode:      ModeIdle,
		Lang:      lang,
		Profile:   NewProfile(),
		Rate:      DefaultRate,
		CreatedAt: now,
	}
}

// SetMode switches mode, dropping the learning or quiz state the new mode
// does not carry.
func (s *Session) SetMode(m Mode) {
	s.Mode = m
	if m != ModeLearning {
		s.Learn = nil
	}
	if m != ModeQuiz {
		s.Quiz = nil
	}
}

// StartLearning enters learning mode on topic at section 1.
func (s *Session) StartLearning(topic string) {
	s.SetMode(ModeLearning)
	s.Topic = topic
	s.Learn = NewLearnState(topic)
}

// StartQuiz enters quiz mode with a fresh quiz at question 1.
func (s *Session) StartQuiz() {
	s.SetMode(ModeQuiz)
	s.Quiz = NewQuizState()
}

// Learning reports whether a learning flow is active.
func (s *Session) Learning() bool {
	return s.Mode == ModeLearning && s.Learn != nil
}

// Quizzing reports whether a quiz question is pending.
func (s *Session) Quizzing() bool {
	return s.Mode == ModeQuiz && s.Quiz != nil
}

// AddTopic appends topic to Topics unless it is empty or already present.
// It reports whether the topic was added.
func (s *Session) AddTopic(topic string) bool {
	if topic == "" || slices.Contains(s.Topics, topic) {
		return false
	}
	s.Topics = append(s.Topics, topic)
	return true
}

// AppendMessage adds an entry to the log. Assistant messages also become
// LastReply.
func (s *Session) AppendMessage(role Role, content string, in intent.Intent, now time.Time) {
	s.History = append(s.History, ConvMsg{
		Role:      role,
		Content:   content,
		Timestamp: now,
		Intent:    in,
	})
	if role == RoleAssistant {
		s.LastReply = content
	}
}

// AdjustRate moves Rate by delta, clamped to [MinRate, MaxRate], and
// returns the new rate.
func (s *Session) AdjustRate(delta float64) float64 {
	s.Rate = min(MaxRate, max(MinRate, s.Rate+delta))
	return s.Rate
}

// Clone returns a deep copy. Turns mutate a clone and commit it on success.
func (s *Session) Clone() *Session {
	c := *s
	c.History = slices.Clone(s.History)
	c.Topics = slices.Clone(s.Topics)
	if s.Learn != nil {
		l := *s.Learn
		l.Covered = slices.Clone(s.Learn.Covered)
		c.Learn = &l
	}
	if s.Quiz != nil {
		q := *s.Quiz
		q.History = slices.Clone(s.Quiz.History)
		c.Quiz = &q
	}
	return &c
}
