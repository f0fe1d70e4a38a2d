package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/intent"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewDefaults(t *testing.T) {
	s := New("abc", i18n.Azerbaijani, t0)

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Equal(t, i18n.Azerbaijani, s.Lang)
	assert.Equal(t, 1.0, s.Rate)
	assert.Equal(t, t0, s.CreatedAt)
	assert.Nil(t, s.Learn)
	assert.Nil(t, s.Quiz)
	assert.Empty(t, s.History)
	assert.Empty(t, s.LastReply)
	assert.Equal(t, PaceNormal, s.Profile.Pace)
}

func TestNewInvalidLangFallsBack(t *testing.T) {
	assert.Equal(t, i18n.English, New("x", i18n.Lang("fr"), t0).Lang)
}

func TestSetModeKeepsStatesInStep(t *testing.T) {
	s := New("x", i18n.English, t0)

	s.StartLearning("gravity")
	require.NotNil(t, s.Learn)
	assert.Equal(t, ModeLearning, s.Mode)
	assert.Equal(t, "gravity", s.Topic)
	assert.Equal(t, LearnState{Topic: "gravity", Section: 1, MaxSection: 5}, *s.Learn)
	assert.True(t, s.Learning())

	s.StartQuiz()
	assert.Nil(t, s.Learn, "entering a quiz ends the learning flow")
	require.NotNil(t, s.Quiz)
	assert.Equal(t, 1, s.Quiz.Number)
	assert.True(t, s.Quizzing())
	assert.False(t, s.Learning())

	s.SetMode(ModeQA)
	assert.Nil(t, s.Quiz)
	assert.Nil(t, s.Learn)
	assert.False(t, s.Quizzing())

	s.StartLearning("optics")
	s.SetMode(ModeLearning)
	assert.NotNil(t, s.Learn, "staying in learning keeps the flow")
}

func TestAddTopic(t *testing.T) {
	s := New("x", i18n.English, t0)

	assert.True(t, s.AddTopic("math"))
	assert.True(t, s.AddTopic("physics"))
	assert.False(t, s.AddTopic("math"))
	assert.False(t, s.AddTopic(""))
	assert.Equal(t, []string{"math", "physics"}, s.Topics)
}

func TestAppendMessage(t *testing.T) {
	s := New("x", i18n.English, t0)

	s.AppendMessage(RoleUser, "teach me math", intent.Learn, t0)
	assert.Empty(t, s.LastReply, "user messages do not touch LastReply")

	s.AppendMessage(RoleAssistant, "Math is...", intent.Learn, t0.Add(time.Second))
	assert.Equal(t, "Math is...", s.LastReply)
	require.Len(t, s.History, 2)
	assert.Equal(t, ConvMsg{Role: RoleAssistant, Content: "Math is...", Timestamp: t0.Add(time.Second), Intent: intent.Learn}, s.History[1])
}

func TestAdjustRate(t *testing.T) {
	s := New("x", i18n.English, t0)

	for _, want := range []float64{0.75, 0.5, 0.5} {
		assert.Equal(t, want, s.AdjustRate(-RateStep))
	}
	for _, want := range []float64{0.75, 1.0, 1.25, 1.5, 1.75, 2.0, 2.0} {
		assert.Equal(t, want, s.AdjustRate(RateStep))
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New("x", i18n.English, t0)
	s.AddTopic("math")
	s.AppendMessage(RoleAssistant, "hello", intent.Unknown, t0)
	s.StartLearning("math")
	s.Learn.Covered = append(s.Learn.Covered, "Section 1")

	c := s.Clone()
	c.Topics[0] = "changed"
	c.Topics = append(c.Topics, "extra")
	c.History[0].Content = "changed"
	c.Learn.Section = 4
	c.Learn.Covered[0] = "changed"
	c.Profile.RecordSimplify()
	c.Rate = 2

	assert.Equal(t, []string{"math"}, s.Topics)
	assert.Equal(t, "hello", s.History[0].Content)
	assert.Equal(t, 1, s.Learn.Section)
	assert.Equal(t, []string{"Section 1"}, s.Learn.Covered)
	assert.Equal(t, 0, s.Profile.SimplifyCount)
	assert.Equal(t, 1.0, s.Rate)

	s.StartQuiz()
	s.Quiz.History = append(s.Quiz.History, QuizRecord{Question: "q1"})
	qc := s.Clone()
	qc.Quiz.Score = 1
	qc.Quiz.History[0].Correct = true
	assert.Equal(t, 0, s.Quiz.Score)
	assert.False(t, s.Quiz.History[0].Correct)
}

func TestProfile(t *testing.T) {
	p := NewProfile()
	assert.Equal(t, 0.5, p.Accuracy())

	p.RecordAnswer(true)
	p.RecordAnswer(false)
	p.RecordAnswer(true)
	p.RecordAnswer(true)
	assert.Equal(t, 0.75, p.Accuracy())
	assert.Equal(t, 3, p.CorrectAnswers)
	assert.Equal(t, 4, p.TotalAnswers)

	p.RecordSimplify()
	p.RecordSimplify()
	assert.Equal(t, PaceNormal, p.Pace)
	p.RecordSimplify()
	assert.Equal(t, PaceSlow, p.Pace)
	p.RecordSimplify()
	assert.Equal(t, PaceSlow, p.Pace, "pace never reverts")

	p.RecordExample()
	p.RecordSection()
	assert.Equal(t, ProfileSnapshot{
		SimplifyRequests:  4,
		ExampleRequests:   1,
		SectionsCompleted: 1,
		QuizAccuracy:      0.75,
		PreferredPace:     PaceSlow,
	}, p.Snapshot())
}

func TestStatus(t *testing.T) {
	s := New("sid-1", i18n.English, t0)
	st := s.Status()
	assert.Nil(t, st.Topic)
	assert.Equal(t, []string{}, st.Topics)
	assert.Zero(t, st.QuizScore)

	s.AddTopic("math")
	s.Topic = "math"
	s.StartQuiz()
	s.Quiz.Score, s.Quiz.Total = 2, 3
	s.AppendMessage(RoleUser, "x", intent.QuizAnswer, t0)
	s.AdjustRate(RateStep)

	st = s.Status()
	require.NotNil(t, st.Topic)
	assert.Equal(t, "math", *st.Topic)
	assert.Equal(t, Status{
		ID: "sid-1", Mode: ModeQuiz, Topic: st.Topic, Topics: []string{"math"},
		QuizScore: 2, QuizTotal: 3, ConvLen: 1, CreatedAt: t0, Rate: 1.25, Lang: i18n.English,
	}, st)

	st.Topics[0] = "mutated"
	assert.Equal(t, "math", s.Topics[0], "status does not alias session slices")
}
