package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/intent"
	"github.com/abhisek/viva/internal/prompt"
	"github.com/abhisek/viva/internal/session"
)

func TestLearnStartsSectionOne(t *testing.T) {
	gen := &fakeGenerator{fn: replies("Section one on fractions")}
	c := newTestController(scriptedClassifier{
		"teach me fractions": about(intent.Learn, "fractions"),
	}, gen)
	s := newTestSession(i18n.English)

	reply, err := c.Process(context.Background(), "teach me fractions", s)
	require.NoError(t, err)

	assert.Equal(t, "Section one on fractions", reply.Text)
	assert.Equal(t, intent.Learn, reply.Intent)
	assert.Equal(t, "fractions", reply.Topic)

	assert.Equal(t, session.ModeLearning, s.Mode)
	assert.Equal(t, "fractions", s.Topic)
	require.NotNil(t, s.Learn)
	assert.Equal(t, 1, s.Learn.Section)
	assert.Empty(t, s.Learn.Covered)

	req, ok := gen.last().(prompt.Teach)
	require.True(t, ok)
	assert.Equal(t, "fractions", req.Topic)
	assert.Equal(t, 1, req.Section)
	assert.Empty(t, req.Covered)
	assert.Equal(t, prompt.Intermediate, req.Difficulty)
	assert.Equal(t, i18n.English, req.Lang)

	require.Len(t, s.History, 2)
	assert.Equal(t, session.RoleUser, s.History[0].Role)
	assert.Equal(t, "teach me fractions", s.History[0].Content)
	assert.Equal(t, intent.Learn, s.History[0].Intent)
	assert.Equal(t, session.RoleAssistant, s.History[1].Role)
	assert.Equal(t, intent.Learn, s.History[1].Intent)
	assert.Equal(t, t0, s.History[1].Timestamp)
	assert.Equal(t, "Section one on fractions", s.LastReply)
}

func TestLearnWithoutTopic(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{"teach me": is(intent.Learn)}, gen)
	s := newTestSession(i18n.English)

	reply, err := c.Process(context.Background(), "teach me", s)
	require.NoError(t, err)

	assert.Equal(t, i18n.Message(i18n.English, i18n.NoTopic, nil), reply.Text)
	assert.Equal(t, session.ModeIdle, s.Mode)
	assert.Nil(t, s.Learn)
	assert.Zero(t, gen.calls())
}

func TestContinueThroughAllSections(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{
		"learn gravity": about(intent.Learn, "gravity"),
		"next":          is(intent.Continue),
	}, gen)
	s := newTestSession(i18n.English)
	ctx := context.Background()

	_, err := c.Process(ctx, "learn gravity", s)
	require.NoError(t, err)

	for sec := 2; sec <= session.MaxSection; sec++ {
		_, err := c.Process(ctx, "next", s)
		require.NoError(t, err)
		require.NotNil(t, s.Learn)
		assert.Equal(t, sec, s.Learn.Section)
		assert.Len(t, s.Learn.Covered, sec-1)
		assert.Equal(t, "Section 1", s.Learn.Covered[0])

		req := gen.last().(prompt.Teach)
		assert.Equal(t, sec, req.Section)
		assert.Equal(t, s.Learn.Covered, req.Covered)
	}
	assert.Empty(t, s.Topics, "topic is recorded only when the flow ends")

	calls := gen.calls()
	reply, err := c.Process(ctx, "next", s)
	require.NoError(t, err)

	assert.Equal(t, "Done with 'gravity'! Say 'quiz' to test or learn something new.", reply.Text)
	assert.Equal(t, session.ModeIdle, s.Mode)
	assert.Nil(t, s.Learn)
	assert.Equal(t, []string{"gravity"}, s.Topics)
	assert.Equal(t, session.MaxSection, s.Profile.SectionsCompleted)
	assert.Equal(t, calls, gen.calls(), "completion does not generate")
}

func TestContinueOutsideLearning(t *testing.T) {
	c := newTestController(scriptedClassifier{"next": is(intent.Continue)}, &fakeGenerator{})
	s := newTestSession(i18n.English)

	reply, err := c.Process(context.Background(), "next", s)
	require.NoError(t, err)
	assert.Equal(t, i18n.Message(i18n.English, i18n.NotLearningCont, nil), reply.Text)
	assert.Zero(t, s.Profile.SectionsCompleted)
}

func TestBack(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{
		"learn atoms": about(intent.Learn, "atoms"),
		"next":        is(intent.Continue),
		"back":        is(intent.Back),
	}, gen)
	ctx := context.Background()

	t.Run("not learning", func(t *testing.T) {
		s := newTestSession(i18n.English)
		reply, err := c.Process(ctx, "back", s)
		require.NoError(t, err)
		assert.Equal(t, i18n.Message(i18n.English, i18n.NotLearning, nil), reply.Text)
	})

	t.Run("at start", func(t *testing.T) {
		s := newTestSession(i18n.English)
		_, err := c.Process(ctx, "learn atoms", s)
		require.NoError(t, err)

		reply, err := c.Process(ctx, "back", s)
		require.NoError(t, err)
		assert.Equal(t, i18n.Message(i18n.English, i18n.AtStart, nil), reply.Text)
		assert.Equal(t, 1, s.Learn.Section)
	})

	t.Run("steps back", func(t *testing.T) {
		s := newTestSession(i18n.English)
		for _, text := range []string{"learn atoms", "next", "next"} {
			_, err := c.Process(ctx, text, s)
			require.NoError(t, err)
		}
		require.Equal(t, 3, s.Learn.Section)

		_, err := c.Process(ctx, "back", s)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Learn.Section)
		assert.Equal(t, []string{"Section 1"}, s.Learn.Covered)

		req := gen.last().(prompt.Teach)
		assert.Equal(t, 2, req.Section)
		assert.Equal(t, []string{"Section 1"}, req.Covered)
	})
}

func TestQuizWithoutTopics(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{"quiz me": is(intent.Quiz)}, gen)
	s := newTestSession(i18n.English)

	reply, err := c.Process(context.Background(), "quiz me", s)
	require.NoError(t, err)

	assert.Equal(t, i18n.Message(i18n.English, i18n.NoTopics, nil), reply.Text)
	assert.Equal(t, session.ModeIdle, s.Mode)
	assert.Nil(t, s.Quiz)
	assert.Zero(t, gen.calls())
}

func TestQuizFlow(t *testing.T) {
	gen := &fakeGenerator{fn: replies(
		"Q1: What is 2+2?",
		"Correct! Q2: What is 3*3?",
		"Wrong, the correct answer is 9. Q3: What is 10/2?",
	)}
	c := newTestController(scriptedClassifier{
		"quiz me": is(intent.Quiz),
		"stop":    is(intent.Stop),
		// Classified as learn but answered inside a quiz.
		"8": about(intent.Learn, "numbers"),
	}, gen)
	s := newTestSession(i18n.English)
	s.Topics = []string{"arithmetic"}
	ctx := context.Background()

	reply, err := c.Process(ctx, "quiz me", s)
	require.NoError(t, err)
	assert.Equal(t, "Q1: What is 2+2?", reply.Text)
	require.NotNil(t, s.Quiz)
	assert.Equal(t, session.ModeQuiz, s.Mode)
	assert.Equal(t, "Q1: What is 2+2?", s.Quiz.Question)
	assert.Equal(t, 1, s.Quiz.Number)

	gq := gen.last().(prompt.Quiz)
	assert.Equal(t, prompt.QuizGenerate, gq.Task)
	assert.Equal(t, []string{"arithmetic"}, gq.Topics)
	assert.Equal(t, 1, gq.Number)
	assert.Zero(t, gq.Score)
	assert.Zero(t, gq.Total)
	assert.Empty(t, gq.History)
	assert.Equal(t, prompt.Medium, gq.Difficulty)

	reply, err = c.Process(ctx, "4", s)
	require.NoError(t, err)
	assert.Equal(t, intent.QuizAnswer, reply.Intent)
	assert.Equal(t, 1, s.Quiz.Score)
	assert.Equal(t, 1, s.Quiz.Total)
	assert.Equal(t, 2, s.Quiz.Number)
	assert.Equal(t, "Correct! Q2: What is 3*3?", s.Quiz.Question)
	assert.Equal(t, []session.QuizRecord{
		{Question: "Q1: What is 2+2?", Answer: "4", Correct: true},
	}, s.Quiz.History)

	eq := gen.last().(prompt.Quiz)
	assert.Equal(t, prompt.QuizEvaluate, eq.Task)
	assert.Equal(t, "4", eq.Answer)
	assert.Equal(t, "Q1: What is 2+2?", eq.PendingQuestion())

	reply, err = c.Process(ctx, "8", s)
	require.NoError(t, err)
	assert.Equal(t, intent.QuizAnswer, reply.Intent, "free-form answers are not reclassified")
	assert.Equal(t, "numbers", reply.Topic)
	assert.Equal(t, 1, s.Quiz.Score)
	assert.Equal(t, 2, s.Quiz.Total)
	assert.False(t, s.Quiz.History[1].Correct)
	assert.Empty(t, s.Topics[1:], "coerced answers do not capture topics")
	assert.Equal(t, 1, s.Profile.CorrectAnswers)
	assert.Equal(t, 2, s.Profile.TotalAnswers)

	reply, err = c.Process(ctx, "stop", s)
	require.NoError(t, err)
	assert.Equal(t, "Quiz stopped. 1/2 correct. What's next?", reply.Text)
	assert.Equal(t, session.ModeIdle, s.Mode)
	assert.Nil(t, s.Quiz)
}

func TestQuizKeepsControlIntents(t *testing.T) {
	for _, in := range []intent.Intent{intent.Repeat, intent.Simplify, intent.Example, intent.Stop} {
		t.Run(in.String(), func(t *testing.T) {
			c := newTestController(scriptedClassifier{"x": is(in)}, &fakeGenerator{})
			s := newTestSession(i18n.English)
			s.Topics = []string{"a"}
			s.StartQuiz()
			s.Quiz.Question = "Q1"
			s.LastReply = "Q1"

			reply, err := c.Process(context.Background(), "x", s)
			require.NoError(t, err)
			assert.Equal(t, in, reply.Intent)
		})
	}
}

func TestQuizGradingUsesSessionLanguage(t *testing.T) {
	gen := &fakeGenerator{fn: replies("Əla! Növbəti sual: 5+5?")}
	c := newTestController(scriptedClassifier{}, gen)
	s := newTestSession(i18n.Azerbaijani)
	s.Topics = []string{"riyaziyyat"}
	s.StartQuiz()
	s.Quiz.Question = "2+2?"

	_, err := c.Process(context.Background(), "dörd", s)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Quiz.Score)
	assert.Equal(t, i18n.Azerbaijani, gen.last().Language())
}

func TestQuizAnswerWithoutQuizFallsBackToQuestion(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{}, gen)
	s := newTestSession(i18n.English)

	_, err := c.quizAnswer(context.Background(), "", "what is a prime?", s)
	require.NoError(t, err)
	assert.Equal(t, session.ModeQA, s.Mode)
	assert.IsType(t, prompt.Answer{}, gen.last())
}

func TestQuestionCapturesNewTopic(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{
		"what is dna?":     about(intent.Question, "dna"),
		"and rna?":         about(intent.Question, "rna"),
		"dna again please": about(intent.Question, "dna"),
	}, gen)
	s := newTestSession(i18n.English)
	ctx := context.Background()

	_, err := c.Process(ctx, "what is dna?", s)
	require.NoError(t, err)
	assert.Equal(t, session.ModeQA, s.Mode)
	assert.Equal(t, "dna", s.Topic)

	_, err = c.Process(ctx, "and rna?", s)
	require.NoError(t, err)
	_, err = c.Process(ctx, "dna again please", s)
	require.NoError(t, err)

	assert.Equal(t, []string{"dna", "rna"}, s.Topics)
	assert.Equal(t, "rna", s.Topic, "known topics do not take focus")

	req := gen.last().(prompt.Answer)
	assert.Equal(t, "dna again please", req.Question)
}

func TestQuestionLeavesLearning(t *testing.T) {
	c := newTestController(scriptedClassifier{
		"learn x": about(intent.Learn, "x"),
		"why?":    is(intent.Question),
	}, &fakeGenerator{})
	s := newTestSession(i18n.English)
	ctx := context.Background()

	_, err := c.Process(ctx, "learn x", s)
	require.NoError(t, err)
	_, err = c.Process(ctx, "why?", s)
	require.NoError(t, err)

	assert.Equal(t, session.ModeQA, s.Mode)
	assert.Nil(t, s.Learn)
}

func TestUnknownKeepsMode(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{
		"learn x": about(intent.Learn, "x"),
		"hmm y":   about(intent.Unknown, "y"),
	}, gen)
	s := newTestSession(i18n.English)
	ctx := context.Background()

	_, err := c.Process(ctx, "learn x", s)
	require.NoError(t, err)
	_, err = c.Process(ctx, "hmm y", s)
	require.NoError(t, err)

	assert.Equal(t, session.ModeLearning, s.Mode)
	assert.NotNil(t, s.Learn)
	assert.Equal(t, []string{"y"}, s.Topics)
	assert.Equal(t, "y", s.Topic)
	assert.IsType(t, prompt.Answer{}, gen.last())
}

func TestRepeat(t *testing.T) {
	c := newTestController(scriptedClassifier{
		"again":   is(intent.Repeat),
		"what is": is(intent.Question),
	}, &fakeGenerator{fn: replies("an answer")})
	s := newTestSession(i18n.English)
	ctx := context.Background()

	reply, err := c.Process(ctx, "again", s)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to repeat.", reply.Text)

	s = newTestSession(i18n.English)
	_, err = c.Process(ctx, "what is", s)
	require.NoError(t, err)

	reply, err = c.Process(ctx, "again", s)
	require.NoError(t, err)
	assert.Equal(t, "an answer", reply.Text)
	assert.Equal(t, "an answer", s.LastReply)
}

func TestRateStaysInBounds(t *testing.T) {
	c := newTestController(scriptedClassifier{
		"slower": is(intent.Slower),
		"faster": is(intent.Faster),
	}, &fakeGenerator{})
	s := newTestSession(i18n.English)
	ctx := context.Background()

	var reply Reply
	var err error
	for range 10 {
		reply, err = c.Process(ctx, "slower", s)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.Rate, session.MinRate)
	}
	assert.Equal(t, session.MinRate, s.Rate)
	assert.Equal(t, "Slower. Rate: 0.5x", reply.Text)

	for range 10 {
		reply, err = c.Process(ctx, "faster", s)
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Rate, session.MaxRate)
	}
	assert.Equal(t, session.MaxRate, s.Rate)
	assert.Equal(t, "Faster. Rate: 2.0x", reply.Text)
	assert.Equal(t, session.ModeIdle, s.Mode)
}

func TestSimplifyRatchetsPace(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{
		"simpler":  is(intent.Simplify),
		"learn go": about(intent.Learn, "go"),
		"slower":   is(intent.Slower),
	}, gen)
	s := newTestSession(i18n.English)
	ctx := context.Background()

	reply, err := c.Process(ctx, "simpler", s)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to simplify.", reply.Text)
	assert.Zero(t, s.Profile.SimplifyCount)

	s.LastReply = "a dense explanation"
	for i := 1; i <= 3; i++ {
		prev := s.LastReply
		_, err := c.Process(ctx, "simpler", s)
		require.NoError(t, err)

		req := gen.last().(prompt.Simplify)
		assert.Equal(t, prev, req.Text)
		if i < 3 {
			assert.Equal(t, session.PaceNormal, s.Profile.Pace, "after %d", i)
		}
	}
	assert.Equal(t, session.PaceSlow, s.Profile.Pace)

	for _, text := range []string{"learn go", "slower"} {
		_, err := c.Process(ctx, text, s)
		require.NoError(t, err)
	}
	assert.Equal(t, session.PaceSlow, s.Profile.Pace)
	assert.Equal(t, prompt.Beginner, gen.last().(prompt.Teach).Difficulty)
}

func TestExample(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(scriptedClassifier{"example": is(intent.Example)}, gen)
	s := newTestSession(i18n.English)
	s.LastReply = strings.Repeat("ə", 600)

	_, err := c.Process(context.Background(), "example", s)
	require.NoError(t, err)

	req := gen.last().(prompt.Example)
	assert.Equal(t, "general", req.Topic)
	assert.Equal(t, strings.Repeat("ə", 500), req.Context)
	assert.Equal(t, 1, s.Profile.ExampleCount)

	s.Topic = "photosynthesis"
	_, err = c.Process(context.Background(), "example", s)
	require.NoError(t, err)
	req = gen.last().(prompt.Example)
	assert.Equal(t, "photosynthesis", req.Topic)
	assert.Equal(t, "generated example", req.Context)
}

func TestStop(t *testing.T) {
	c := newTestController(scriptedClassifier{
		"learn x": about(intent.Learn, "x"),
		"stop":    is(intent.Stop),
	}, &fakeGenerator{})
	ctx := context.Background()

	s := newTestSession(i18n.English)
	_, err := c.Process(ctx, "learn x", s)
	require.NoError(t, err)

	reply, err := c.Process(ctx, "stop", s)
	require.NoError(t, err)
	assert.Equal(t, "Stopped. What now?", reply.Text)
	assert.Equal(t, session.ModeIdle, s.Mode)
	assert.Nil(t, s.Learn)
	assert.Equal(t, []string{"x"}, s.Topics)

	s = newTestSession(i18n.Azerbaijani)
	reply, err = c.Process(ctx, "stop", s)
	require.NoError(t, err)
	assert.Equal(t, "Dayandırıldı. Nə edək?", reply.Text)
	assert.Empty(t, s.Topics)
}

func TestGeneratorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	gen := &fakeGenerator{fn: func(prompt.Request) (string, error) { return "", boom }}
	c := newTestController(scriptedClassifier{"learn x": about(intent.Learn, "x")}, gen)
	s := newTestSession(i18n.English)

	reply, err := c.Process(context.Background(), "learn x", s)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "generate teach")
	assert.Equal(t, intent.Learn, reply.Intent)
	assert.Empty(t, reply.Text)
}

func TestDifficulty(t *testing.T) {
	profile := func(simplify, correct, total int) session.Profile {
		p := session.NewProfile()
		p.SimplifyCount = simplify
		p.CorrectAnswers = correct
		p.TotalAnswers = total
		return p
	}

	assert.Equal(t, prompt.Intermediate, teachDifficulty(profile(2, 0, 0)))
	assert.Equal(t, prompt.Beginner, teachDifficulty(profile(3, 0, 0)))

	tests := []struct {
		correct, total int
		want           prompt.Difficulty
	}{
		{0, 0, prompt.Medium},
		{1, 3, prompt.Easy},
		{2, 5, prompt.Medium},
		{3, 4, prompt.Medium},
		{4, 5, prompt.Hard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quizDifficulty(profile(0, tt.correct, tt.total)), "%d/%d", tt.correct, tt.total)
	}
}
