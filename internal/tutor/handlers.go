package tutor

import (
	"context"
	"fmt"
	"slices"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/prompt"
	"github.com/abhisek/viva/internal/session"
)

// exampleContextRunes bounds how much of the previous reply is handed to
// the example prompt.
const exampleContextRunes = 500

// generalTopic is the example topic used when no topic is in focus.
const generalTopic = "general"

func msg(s *session.Session, key i18n.Key, args i18n.Args) string {
	return i18n.Message(s.Lang, key, args)
}

func (c *Controller) learn(ctx context.Context, topic, _ string, s *session.Session) (string, error) {
	if topic == "" {
		return msg(s, i18n.NoTopic, nil), nil
	}
	s.StartLearning(topic)
	return c.teach(ctx, s)
}

// teach generates the content of the current learning section.
func (c *Controller) teach(ctx context.Context, s *session.Session) (string, error) {
	return c.generate(ctx, prompt.Teach{
		Topic:      s.Learn.Topic,
		Section:    s.Learn.Section,
		Covered:    slices.Clone(s.Learn.Covered),
		Lang:       s.Lang,
		Profile:    s.Profile.Snapshot(),
		Difficulty: teachDifficulty(s.Profile),
	})
}

func (c *Controller) quiz(ctx context.Context, _, _ string, s *session.Session) (string, error) {
	if len(s.Topics) == 0 {
		return msg(s, i18n.NoTopics, nil), nil
	}
	s.StartQuiz()

	out, err := c.generate(ctx, prompt.Quiz{
		Task:       prompt.QuizGenerate,
		Topics:     slices.Clone(s.Topics),
		Number:     s.Quiz.Number,
		Lang:       s.Lang,
		Profile:    s.Profile.Snapshot(),
		Difficulty: quizDifficulty(s.Profile),
	})
	if err != nil {
		return "", err
	}
	s.Quiz.Question = out
	return out, nil
}

func (c *Controller) quizAnswer(ctx context.Context, topic, text string, s *session.Session) (string, error) {
	if s.Quiz == nil {
		return c.question(ctx, topic, text, s)
	}
	q := s.Quiz

	history := append(slices.Clone(q.History), session.QuizRecord{Question: q.Question})
	out, err := c.generate(ctx, prompt.Quiz{
		Task:       prompt.QuizEvaluate,
		Topics:     slices.Clone(s.Topics),
		Number:     q.Number,
		Score:      q.Score,
		Total:      q.Total,
		History:    history,
		Answer:     text,
		Lang:       s.Lang,
		Profile:    s.Profile.Snapshot(),
		Difficulty: quizDifficulty(s.Profile),
	})
	if err != nil {
		return "", err
	}

	correct := i18n.LexiconFor(s.Lang).Confirms(out)
	if correct {
		q.Score++
	}
	q.Total++
	q.Number++
	s.Profile.RecordAnswer(correct)
	q.History = append(q.History, session.QuizRecord{
		Question: q.Question,
		Answer:   text,
		Correct:  correct,
	})
	// The evaluation reply carries the next question.
	q.Question = out
	return out, nil
}

func (c *Controller) question(ctx context.Context, topic, text string, s *session.Session) (string, error) {
	s.SetMode(session.ModeQA)
	if s.AddTopic(topic) {
		s.Topic = topic
	}
	return c.answer(ctx, text, s)
}

func (c *Controller) answer(ctx context.Context, text string, s *session.Session) (string, error) {
	return c.generate(ctx, prompt.Answer{Question: text, Lang: s.Lang})
}

func (c *Controller) repeat(_ context.Context, _, _ string, s *session.Session) (string, error) {
	if s.LastReply == "" {
		return msg(s, i18n.NoPrev, nil), nil
	}
	return s.LastReply, nil
}

func (c *Controller) back(ctx context.Context, _, _ string, s *session.Session) (string, error) {
	if !s.Learning() {
		return msg(s, i18n.NotLearning, nil), nil
	}
	if s.Learn.Section <= 1 {
		return msg(s, i18n.AtStart, nil), nil
	}

	s.Learn.Section--
	if n := len(s.Learn.Covered); n > 0 {
		s.Learn.Covered = s.Learn.Covered[:n-1]
	}
	return c.teach(ctx, s)
}

func (c *Controller) stop(_ context.Context, _, _ string, s *session.Session) (string, error) {
	prev := s.Mode
	quiz := s.Quiz
	s.SetMode(session.ModeIdle)

	if prev == session.ModeLearning {
		s.AddTopic(s.Topic)
	}
	if prev == session.ModeQuiz && quiz != nil {
		return msg(s, i18n.QuizStop, i18n.Args{"score": quiz.Score, "total": quiz.Total}), nil
	}
	return msg(s, i18n.Stopped, nil), nil
}

func (c *Controller) slower(_ context.Context, _, _ string, s *session.Session) (string, error) {
	rate := s.AdjustRate(-session.RateStep)
	return msg(s, i18n.Slower, i18n.Args{"rate": rate}), nil
}

func (c *Controller) faster(_ context.Context, _, _ string, s *session.Session) (string, error) {
	rate := s.AdjustRate(session.RateStep)
	return msg(s, i18n.Faster, i18n.Args{"rate": rate}), nil
}

func (c *Controller) example(ctx context.Context, _, _ string, s *session.Session) (string, error) {
	topic := s.Topic
	if topic == "" {
		topic = generalTopic
	}
	s.Profile.RecordExample()
	return c.generate(ctx, prompt.Example{
		Topic:   topic,
		Context: truncateRunes(s.LastReply, exampleContextRunes),
		Lang:    s.Lang,
	})
}

func (c *Controller) simplify(ctx context.Context, _, _ string, s *session.Session) (string, error) {
	if s.LastReply == "" {
		return msg(s, i18n.NoSimplify, nil), nil
	}
	s.Profile.RecordSimplify()
	return c.generate(ctx, prompt.Simplify{Text: s.LastReply, Lang: s.Lang})
}

func (c *Controller) continueLearning(ctx context.Context, _, _ string, s *session.Session) (string, error) {
	if !s.Learning() {
		return msg(s, i18n.NotLearningCont, nil), nil
	}

	l := s.Learn
	l.Covered = append(l.Covered, fmt.Sprintf("Section %d", l.Section))
	l.Section++
	s.Profile.RecordSection()

	if l.Section > l.MaxSection {
		done := s.Topic
		s.AddTopic(done)
		s.SetMode(session.ModeIdle)
		return msg(s, i18n.Done, i18n.Args{"topic": done}), nil
	}
	return c.teach(ctx, s)
}

// unknown answers like question but leaves the mode alone.
func (c *Controller) unknown(ctx context.Context, topic, text string, s *session.Session) (string, error) {
	if s.AddTopic(topic) {
		s.Topic = topic
	}
	return c.answer(ctx, text, s)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
