// Package prompt defines the generation requests the tutor issues and
// renders them into per-language prompt text.
package prompt

import (
	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/llm"
	"github.com/abhisek/viva/internal/session"
)

// Request is one of Teach, Quiz, Answer, Simplify or Example.
type Request interface {
	// Purpose labels the request for logging and error messages.
	Purpose() string
	// Language is the language the reply must be written in.
	Language() i18n.Lang

	isRequest()
}

// Difficulty is the level a prompt asks the generator to pitch at.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Easy         Difficulty = "easy"
	Medium       Difficulty = "medium"
	Hard         Difficulty = "hard"
)

// QuizTask selects between asking and grading.
type QuizTask string

const (
	QuizGenerate QuizTask = "generate"
	QuizEvaluate QuizTask = "evaluate"
)

// Teach asks for one section of a topic.
type Teach struct {
	Topic      string
	Section    int
	Covered    []string
	Lang       i18n.Lang
	Profile    session.ProfileSnapshot
	Difficulty Difficulty
}

// Quiz asks for a new question or grades an answer to the pending one.
type Quiz struct {
	Task   QuizTask
	Topics []string
	Number int
	Score  int
	Total  int
	// History holds the graded records followed, when evaluating, by the
	// pending question with an empty answer.
	History    []session.QuizRecord
	Answer     string
	Lang       i18n.Lang
	Profile    session.ProfileSnapshot
	Difficulty Difficulty
}

// PendingQuestion is the question being answered, empty when none.
func (q Quiz) PendingQuestion() string {
	if len(q.History) == 0 {
		return ""
	}
	return q.History[len(q.History)-1].Question
}

// Answer asks for a direct answer to a free-form question.
type Answer struct {
	Question string
	Lang     i18n.Lang
}

// Simplify asks for a simpler restatement of Text.
type Simplify struct {
	Text string
	Lang i18n.Lang
}

// Example asks for practical examples of Topic. Context is the start of the
// previous reply.
type Example struct {
	Topic   string
	Context string
	Lang    i18n.Lang
}

func (Teach) Purpose() string    { return llm.PurposeTeach }
func (Quiz) Purpose() string     { return llm.PurposeQuiz }
func (Answer) Purpose() string   { return llm.PurposeAnswer }
func (Simplify) Purpose() string { return llm.PurposeSimplify }
func (Example) Purpose() string  { return llm.PurposeExample }

func (r Teach) Language() i18n.Lang    { return r.Lang }
func (r Quiz) Language() i18n.Lang     { return r.Lang }
func (r Answer) Language() i18n.Lang   { return r.Lang }
func (r Simplify) Language() i18n.Lang { return r.Lang }
func (r Example) Language() i18n.Lang  { return r.Lang }

func (Teach) isRequest()    {}
func (Quiz) isRequest()     {}
func (Answer) isRequest()   {}
func (Simplify) isRequest() {}
func (Example) isRequest()  {}
