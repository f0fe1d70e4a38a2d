package intent

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/llm"
)

// ClassifierConfig holds configuration for the LLM classifier.
type ClassifierConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultClassifierConfig returns sensible defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MaxTokens:   128,
		Temperature: 0,
	}
}

// LLMClassifier classifies utterances with a single structured LLM call.
type LLMClassifier struct {
	provider llm.Provider
	cfg      ClassifierConfig
	log      logrus.FieldLogger
}

// NewLLMClassifier creates an LLM-backed Classifier.
func NewLLMClassifier(provider llm.Provider, cfg ClassifierConfig, log logrus.FieldLogger) *LLMClassifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LLMClassifier{provider: provider, cfg: cfg, log: log}
}

// classifierOutput is the raw LLM response.
type classifierOutput struct {
	Intent     string   `json:"intent"`
	Topic      *string  `json:"topic"`
	Confidence *float64 `json:"confidence"`
}

// Classify implements Classifier. Provider errors and malformed output
// degrade to UnknownResult.
func (c *LLMClassifier) Classify(ctx context.Context, text string, lang i18n.Lang) Result {
	ctx = llm.WithPurpose(ctx, llm.PurposeIntent)

	userMsg, err := buildClassifierMessage(text)
	if err != nil {
		c.log.WithError(err).Debug("build intent prompt")
		return UnknownResult()
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: classifierSystemPrompt(lang),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      Schema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		c.log.WithError(err).Debug("intent classification failed")
		return UnknownResult()
	}

	var raw classifierOutput
	if err := llm.Decode(resp.Content, Schema, &raw); err != nil {
		c.log.WithError(err).Debug("intent classification unparseable")
		return UnknownResult()
	}

	res := Result{
		Intent:     Parse(raw.Intent),
		Confidence: 0.5,
	}
	if raw.Topic != nil {
		res.Topic = strings.TrimSpace(*raw.Topic)
	}
	if raw.Confidence != nil {
		res.Confidence = clamp01(*raw.Confidence)
	}
	return res
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

var classifierSystemPrompts = map[i18n.Lang]string{
	i18n.English: `Classify the intent of the learner's input to a tutoring assistant:
- learn: wants to learn ("teach me", "explain")
- quiz: wants a test ("test me", "quiz")
- question: asking something
- repeat: "repeat", "say again"
- back: "go back", "previous"
- stop: "stop", "pause"
- slower / faster: speech speed control
- example: wants an example
- simplify: "I don't understand"
- continue: "next", "continue", "yes"
- unknown: none of the above

Set topic to the subject the learner named, or null.
Reply with JSON only: {"intent": "<intent>", "topic": "<topic or null>", "confidence": <0-1>}`,

	i18n.Azerbaijani: `Öyrənənin müəllim köməkçisinə yazdığı mətnin niyyətini təsnif et:
- learn: öyrənmək istəyir ("öyrət", "izah et")
- quiz: test istəyir ("test et", "sınaq")
- question: sual verir
- repeat: "təkrarla", "yenidən"
- back: "geri", "əvvəlki"
- stop: "dayan", "dayandır"
- slower / faster: danışıq sürəti
- example: nümunə istəyir
- simplify: "başa düşmürəm"
- continue: "davam", "növbəti", "hə"
- unknown: heç biri

topic sahəsinə öyrənənin adını çəkdiyi mövzunu yaz, yoxdursa null.
Yalnız JSON: {"intent": "<intent>", "topic": "<topic or null>", "confidence": <0-1>}`,
}

func classifierSystemPrompt(lang i18n.Lang) string {
	if p, ok := classifierSystemPrompts[lang]; ok {
		return p
	}
	return classifierSystemPrompts[i18n.DefaultLang]
}

var classifierUserTemplate = template.Must(template.New("intent").Parse(`Input: {{.}}`))

func buildClassifierMessage(text string) (string, error) {
	var buf bytes.Buffer
	if err := classifierUserTemplate.Execute(&buf, text); err != nil {
		return "", err
	}
	return buf.String(), nil
}
