package intent

import "github.com/abhisek/viva/internal/llm"

func intentLabels() []any {
	labels := make([]any, len(classifiable))
	for i, in := range classifiable {
		labels[i] = string(in)
	}
	return labels
}

// Schema defines the JSON schema for LLM intent classification responses.
var Schema = &llm.Schema{
	Name:        "intent-classification",
	Description: "The purpose of one learner utterance to a tutoring assistant",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type":        "string",
				"enum":        intentLabels(),
				"description": "The classified intent",
			},
			"topic": map[string]any{
				"type":        []any{"string", "null"},
				"description": "The subject the learner named, or null if none",
			},
			"confidence": map[string]any{
				"type":        "number",
				"description": "Confidence score between 0 and 1",
			},
		},
		"required":             []any{"intent", "topic", "confidence"},
		"additionalProperties": false,
	},
}
