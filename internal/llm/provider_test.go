package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "  Hello there.\n", "Hello there."},
		{"json string", `"Quoted answer"`, "Quoted answer"},
		{"json object kept", `{"a":1}`, `{"a":1}`},
		{"unterminated quote kept", `"half`, `"half`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Content: json.RawMessage(tt.content)}
			assert.Equal(t, tt.want, r.Text())
		})
	}

	var nilResp *Response
	assert.Empty(t, nilResp.Text())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, PurposeQuiz, PurposeFrom(WithPurpose(ctx, PurposeQuiz)))
}
