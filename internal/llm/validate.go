package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// checkResponse applies the shared post-conditions to a provider response.
// A refusal always fails. Free text must be non-empty and may be truncated;
// structured output must be complete and conform to the request schema.
func checkResponse(provider string, req Request, resp *Response) error {
	if resp.StopReason == StopRefused {
		return &ErrRefused{Provider: provider, Reason: string(bytes.TrimSpace(resp.Content))}
	}
	if req.Schema == nil {
		if len(bytes.TrimSpace(resp.Content)) == 0 {
			return &ErrInvalidResponse{Provider: provider, Err: errors.New("empty response")}
		}
		return nil
	}
	if resp.StopReason == StopMaxTokens {
		return &ErrMaxTokensExceeded{Provider: provider, Content: resp.Content}
	}
	err := validateResponse(req.Schema, resp.Content)
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		invalid.Provider = provider
	}
	return err
}

// Decode strips a surrounding markdown code fence from raw, validates it
// against schema when one is given, and unmarshals it into v.
func Decode(raw json.RawMessage, schema *Schema, v any) error {
	cleaned := StripCodeFence(raw)
	if err := validateResponse(schema, cleaned); err != nil {
		return err
	}
	if err := json.Unmarshal(cleaned, v); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// StripCodeFence removes a leading ```json / ``` / json marker and a
// trailing ``` that models sometimes wrap JSON in.
func StripCodeFence(raw []byte) []byte {
	cleaned := bytes.TrimSpace(raw)
	for _, prefix := range [][]byte{[]byte("```json"), []byte("```"), []byte("json")} {
		cleaned = bytes.TrimPrefix(cleaned, prefix)
	}
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	return bytes.TrimSpace(cleaned)
}

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are *ErrInvalidResponse.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid("invalid JSON: %w", err)
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return invalid("compile schema %q: %w", schema.Name, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return invalid("schema validation failed: %w", err)
	}
	return nil
}

// compiled holds one *jsonschema.Schema per Schema.Name.
var compiled sync.Map

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// Round-trip through JSON so typed Go slices become the []any the
	// compiler expects.
	buf, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}

	url := "mem://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(schema.Name, s)
	return s, nil
}
