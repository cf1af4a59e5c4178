package llm

import (
	"context"
	"encoding/json"
)

// Client is the generation backend. Implementations send exactly one request
// per call; retry policy belongs to whoever owns the conversation.
//
// GenerateText returns a free-form completion. GenerateJSON enforces the
// given JSON schema on the response and returns the raw decoded-checked
// payload; a completion that is not valid JSON yields an *InvalidFormatError,
// and a refused or empty response yields a *GenerationError.
type Client interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (json.RawMessage, error)
	Model() string
}

// checkJSON verifies that raw parses as JSON and returns it as a RawMessage.
func checkJSON(provider, raw string) (json.RawMessage, error) {
	var probe interface{}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, &InvalidFormatError{Provider: provider, Reason: "response is not valid JSON", Err: err}
	}
	return json.RawMessage(raw), nil
}
