package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"sourcebook/internal/logging"
)

// GenAIClient generates completions through the official Google GenAI SDK.
// It is the "gemini-sdk" provider: same backend as GeminiClient, but the SDK
// owns transport, auth, and response assembly.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a GenAI SDK client.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model}, nil
}

// Model returns the configured model name.
func (c *GenAIClient) Model() string { return c.model }

// GenerateText sends a free-form completion request.
func (c *GenAIClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt, false)
}

// GenerateJSON sends a schema-constrained completion request. The SDK path
// constrains output to JSON via the response MIME type and carries the schema
// in the system instruction.
func (c *GenAIClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (json.RawMessage, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("json schema is empty")
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	systemPrompt = strings.TrimSpace(systemPrompt) +
		"\n\nRespond with ONLY a JSON document conforming to this JSON schema, no prose:\n" + string(schemaJSON)

	raw, err := c.generate(ctx, systemPrompt, userPrompt, true)
	if err != nil {
		return nil, err
	}
	return checkJSON("genai", raw)
}

func (c *GenAIClient) generate(ctx context.Context, systemPrompt, userPrompt string, jsonOutput bool) (string, error) {
	startTime := time.Now()

	config := &genai.GenerateContentConfig{}
	if strings.TrimSpace(systemPrompt) != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if jsonOutput {
		config.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		logging.LLMError("[GenAI] Request failed after %v: %v", time.Since(startTime), err)
		return "", &GenerationError{Provider: "genai", Message: "request failed", Err: err}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &GenerationError{Provider: "genai", Message: "empty completion"}
	}

	logging.LLM("[GenAI] Completed in %v model=%s response_len=%d", time.Since(startTime), c.model, len(text))
	return text, nil
}
