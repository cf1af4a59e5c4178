package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sourcebook/internal/logging"
)

// OllamaClient generates completions against a local Ollama server using the
// /api/chat endpoint. Structured output rides on Ollama's format parameter,
// which accepts a JSON schema directly.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient creates an Ollama client.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string { return c.model }

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// GenerateText sends a free-form completion request.
func (c *OllamaClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.chat(ctx, systemPrompt, userPrompt, nil)
}

// GenerateJSON sends a schema-constrained completion request.
func (c *OllamaClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (json.RawMessage, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("json schema is empty")
	}
	format, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	raw, err := c.chat(ctx, systemPrompt, userPrompt, format)
	if err != nil {
		return nil, err
	}
	return checkJSON("ollama", raw)
}

func (c *OllamaClient) chat(ctx context.Context, systemPrompt, userPrompt string, format json.RawMessage) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()

	messages := make([]ollamaMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: userPrompt})

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Format:   format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LLMError("[Ollama] Request failed after %v: %v", time.Since(startTime), err)
		return "", &GenerationError{Provider: "ollama", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Provider: "ollama", Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		logging.LLMError("[Ollama] Server returned status %d: %s", resp.StatusCode, string(body))
		return "", &GenerationError{
			Provider: "ollama",
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(body)),
		}
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &InvalidFormatError{Provider: "ollama", Reason: "unparsable response envelope", Err: err}
	}

	content := strings.TrimSpace(chatResp.Message.Content)
	if content == "" {
		return "", &GenerationError{Provider: "ollama", Message: "empty completion"}
	}

	logging.LLM("[Ollama] Completed in %v model=%s response_len=%d", time.Since(startTime), c.model, len(content))
	return content, nil
}
