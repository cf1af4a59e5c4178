package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"sourcebook/internal/logging"
)

// GeminiClient talks to the Gemini REST API directly. Structured output uses
// generationConfig.responseJsonSchema with an application/json MIME type, so
// the backend constrains decoding to the schema instead of us post-validating
// free text.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// GeminiConfig holds connection settings for the REST client.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-2.5-flash",
		Timeout: 2 * time.Minute,
	}
}

// NewGeminiClient creates a Gemini REST client.
func NewGeminiClient(config GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GeminiClient{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string { return c.model }

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64                `json:"temperature"`
	ResponseMimeType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseJsonSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a free-form completion request.
func (c *GeminiClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := c.buildRequest(systemPrompt, userPrompt, nil)
	return c.send(ctx, body)
}

// GenerateJSON sends a schema-constrained completion request. Exactly one
// request goes out; a malformed completion comes back as InvalidFormatError
// rather than triggering a retry.
func (c *GeminiClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (json.RawMessage, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("json schema is empty")
	}
	body := c.buildRequest(systemPrompt, userPrompt, schema)
	raw, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}
	return checkJSON("gemini", raw)
}

func (c *GeminiClient) buildRequest(systemPrompt, userPrompt string, schema map[string]interface{}) geminiRequest {
	req := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userPrompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature: 1.0,
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		req.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		}
	}
	if schema != nil {
		req.GenerationConfig.ResponseMimeType = "application/json"
		req.GenerationConfig.ResponseSchema = schema
	}
	return req
}

func (c *GeminiClient) send(ctx context.Context, reqBody geminiRequest) (string, error) {
	if c.apiKey == "" {
		return "", &GenerationError{Provider: "gemini", Message: "API key not configured"}
	}

	// Auto-apply timeout if context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()

	// Rate limiting: space requests at least 100ms apart.
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LLMError("[Gemini] Request failed after %v: %v", time.Since(startTime), err)
		return "", &GenerationError{Provider: "gemini", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Provider: "gemini", Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		logging.LLMError("[Gemini] API returned status %d: %s", resp.StatusCode, string(body))
		return "", &GenerationError{
			Provider: "gemini",
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(body)),
		}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &InvalidFormatError{Provider: "gemini", Reason: "unparsable response envelope", Err: err}
	}
	if geminiResp.Error != nil {
		return "", &GenerationError{
			Provider: "gemini",
			Status:   geminiResp.Error.Code,
			Message:  geminiResp.Error.Message,
		}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Provider: "gemini", Message: "no completion returned"}
	}

	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}
	response := strings.TrimSpace(result.String())
	if response == "" {
		return "", &GenerationError{Provider: "gemini", Message: "empty completion"}
	}

	logging.LLM("[Gemini] Completed in %v model=%s response_len=%d", time.Since(startTime), c.model, len(response))
	return response, nil
}
