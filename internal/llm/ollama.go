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
)

// Ollama calls the /api/generate endpoint of an Ollama server without
// streaming.
type Ollama struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewOllama constructs an Ollama generator. Empty values fall back to the
// local default server and a 45s timeout.
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Ollama{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

// Name returns the generator identifier.
func (o *Ollama) Name() string { return "ollama" }

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends the prompt and returns the trimmed completion.
func (o *Ollama) Generate(ctx context.Context, req Request) (Response, error) {
	if o.model == "" {
		return Response{}, fmt.Errorf("model is required")
	}
	body := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		Stream: false,
	}
	if req.MaxTokens > 0 {
		body.Options = map[string]any{"num_predict": req.MaxTokens}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := o.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Response{}, fmt.Errorf("ollama: status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return Response{}, ErrEmptyReply
	}
	return Response{Text: text, Model: out.Model}, nil
}
