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

	"journalwatch/internal/config"
	"journalwatch/internal/ports"
)

// OllamaClient implements ports.ModelClient against an Ollama-compatible
// generate endpoint: one user-role prompt in, generated text out.
type OllamaClient struct {
	host       string
	model      string
	httpClient *http.Client
}

var _ ports.ModelClient = (*OllamaClient)(nil)

// NewOllamaClient builds a client from configuration.
func NewOllamaClient(cfg config.ModelConfig) *OllamaClient {
	return &OllamaClient{
		host:  strings.TrimSuffix(cfg.Host, "/"),
		model: cfg.Name,
		httpClient: &http.Client{
			// Local models can be slow to evaluate long prompts.
			Timeout: 120 * time.Second,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate posts the prompt and returns the model's text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.host == "" || c.model == "" {
		return "", fmt.Errorf("model client misconfigured")
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("model backend error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}

	return generated.Response, nil
}
