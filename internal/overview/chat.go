package overview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"projectindex/internal/errs"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat calls Ollama's /api/chat endpoint for generative text.
type Chat struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewChat creates a Chat client targeting the given Ollama instance and model.
func NewChat(baseURL, model string) *Chat {
	return &Chat{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message Message `json:"message"`
}

// Generate sends messages and returns the assistant's reply.
func (c *Chat) Generate(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Stream: false})
	if err != nil {
		return "", errs.Wrap(errs.EmbeddingError, "marshal chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(errs.EmbeddingError, "build chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.EmbeddingError, "chat request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", errs.New(errs.EmbeddingError, fmt.Sprintf("chat endpoint returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errs.Wrap(errs.EmbeddingError, "decode chat response", err)
	}
	return result.Message.Content, nil
}

var _ Generator = (*Chat)(nil)
