// Package advice wraps the external AI advice API. The service treats it as
// an opaque, possibly-failing remote capability: text in, text out.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable wraps any transport or API failure so callers can tell
// "provider is down" apart from their own faults (quota must not be consumed
// in this case).
var ErrUnavailable = errors.New("advice provider unavailable")

// Prompt wrapper the original bot used for the sonar model, minus anything
// user-specific.
const promptPrefix = "Give a concise (no more than 70 words! and no text formatting, " +
	"but separate paragraphs, also dont include resource links or hyperlinks. plain text only) " +
	"but insightful advice for this task (explain how to plan, what steps to take, how to achieve " +
	"the best result). Do not give help on anything illegal or discriminating. details: "

const promptSuffix = " Answer in RUSSIAN"

// Provider produces advice text for a task description.
type Provider interface {
	Advise(ctx context.Context, text string) (string, error)
}

// SonarClient calls a Perplexity-style chat completions endpoint.
type SonarClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewSonarClient returns a new SonarClient.
func NewSonarClient(apiKey, baseURL, model string, timeout time.Duration) *SonarClient {
	return &SonarClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *SonarClient) Advise(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: promptPrefix + text + promptSuffix},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, raw)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUnavailable)
	}
	return out.Choices[0].Message.Content, nil
}
