// Package textgen wraps an OpenAI-compatible chat-completions endpoint behind a
// single Generate call. The caller decides what to do when generation fails;
// this package never substitutes fallback text on its own.
package textgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

const systemPrompt = "You are a gentle counselor. Read the diary below and write warm, " +
	"encouraging feedback of at most 150 characters, speaking like a close friend."

type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMsg `json:"message"`
	} `json:"choices"`
}

func New(url, apiKey, model string) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.url == "" {
		return "", errors.New("textgen url is not configured")
	}
	body, err := sonic.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMsg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", errors.New("marshalling chat request error: " + err.Error())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.New("building chat request error: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.New("chat request error: " + err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(raw))
	}
	var parsed chatResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.New("decoding chat response error: " + err.Error())
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat endpoint returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
