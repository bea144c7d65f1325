package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"laundrify-backend/config"
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
// Every call is bounded by the request context and the configured
// client timeout, so a dead upstream resolves to a connectivity
// failure instead of hanging the exchange.
type Client struct {
	cfg    *config.LLMConfig
	apiKey string
	client *http.Client
}

// NewClient creates a client for the configured model API.
func NewClient(cfg *config.LLMConfig, apiKey string) *Client {
	return &Client{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AskLaundryBot answers a text question about laundry care.
func (c *Client) AskLaundryBot(ctx context.Context, question string) (string, error) {
	return c.complete(ctx, chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens: c.cfg.MaxTokens,
	})
}

// AnalyzeClothingImage returns care instructions for a garment photo
// passed as a data URI.
func (c *Client) AnalyzeClothingImage(ctx context.Context, imageDataURI string) (string, error) {
	if !strings.HasPrefix(imageDataURI, "data:image/") {
		return "", &RequestError{
			Class: FailureMalformedInput,
			Err:   fmt.Errorf("image must be a data URI, got %q prefix", truncate(imageDataURI, 16)),
		}
	}

	return c.complete(ctx, chatRequest{
		Model: c.cfg.VisionModel,
		Messages: []chatMessage{
			{Role: "system", Content: imageAnalysisPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: imageAnalysisQuestion},
				{Type: "image_url", ImageURL: &imageURL{URL: imageDataURI}},
			}},
		},
		MaxTokens: c.cfg.VisionMaxTokens,
	})
}

func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &RequestError{Class: FailureMalformedInput, Err: err}
	}

	url := strings.TrimRight(c.cfg.APIBase, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Class: FailureMalformedInput, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &RequestError{Class: FailureConnectivity, Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return "", err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Class: FailureConnectivity, Err: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &RequestError{Class: FailureConnectivity, Err: fmt.Errorf("unexpected response body: %w", err)}
	}

	if len(parsed.Choices) == 0 {
		return emptyReplyFallback, nil
	}
	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if reply == "" {
		return emptyReplyFallback, nil
	}
	return reply, nil
}

// classifyStatus maps a non-2xx response onto a failure class.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &RequestError{Class: FailureAuthentication, Err: fmt.Errorf("status %d", status)}
	case status == http.StatusBadRequest ||
		status == http.StatusRequestEntityTooLarge ||
		status == http.StatusUnsupportedMediaType ||
		status == http.StatusUnprocessableEntity:
		return &RequestError{Class: FailureMalformedInput, Err: fmt.Errorf("status %d", status)}
	default:
		// Timeouts, rate limits and 5xx all read as "try again later".
		return &RequestError{Class: FailureConnectivity, Err: fmt.Errorf("status %d", status)}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
