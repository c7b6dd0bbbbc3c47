package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	jsonTemperature  = 0.3
	proseTemperature = 0.7
	maxErrorBody     = 500
)

// Settings is what a Client needs to reach the endpoint.
type Settings struct {
	BaseURL string
	Model   string
	Enabled bool
	Timeout time.Duration
}

// Client posts chat completions to an OpenAI-compatible endpoint.
type Client struct {
	settings Settings
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a Client. A nil logger disables diagnostics.
func NewClient(s Settings, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return &Client{
		settings: s,
		http:     &http.Client{Timeout: s.Timeout},
		logger:   logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// PostChat implements Chatter.
func (c *Client) PostChat(ctx context.Context, system, user string, wantsJSON bool) (string, error) {
	if !c.settings.Enabled {
		return "", &UnavailableError{Reason: "disabled in settings", Err: ErrDisabled}
	}

	req := chatRequest{
		Model: c.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: proseTemperature,
	}
	if wantsJSON {
		req.Temperature = jsonTemperature
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	url := c.settings.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", c.classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.classify(err)
	}

	c.logger.Debug("chat completion",
		zap.String("model", c.settings.Model),
		zap.Bool("json", wantsJSON),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(data)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return "", &RejectedError{StatusCode: resp.StatusCode, Body: text}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &RejectedError{Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &RejectedError{Err: errors.New("response has no choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}

// classify maps a transport failure to an UnavailableError.
func (c *Client) classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return &UnavailableError{Reason: "request cancelled", Err: err}
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &UnavailableError{
			Reason: fmt.Sprintf("request timed out after %s", c.settings.Timeout),
			Err:    err,
		}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &UnavailableError{
			Reason: fmt.Sprintf("cannot connect to LLM service at %s, is it running?", c.settings.BaseURL),
			Err:    err,
		}
	default:
		return &UnavailableError{Reason: "request failed", Err: err}
	}
}
