package line

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

const (
	defaultAPIBase     = "https://api.line.me"
	defaultHTTPTimeout = 10 * time.Second

	// maxMessagesPerReply is the platform cap on messages per reply call.
	maxMessagesPerReply = 5
)

// ErrTooManyMessages is returned when a reply or push would exceed the
// platform's per-call message cap.
var ErrTooManyMessages = errors.New("line: at most 5 messages per send")

// Client sends messages via the LINE Messaging API.
type Client struct {
	channelAccessToken string
	apiBase            string
	httpClient         *http.Client
}

// NewClient creates a new Messaging API client.
func NewClient(channelAccessToken string) *Client {
	return &Client{
		channelAccessToken: channelAccessToken,
		apiBase:            defaultAPIBase,
		httpClient:         &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetAPIBase overrides the Messaging API base URL (useful for testing).
func (c *Client) SetAPIBase(base string) {
	c.apiBase = base
}

// ReplyMessage sends text messages correlated to an inbound event's reply
// token. The token is single use; expiry and reuse surface as API errors.
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, texts ...string) error {
	msgs, err := textMessages(texts)
	if err != nil {
		return err
	}
	req := ReplyRequest{
		ReplyToken: replyToken,
		Messages:   msgs,
	}
	return c.post(ctx, "/v2/bot/message/reply", req)
}

// PushMessage sends text messages to a user, group, or room without a reply
// token.
func (c *Client) PushMessage(ctx context.Context, to string, texts ...string) error {
	msgs, err := textMessages(texts)
	if err != nil {
		return err
	}
	req := PushRequest{
		To:       to,
		Messages: msgs,
	}
	return c.post(ctx, "/v2/bot/message/push", req)
}

func textMessages(texts []string) ([]TextMessage, error) {
	if len(texts) == 0 {
		return nil, errors.New("line: no messages to send")
	}
	if len(texts) > maxMessagesPerReply {
		return nil, ErrTooManyMessages
	}
	msgs := make([]TextMessage, 0, len(texts))
	for _, text := range texts {
		msgs = append(msgs, TextMessage{Type: "text", Text: text})
	}
	return msgs, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("line: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("line: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.channelAccessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("line: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("line: API status %d, read response: %w", resp.StatusCode, err)
	}

	var apiErr APIError
	if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("line: API error %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("line: unexpected status %d: %s", resp.StatusCode, string(respBody))
}
