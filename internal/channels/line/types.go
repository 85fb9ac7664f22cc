package line

import "time"

// WebhookEvent is the top-level structure received from the LINE platform.
type WebhookEvent struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event represents a single event in the webhook payload.
type Event struct {
	Type       string   `json:"type"`
	Timestamp  int64    `json:"timestamp"`
	ReplyToken string   `json:"replyToken"`
	Source     Source   `json:"source"`
	Message    *Message `json:"message,omitempty"`
}

// Source identifies where the event originated.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Message contains the message content.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ReplyRequest is the payload sent to the reply endpoint.
type ReplyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

// PushRequest is the payload sent to the push endpoint.
type PushRequest struct {
	To       string        `json:"to"`
	Messages []TextMessage `json:"messages"`
}

// TextMessage is a plain text outbound message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// APIError represents an error body returned by the Messaging API.
type APIError struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail pinpoints the offending request property.
type ErrorDetail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

// InboundEvent is the normalized result of parsing a webhook event.
// ReplyToken is consumed at most once; the platform rejects reuse.
type InboundEvent struct {
	ReplyToken  string
	SourceID    string
	MessageText string
	MessageID   string
	ReceivedAt  time.Time
}
