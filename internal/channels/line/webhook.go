package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "X-Line-Signature"

// VerifySignature verifies the X-Line-Signature header: HMAC-SHA256 over the
// raw request body keyed with the channel secret, base64 standard encoding.
// Returns false for an empty secret, an empty or undecodable header, or a
// digest mismatch. The comparison is constant time.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)

	return hmac.Equal(mac.Sum(nil), decoded)
}

// Sign computes the signature the platform would send for body. Used by
// callers that need to build valid webhook requests (tests, local tooling).
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ParseWebhookBody unmarshals a callback body into its event envelope.
func ParseWebhookBody(body []byte) (WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return WebhookEvent{}, err
	}
	return event, nil
}

// ParseWebhookEvent extracts InboundEvents from a webhook envelope.
// Only text message events are returned; other event and message types
// (stickers, follows, joins, ...) are skipped without error.
func ParseWebhookEvent(event WebhookEvent) []InboundEvent {
	var inbound []InboundEvent

	for _, ev := range event.Events {
		if ev.Type != "message" || ev.Message == nil || ev.Message.Type != "text" {
			continue
		}

		inbound = append(inbound, InboundEvent{
			ReplyToken:  ev.ReplyToken,
			SourceID:    sourceID(ev.Source),
			MessageText: ev.Message.Text,
			MessageID:   ev.Message.ID,
			ReceivedAt:  time.UnixMilli(ev.Timestamp),
		})
	}

	return inbound
}

func sourceID(s Source) string {
	switch {
	case s.UserID != "":
		return s.UserID
	case s.GroupID != "":
		return s.GroupID
	default:
		return s.RoomID
	}
}
