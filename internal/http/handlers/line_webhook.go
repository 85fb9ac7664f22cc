package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/DaichiHaraguchi/sample-chat-bot/internal/channels/line"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/conversation"
	observemetrics "github.com/DaichiHaraguchi/sample-chat-bot/internal/observability/metrics"
	"github.com/DaichiHaraguchi/sample-chat-bot/pkg/logging"
)

// replySender delivers reply text through the platform.
type replySender interface {
	ReplyMessage(ctx context.Context, replyToken string, texts ...string) error
}

// LineWebhookHandler is the webhook gateway: it gates the request on the
// channel signature, parses the callback payload, and dispatches each text
// message event through the responder and reply sender, synchronously and in
// array order.
type LineWebhookHandler struct {
	channelSecret string
	responder     conversation.Responder
	sender        replySender
	strategy      string
	logger        *logging.Logger
	metrics       *observemetrics.RelayMetrics
}

type LineWebhookConfig struct {
	ChannelSecret string
	Responder     conversation.Responder
	Sender        replySender
	Strategy      string
	Logger        *logging.Logger
	Metrics       *observemetrics.RelayMetrics
}

func NewLineWebhookHandler(cfg LineWebhookConfig) *LineWebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &LineWebhookHandler{
		channelSecret: cfg.ChannelSecret,
		responder:     cfg.Responder,
		sender:        cfg.Sender,
		strategy:      cfg.Strategy,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
	}
}

// HandleCallback processes POST /callback. A missing signature header is
// treated as an empty signature and fails verification; nothing is dispatched
// for a request that fails the gate or does not parse. Per-event reply
// failures never change the response: the platform webhook is fire-and-forget
// and always sees 200 "OK" once the gate and parse succeed.
func (h *LineWebhookHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.observe("bad_body", start)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(line.SignatureHeader)
	if !line.VerifySignature(h.channelSecret, body, signature) {
		h.logger.Warn("invalid webhook signature", "remote_ip", r.RemoteAddr)
		h.observe("bad_signature", start)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	envelope, err := line.ParseWebhookBody(body)
	if err != nil {
		h.logger.Warn("malformed webhook payload", "error", err)
		h.observe("bad_payload", start)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	for _, event := range line.ParseWebhookEvent(envelope) {
		h.handleEvent(r.Context(), event)
	}

	h.observe("ok", start)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *LineWebhookHandler) handleEvent(ctx context.Context, event line.InboundEvent) {
	replyStart := time.Now()
	reply, err := h.responder.Reply(ctx, event.SourceID, event.MessageText)
	h.metrics.ObserveCompletionLatency(time.Since(replyStart).Seconds())
	if err != nil {
		h.metrics.ObserveReply(h.strategy, "completion_failed")
		h.logger.Error("responder failed, sending apology",
			"source_id", event.SourceID,
			"error", err,
		)
		reply = apologyText(err)
	}

	if err := h.sender.ReplyMessage(ctx, event.ReplyToken, reply); err != nil {
		// Delivery failures (expired token, text too long) are logged and
		// counted; the webhook response stays 200.
		h.metrics.ObserveReply(h.strategy, "delivery_failed")
		h.logger.Error("reply delivery failed",
			"source_id", event.SourceID,
			"error", err,
		)
		return
	}

	h.metrics.ObserveReply(h.strategy, "sent")
}

func apologyText(err error) string {
	var replyErr *conversation.ReplyError
	if errors.As(err, &replyErr) {
		return replyErr.UserMessage()
	}
	return (&conversation.ReplyError{Cause: conversation.CauseCompletion, Err: err}).UserMessage()
}

func (h *LineWebhookHandler) observe(status string, start time.Time) {
	h.metrics.ObserveInbound(status)
	h.metrics.ObserveWebhookLatency(status, time.Since(start).Seconds())
}

// HealthCheck responds to GET / and GET /health.
func (h *LineWebhookHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("sample-chat-bot is running"))
}
