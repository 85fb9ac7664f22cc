package conversation

import (
	"context"
	"fmt"

	"github.com/DaichiHaraguchi/sample-chat-bot/internal/catalog"
	"github.com/DaichiHaraguchi/sample-chat-bot/pkg/logging"
)

// Responder turns an inbound text message into a reply text. sourceID scopes
// any conversation state to the sender.
type Responder interface {
	Reply(ctx context.Context, sourceID, text string) (string, error)
}

// Fixed phrases used by the static responder.
const (
	GreetingTrigger = "こんにちは"
	GreetingReply   = "こんにちは！LINE BOTです。"
	RetryReply      = "「こんにちは」と送ってみてね！"
)

// StaticResponder is the keyword-matching baseline: an exact, case-sensitive
// match of the greeting phrase, no trimming, no localization.
type StaticResponder struct{}

func NewStaticResponder() *StaticResponder {
	return &StaticResponder{}
}

func (r *StaticResponder) Reply(_ context.Context, _ string, text string) (string, error) {
	if text == GreetingTrigger {
		return GreetingReply, nil
	}
	return RetryReply, nil
}

const systemPromptFormat = `以下は大学のシラバス情報です。

%s

この情報を元に、ユーザーの質問に合いそうな授業をいくつか紹介してください。`

// LLMService is the generative responder: it keeps a windowed per-source
// transcript and asks the model for course recommendations grounded in the
// syllabus catalog.
type LLMService struct {
	client       LLMClient
	history      HistoryStore
	model        string
	systemPrompt string
	window       int
	logger       *logging.Logger
}

// NewLLMService builds the generative responder. The catalog is serialized
// into the system prompt once; it is never regenerated.
func NewLLMService(client LLMClient, history HistoryStore, cat *catalog.Catalog, model string, window int, logger *logging.Logger) *LLMService {
	if logger == nil {
		logger = logging.Default()
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &LLMService{
		client:       client,
		history:      history,
		model:        model,
		systemPrompt: fmt.Sprintf(systemPromptFormat, cat.PromptContext()),
		window:       window,
		logger:       logger,
	}
}

// Reply appends the user's turn to the source's history, requests a
// completion, and on success records the assistant's turn. A failed
// completion leaves the history with the user turn only and returns a
// *ReplyError with CauseCompletion; the boundary renders the apology text.
func (s *LLMService) Reply(ctx context.Context, sourceID, text string) (string, error) {
	history, err := s.history.Load(ctx, sourceID)
	if err != nil {
		s.logger.Warn("failed to load history, starting fresh", "source_id", sourceID, "error", err)
		history = nil
	}

	history = append(history, ChatMessage{Role: ChatRoleUser, Content: text})

	resp, err := s.client.Complete(ctx, LLMRequest{
		Model:    s.model,
		System:   []string{s.systemPrompt},
		Messages: history,
	})
	if err != nil {
		if saveErr := s.saveWindowed(ctx, sourceID, history); saveErr != nil {
			s.logger.Error("failed to save history after completion failure", "source_id", sourceID, "error", saveErr)
		}
		return "", &ReplyError{Cause: CauseCompletion, Err: err}
	}

	history = append(history, ChatMessage{Role: ChatRoleAssistant, Content: resp.Text})
	if err := s.saveWindowed(ctx, sourceID, history); err != nil {
		// The reply is already computed; losing one window update is
		// preferable to failing the whole event.
		s.logger.Error("failed to save history", "source_id", sourceID, "error", err)
	}

	return resp.Text, nil
}

func (s *LLMService) saveWindowed(ctx context.Context, sourceID string, history []ChatMessage) error {
	return s.history.Save(ctx, sourceID, TrimWindow(history, s.window))
}
