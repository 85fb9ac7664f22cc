package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const conversationTTL = 24 * time.Hour

// HistoryStore keeps one conversation transcript per source (user, group or
// room). Implementations are safe for concurrent use; a source with no
// stored transcript loads as empty, not as an error.
type HistoryStore interface {
	Load(ctx context.Context, sourceID string) ([]ChatMessage, error)
	Save(ctx context.Context, sourceID string, history []ChatMessage) error
}

// TrimWindow returns the most recent limit turns. limit <= 0 disables
// trimming.
func TrimWindow(history []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// RedisHistoryStore persists per-source history in redis with a TTL, so idle
// conversations expire instead of accumulating forever.
type RedisHistoryStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

func NewRedisHistoryStore(client *redis.Client, tracer trace.Tracer) *RedisHistoryStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("chatbot.internal.conversation.history")
	}
	return &RedisHistoryStore{
		redis:  client,
		tracer: tracer,
	}
}

func (s *RedisHistoryStore) Save(ctx context.Context, sourceID string, history []ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_history")
	defer span.End()

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, conversationKey(sourceID), data, conversationTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist history: %w", err)
	}
	return nil
}

func (s *RedisHistoryStore) Load(ctx context.Context, sourceID string) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, conversationKey(sourceID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode history: %w", err)
	}
	return history, nil
}

func conversationKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}

// MemoryHistoryStore is an in-process HistoryStore for redis-less deploys
// and tests. Transcripts live for the lifetime of the process.
type MemoryHistoryStore struct {
	mu       sync.RWMutex
	bySource map[string][]ChatMessage
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		bySource: make(map[string][]ChatMessage),
	}
}

func (s *MemoryHistoryStore) Load(_ context.Context, sourceID string) ([]ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.bySource[sourceID]
	if len(stored) == 0 {
		return nil, nil
	}
	out := make([]ChatMessage, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryHistoryStore) Save(_ context.Context, sourceID string, history []ChatMessage) error {
	stored := make([]ChatMessage, len(history))
	copy(stored, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySource[sourceID] = stored
	return nil
}
