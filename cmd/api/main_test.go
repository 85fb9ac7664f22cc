package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/DaichiHaraguchi/sample-chat-bot/internal/config"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/conversation"
	"github.com/DaichiHaraguchi/sample-chat-bot/pkg/logging"
)

func TestBuildResponderStatic(t *testing.T) {
	cfg := &appconfig.Config{ReplyMode: appconfig.ReplyModeStatic}

	responder, cleanup, err := buildResponder(context.Background(), cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if _, ok := responder.(*conversation.StaticResponder); !ok {
		t.Fatalf("expected StaticResponder, got %T", responder)
	}
}

func TestBuildResponderGeminiMissingCatalog(t *testing.T) {
	cfg := &appconfig.Config{
		ReplyMode:       appconfig.ReplyModeGemini,
		GeminiAPIKey:    "key",
		SyllabusCSVPath: filepath.Join(t.TempDir(), "missing.csv"),
	}

	if _, _, err := buildResponder(context.Background(), cfg, logging.New("error")); err == nil {
		t.Fatal("expected error for missing syllabus CSV")
	}
}

func TestBuildResponderGemini(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syllabus.csv")
	csv := "subject_name,overview,detail_url\nプログラミング基礎,Go言語入門,https://example.ac.jp/1\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &appconfig.Config{
		ReplyMode:       appconfig.ReplyModeGemini,
		GeminiAPIKey:    "test-key",
		SyllabusCSVPath: path,
		HistoryWindow:   40,
	}

	responder, cleanup, err := buildResponder(context.Background(), cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if _, ok := responder.(*conversation.LLMService); !ok {
		t.Fatalf("expected LLMService, got %T", responder)
	}
}

func TestBuildHistoryStore(t *testing.T) {
	logger := logging.New("error")

	store := buildHistoryStore(&appconfig.Config{}, logger)
	if _, ok := store.(*conversation.MemoryHistoryStore); !ok {
		t.Fatalf("expected memory store without REDIS_ADDR, got %T", store)
	}

	store = buildHistoryStore(&appconfig.Config{RedisAddr: "localhost:6379"}, logger)
	if _, ok := store.(*conversation.RedisHistoryStore); !ok {
		t.Fatalf("expected redis store with REDIS_ADDR, got %T", store)
	}
}
