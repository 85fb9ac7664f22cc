package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/DaichiHaraguchi/sample-chat-bot/internal/catalog"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/conversation"
	"github.com/DaichiHaraguchi/sample-chat-bot/pkg/logging"
)

// llmtest exercises the generative responder against the real Gemini API from
// a terminal. Useful for checking credentials and the syllabus prompt without
// running the webhook server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	csvPath := flag.String("csv", "data/all_syllabus_with_overview.csv", "path to the syllabus CSV")
	model := flag.String("model", conversation.DefaultGeminiModel, "Gemini model ID")
	message := flag.String("message", "プログラミングを学べる授業を教えてください", "user message to send")
	flag.Parse()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat, err := catalog.Load(*csvPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	fmt.Printf("Loaded %d syllabus records from %s\n", cat.Len(), *csvPath)

	client, err := conversation.NewGeminiClient(ctx, apiKey, *model)
	if err != nil {
		log.Fatalf("create gemini client: %v", err)
	}
	defer client.Close()

	svc := conversation.NewLLMService(client, conversation.NewMemoryHistoryStore(), cat, *model, 40, logging.Default())

	fmt.Printf("User: %s\n", *message)
	start := time.Now()
	reply, err := svc.Reply(ctx, "llmtest", *message)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("completion failed after %v: %v", elapsed.Round(time.Millisecond), err)
	}

	fmt.Printf("Bot (%v):\n%s\n", elapsed.Round(time.Millisecond), reply)
}
