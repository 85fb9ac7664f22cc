package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Reply modes supported by the bot.
const (
	ReplyModeStatic = "static"
	ReplyModeGemini = "gemini"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// LINE Messaging API credentials
	LineChannelAccessToken string
	LineChannelSecret      string

	// Reply strategy selection
	ReplyMode string

	// Gemini (generative mode only)
	GeminiAPIKey string
	GeminiModel  string

	// Syllabus dataset (generative mode only)
	SyllabusCSVPath string

	// Conversation history
	RedisAddr     string
	RedisPassword string
	HistoryWindow int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		ReplyMode:              strings.ToLower(strings.TrimSpace(getEnv("REPLY_MODE", ReplyModeGemini))),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		GeminiModel:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SyllabusCSVPath:        getEnv("SYLLABUS_CSV_PATH", "data/all_syllabus_with_overview.csv"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		HistoryWindow:          getEnvAsInt("HISTORY_WINDOW", 40),
	}
}

// Validate checks that every credential the selected reply mode needs is
// present. Called at startup, before the server begins accepting requests.
func (c *Config) Validate() error {
	var missing []string
	if c.LineChannelAccessToken == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if c.LineChannelSecret == "" {
		missing = append(missing, "LINE_CHANNEL_SECRET")
	}

	switch c.ReplyMode {
	case ReplyModeStatic:
	case ReplyModeGemini:
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("config: unknown REPLY_MODE %q (expected %q or %q)", c.ReplyMode, ReplyModeStatic, ReplyModeGemini)
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
