package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	// LLM provider (Gemini hosted API)
	GeminiAPIKey string
	ModelName    string
	Temperature  float32
	LLMTimeout   time.Duration
	UseMockLLM   bool // true = use mock even with a key present

	// Web search provider
	TavilyAPIKey     string
	SearchMaxResults int
	SearchTimeout    time.Duration

	// JWT auth
	JWTSecret string

	// Storage
	FormsBackend   string // "sqlite" or "memory"
	SQLitePath     string
	ThreadsBackend string // "memory" or "firestore"
	GCPProjectID   string
	DBTimeout      time.Duration

	// Conversation memory bound, in (user, assistant) pairs per thread.
	HistoryPairs int

	// Prompt assembly character budget.
	PromptBudget int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("REGEN_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("REGEN_PORT", "8080"),

		GeminiAPIKey: getEnv("REGEN_GEMINI_API_KEY", ""),
		ModelName:    getEnv("REGEN_MODEL_NAME", "gemini-2.0-flash"),
		Temperature:  0.6,
		LLMTimeout:   getDurationEnv("REGEN_LLM_TIMEOUT", 30*time.Second),
		UseMockLLM:   getBoolEnv("REGEN_USE_MOCK_LLM", mode == ModeLocal),

		TavilyAPIKey:     getEnv("REGEN_TAVILY_API_KEY", ""),
		SearchMaxResults: getIntEnv("REGEN_SEARCH_MAX_RESULTS", 3),
		SearchTimeout:    getDurationEnv("REGEN_SEARCH_TIMEOUT", 10*time.Second),

		JWTSecret: getEnv("REGEN_JWT_SECRET", ""),

		FormsBackend:   getEnv("REGEN_FORMS_BACKEND", "sqlite"),
		SQLitePath:     getEnv("REGEN_SQLITE_PATH", "regen.db"),
		ThreadsBackend: getEnv("REGEN_THREADS_BACKEND", "memory"),
		GCPProjectID:   getEnv("REGEN_GCP_PROJECT", ""),
		DBTimeout:      getDurationEnv("REGEN_DB_TIMEOUT", 5*time.Second),

		HistoryPairs: getIntEnv("REGEN_HISTORY_PAIRS", 3),

		PromptBudget: getIntEnv("REGEN_PROMPT_BUDGET", 3500),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("REGEN_JWT_SECRET must be set")
	}
	if !cfg.UseMockLLM && cfg.GeminiAPIKey == "" {
		log.Fatal("REGEN_GEMINI_API_KEY must be set unless REGEN_USE_MOCK_LLM=1")
	}
	if cfg.ThreadsBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("REGEN_GCP_PROJECT must be set for the firestore threads backend")
	}

	return cfg
}
