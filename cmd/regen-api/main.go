package main

import (
	"context"
	"log"
	"net/http"

	"github.com/regenai/regen-agent/internal/adapters/auth"
	httpadapter "github.com/regenai/regen-agent/internal/adapters/http"
	"github.com/regenai/regen-agent/internal/adapters/llm"
	"github.com/regenai/regen-agent/internal/adapters/search"
	firestorestore "github.com/regenai/regen-agent/internal/adapters/storage/firestore"
	memstore "github.com/regenai/regen-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/regenai/regen-agent/internal/adapters/storage/sqlite"
	"github.com/regenai/regen-agent/internal/app/agent"
	"github.com/regenai/regen-agent/internal/app/forms"
	"github.com/regenai/regen-agent/internal/config"
	"github.com/regenai/regen-agent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// LLM: mock or hosted Gemini by config (useful for dev)
	var (
		llmClient domain.CompletionClient
		err       error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Println("[LLM] Using Gemini client", "model:", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName, cfg.LLMTimeout)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	}

	// Web search: disabled silently when no credential is present.
	searchClient := search.NewTavilyClient(cfg.TavilyAPIKey, cfg.SearchTimeout)
	if searchClient.Enabled() {
		log.Println("[SEARCH] Tavily search enabled")
	} else {
		log.Println("[SEARCH] No Tavily API key, search gate will degrade to empty results")
	}

	// Forms storage: SQLite or Memory
	var formStore domain.FormStore
	switch cfg.FormsBackend {
	case "memory":
		log.Println("[STORE] Using in-memory form storage")
		formStore = memstore.NewFormStore()
	default:
		log.Printf("[STORE] Using SQLite form storage (path=%s)", cfg.SQLitePath)
		sqlStore, err := sqlitestore.NewFormStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("error opening SQLite store: %v", err)
		}
		defer sqlStore.Close()
		if err := sqlStore.AutoMigrate(ctx); err != nil {
			log.Fatalf("error migrating SQLite store: %v", err)
		}
		formStore = sqlStore
	}

	// Conversation memory: volatile by default, Firestore when configured.
	var memory domain.ConversationMemory
	switch cfg.ThreadsBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore conversation memory (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewThreadStore(ctx, cfg.GCPProjectID, cfg.HistoryPairs)
		if err != nil {
			log.Fatalf("error initializing Firestore thread store: %v", err)
		}
		defer fsStore.Close()
		memory = fsStore
	default:
		log.Println("[STORE] Using in-memory conversation memory")
		memory = memstore.NewThreadStore(cfg.HistoryPairs)
	}

	agentSvc := agent.NewService(llmClient, searchClient, formStore, memory, nil, agent.Options{
		Temperature:      cfg.Temperature,
		SearchMaxResults: cfg.SearchMaxResults,
		PromptBudget:     cfg.PromptBudget,
	})
	formsSvc := forms.NewService(formStore)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	handler := httpadapter.NewServer(agentSvc, formsSvc, verifier)

	addr := ":" + cfg.Port
	log.Println("Regen API listening on port:", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
