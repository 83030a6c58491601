package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/regenai/regen-agent/internal/domain"
	"github.com/regenai/regen-agent/internal/observability"
)

// FallbackReply is returned (and recorded in the thread) whenever the
// completion provider fails. The turn still succeeds for the caller.
const FallbackReply = "I apologize, but I'm having trouble processing your request. Please try again."

// Options tune the per-turn pipeline. Zero values fall back to the
// documented defaults.
type Options struct {
	Temperature      float32
	SearchMaxResults int
	PromptBudget     int
}

func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = 0.6
	}
	if o.SearchMaxResults == 0 {
		o.SearchMaxResults = 3
	}
	if o.PromptBudget == 0 {
		o.PromptBudget = 3500
	}
	return o
}

// Service is the turn orchestrator: it sequences form lookup, enrichment,
// the search gate, memory read, prompt assembly, reply generation and the
// memory write for one inbound chat message.
type Service struct {
	llm      domain.CompletionClient
	search   domain.SearchClient
	forms    domain.FormStore
	memory   domain.ConversationMemory
	enricher *Enricher
	opts     Options
}

func NewService(
	llm domain.CompletionClient,
	search domain.SearchClient,
	forms domain.FormStore,
	memory domain.ConversationMemory,
	enricher *Enricher,
	opts Options,
) *Service {
	if enricher == nil {
		enricher = NewEnricher(nil, nil)
	}
	return &Service{
		llm:      llm,
		search:   search,
		forms:    forms,
		memory:   memory,
		enricher: enricher,
		opts:     opts.withDefaults(),
	}
}

type ChatInput struct {
	UserID   domain.UserID
	ThreadID domain.ThreadID // empty = start a fresh thread
	Message  string
}

type ChatOutput struct {
	Reply    string
	ThreadID domain.ThreadID
}

// Chat runs one turn. The only fatal failures are form-store and memory
// infrastructure errors; search and completion failures degrade in place.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	threadID := in.ThreadID
	if threadID == "" {
		threadID = s.memory.NewThreadID()
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.UserID,
		"thread_id", threadID,
	)
	log.Info("turn started")

	form, err := s.forms.LatestByUser(ctx, in.UserID)
	if err != nil {
		log.Error("form lookup failed", "error", err)
		return nil, fmt.Errorf("loading latest form: %w", err)
	}

	state := domain.TurnState{
		UserID:   in.UserID,
		ThreadID: threadID,
		Form:     form,
		Message:  in.Message,
	}

	state.Context = s.enricher.Enrich(ctx, state.Form)

	state.SearchResults = s.runSearchGate(ctx, state)

	history, err := s.memory.History(ctx, threadID)
	if err != nil {
		log.Error("history read failed", "error", err)
		return nil, fmt.Errorf("reading thread history: %w", err)
	}

	prompt := AssemblePrompt(PromptInput{
		Form:          state.Form,
		Context:       state.Context,
		History:       history,
		SearchResults: state.SearchResults,
		Message:       state.Message,
		Budget:        s.opts.PromptBudget,
	})

	state.Reply = s.generate(ctx, prompt)

	if err := s.memory.AppendTurn(ctx, threadID,
		domain.Exchange{Role: domain.RoleUser, Content: state.Message},
		domain.Exchange{Role: domain.RoleAssistant, Content: state.Reply},
	); err != nil {
		log.Error("append turn failed", "error", err)
		return nil, fmt.Errorf("recording exchange: %w", err)
	}

	log.Info("turn completed", "reply_len", len(state.Reply))

	return &ChatOutput{
		Reply:    state.Reply,
		ThreadID: threadID,
	}, nil
}

// runSearchGate fires at most one bounded search per turn. A provider that
// is unconfigured or errors yields no results, never a failed turn; the two
// cases log differently so they stay diagnosable.
func (s *Service) runSearchGate(ctx context.Context, state domain.TurnState) []domain.SearchResult {
	if !shouldSearch(state.Message) {
		return nil
	}

	log := observability.LoggerFromContext(ctx).With("thread_id", state.ThreadID)

	if s.search == nil || !s.search.Enabled() {
		log.Warn("search triggered but provider not configured")
		return nil
	}

	region := ""
	if state.Form != nil {
		region = state.Form.Location
	}
	query := buildSearchQuery(state.Message, region)

	results, err := s.search.Search(ctx, query, s.opts.SearchMaxResults)
	if err != nil {
		log.Warn("search provider failed, continuing without results", "error", err)
		return nil
	}
	log.Info("search gate fired", "query", query, "results", len(results))
	return results
}

// generate performs the single completion call of the turn and converts any
// provider failure into the fixed fallback reply.
func (s *Service) generate(ctx context.Context, prompt string) string {
	log := observability.LoggerFromContext(ctx)

	reply, err := s.llm.Complete(ctx, prompt, s.opts.Temperature)
	if err != nil {
		log.Error("completion failed, using fallback reply", "error", err)
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		log.Error("completion returned empty text, using fallback reply")
		return FallbackReply
	}
	return reply
}
