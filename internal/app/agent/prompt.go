package agent

import (
	"strings"

	"github.com/regenai/regen-agent/internal/domain"
)

const systemPrompt = `You are an agronomy assistant. Use the user's land details, recent weather, and market trends to recommend crops, target markets, and best options. Be concise, friendly, and actionable.`

// PromptInput carries everything assembly needs. Assembly is a pure
// function of this struct: same input, same prompt text.
type PromptInput struct {
	Form          *domain.Form
	Context       domain.EnrichmentContext
	History       []domain.Exchange
	SearchResults []domain.SearchResult
	Message       string

	// Budget is the approximate character cap for the rendered prompt.
	// When the full rendering exceeds it, oldest history is dropped first,
	// then search results. System prompt, form and the current message are
	// never trimmed. Zero means no cap.
	Budget int
}

// AssemblePrompt renders one completion prompt in a fixed order: system
// instruction, form, enrichment context, search results, trimmed history,
// current message, trailing "Assistant:" cue.
func AssemblePrompt(in PromptInput) string {
	history := in.History
	results := in.SearchResults

	rendered := render(in, history, results)
	if in.Budget <= 0 || len(rendered) <= in.Budget {
		return rendered
	}

	// Trim oldest history first, one message at a time.
	for len(history) > 0 && len(rendered) > in.Budget {
		history = history[1:]
		rendered = render(in, history, results)
	}
	// Then drop search results from the tail.
	for len(results) > 0 && len(rendered) > in.Budget {
		results = results[:len(results)-1]
		rendered = render(in, history, results)
	}
	return rendered
}

func render(in PromptInput, history []domain.Exchange, results []domain.SearchResult) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	b.WriteString("User land form:")
	fields := in.Form.Fields()
	if len(fields) == 0 {
		b.WriteString(" (no land profile on file)")
	}
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Context:\n")
	b.WriteString("weather: ")
	b.WriteString(in.Context.Weather)
	b.WriteString("\n")
	b.WriteString("market: ")
	b.WriteString(in.Context.Market)
	b.WriteString("\n\n")

	if len(results) > 0 {
		b.WriteString("Recent web results:\n")
		for _, r := range results {
			b.WriteString("- ")
			b.WriteString(r.Title)
			b.WriteString(": ")
			b.WriteString(r.Content)
			if r.URL != "" {
				b.WriteString(" (")
				b.WriteString(r.URL)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, ex := range history {
		switch ex.Role {
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(ex.Content)
		b.WriteString("\n")
	}

	b.WriteString("User: ")
	b.WriteString(in.Message)
	b.WriteString("\nAssistant:")

	return b.String()
}
