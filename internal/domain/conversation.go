package domain

// Exchange is a single message inside a conversation thread,
// either the user's message or the assistant's reply.
type Exchange struct {
	Role    Role
	Content string
}

// EnrichmentContext is the supplementary context attached to a turn's prompt.
// Both summaries are plain text, ready for prompt rendering.
type EnrichmentContext struct {
	Weather string
	Market  string
}

// SearchResult is one web-search hit, content already truncated
// to the configured limit.
type SearchResult struct {
	Title   string
	Content string
	URL     string
}

// TurnState is the working record of a single turn. It is built once at
// orchestrator entry and threaded through the pipeline steps; nothing in it
// survives the turn except via the conversation memory side effect.
type TurnState struct {
	UserID   UserID
	ThreadID ThreadID
	Form     *Form
	Message  string

	Context       EnrichmentContext
	SearchResults []SearchResult
	Reply         string
}
