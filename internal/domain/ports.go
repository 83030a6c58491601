package domain

import (
	"context"
	"errors"
)

// ErrFormNotFound is returned by form stores for id lookups that miss.
// A user having no latest form is NOT an error; see FormStore.LatestByUser.
var ErrFormNotFound = errors.New("form not found")

// CompletionClient defines how the agent talks to a hosted LLM.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}

// SearchClient defines the web-search provider boundary.
// Implementations report Enabled() == false when no credential is configured;
// callers must then skip the search rather than fail the turn.
type SearchClient interface {
	Enabled() bool
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// FormStore defines land-profile persistence.
type FormStore interface {
	Create(ctx context.Context, form *Form) error
	Update(ctx context.Context, form *Form) error
	Delete(ctx context.Context, userID UserID, id FormID) error
	GetByID(ctx context.Context, userID UserID, id FormID) (*Form, error)
	ListByUser(ctx context.Context, userID UserID) ([]*Form, error)

	// LatestByUser returns the user's most recent form, or (nil, nil)
	// when the user has not filled one in yet.
	LatestByUser(ctx context.Context, userID UserID) (*Form, error)
}

// ConversationMemory holds the bounded per-thread exchange log.
// History returns an empty slice for unknown threads. AppendTurn commits the
// user message and assistant reply as one atomic unit and enforces the
// thread's exchange bound by evicting oldest first.
type ConversationMemory interface {
	NewThreadID() ThreadID
	History(ctx context.Context, id ThreadID) ([]Exchange, error)
	AppendTurn(ctx context.Context, id ThreadID, user, assistant Exchange) error
}

// TokenVerifier resolves a bearer token to a user identity.
type TokenVerifier interface {
	Verify(token string) (UserID, error)
}
