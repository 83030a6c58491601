package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/regenai/regen-agent/internal/domain"
)

// ThreadStore is the volatile conversation memory: a bounded, append-only
// exchange log per thread, gone on process restart.
//
// The outer map lock only guards thread lookup/creation; appends to one
// thread serialize on that thread's own mutex, so two different threads
// never contend.
type ThreadStore struct {
	mu       sync.RWMutex
	threads  map[domain.ThreadID]*thread
	maxPairs int
}

type thread struct {
	mu        sync.Mutex
	exchanges []domain.Exchange
}

// NewThreadStore creates a store keeping the last maxPairs (user, assistant)
// pairs per thread. maxPairs <= 0 falls back to 3.
func NewThreadStore(maxPairs int) *ThreadStore {
	if maxPairs <= 0 {
		maxPairs = 3
	}
	return &ThreadStore{
		threads:  make(map[domain.ThreadID]*thread),
		maxPairs: maxPairs,
	}
}

func (s *ThreadStore) NewThreadID() domain.ThreadID {
	return domain.ThreadID(uuid.NewString())
}

// History returns a copy of the thread's exchanges, oldest first.
// An unknown thread is an empty history, not an error.
func (s *ThreadStore) History(_ context.Context, id domain.ThreadID) ([]domain.Exchange, error) {
	s.mu.RLock()
	t, ok := s.threads[id]
	s.mu.RUnlock()
	if !ok {
		return []domain.Exchange{}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.Exchange, len(t.exchanges))
	copy(out, t.exchanges)
	return out, nil
}

// AppendTurn commits one (user, assistant) pair atomically and evicts the
// oldest exchanges until the 2*maxPairs bound holds.
func (s *ThreadStore) AppendTurn(_ context.Context, id domain.ThreadID, user, assistant domain.Exchange) error {
	t := s.getOrCreate(id)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.exchanges = append(t.exchanges, user, assistant)

	limit := 2 * s.maxPairs
	if n := len(t.exchanges); n > limit {
		t.exchanges = append(t.exchanges[:0:0], t.exchanges[n-limit:]...)
	}
	return nil
}

func (s *ThreadStore) getOrCreate(id domain.ThreadID) *thread {
	s.mu.RLock()
	t, ok := s.threads[id]
	s.mu.RUnlock()
	if ok {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok = s.threads[id]; ok {
		return t
	}
	t = &thread{}
	s.threads[id] = t
	return t
}
