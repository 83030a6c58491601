package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/regenai/regen-agent/internal/domain"
)

// FormStore is a simple in-memory implementation of domain.FormStore.
// It is NOT persistent and is only suitable for development / tests.
type FormStore struct {
	mu     sync.RWMutex
	nextID domain.FormID
	forms  map[domain.FormID]*domain.Form
	now    func() time.Time
}

func NewFormStore() *FormStore {
	return &FormStore{
		nextID: 1,
		forms:  make(map[domain.FormID]*domain.Form),
		now:    time.Now,
	}
}

func (s *FormStore) Create(_ context.Context, form *domain.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	form.ID = s.nextID
	s.nextID++
	now := s.now()
	form.CreatedAt = now
	form.UpdatedAt = now

	cp := *form
	s.forms[form.ID] = &cp
	return nil
}

func (s *FormStore) Update(_ context.Context, form *domain.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.forms[form.ID]
	if !ok || existing.UserID != form.UserID {
		return domain.ErrFormNotFound
	}
	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = s.now()

	cp := *form
	s.forms[form.ID] = &cp
	return nil
}

func (s *FormStore) Delete(_ context.Context, userID domain.UserID, id domain.FormID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.forms[id]
	if !ok || existing.UserID != userID {
		return domain.ErrFormNotFound
	}
	delete(s.forms, id)
	return nil
}

func (s *FormStore) GetByID(_ context.Context, userID domain.UserID, id domain.FormID) (*domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.forms[id]
	if !ok || f.UserID != userID {
		return nil, domain.ErrFormNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *FormStore) ListByUser(_ context.Context, userID domain.UserID) ([]*domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Form
	for _, f := range s.forms {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	// newest first, matching the sqlite store's ORDER BY id DESC
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *FormStore) LatestByUser(ctx context.Context, userID domain.UserID) (*domain.Form, error) {
	forms, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, nil
	}
	return forms[0], nil
}
