package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/regenai/regen-agent/internal/domain"
	"github.com/regenai/regen-agent/internal/observability"
)

// Service holds the logic for managing a user's land-profile forms.
type Service struct {
	store domain.FormStore
}

func NewService(store domain.FormStore) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, form *domain.Form) error {
	if strings.TrimSpace(form.Location) == "" {
		return fmt.Errorf("location is required")
	}

	if err := s.store.Create(ctx, form); err != nil {
		observability.LoggerFromContext(ctx).Error("create form failed",
			"user_id", form.UserID, "error", err)
		return err
	}
	return nil
}

func (s *Service) Update(ctx context.Context, form *domain.Form) error {
	return s.store.Update(ctx, form)
}

func (s *Service) Delete(ctx context.Context, userID domain.UserID, id domain.FormID) error {
	return s.store.Delete(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID domain.UserID, id domain.FormID) (*domain.Form, error) {
	return s.store.GetByID(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID domain.UserID) ([]*domain.Form, error) {
	return s.store.ListByUser(ctx, userID)
}
