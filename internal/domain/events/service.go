package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/strideworks/server/internal/domain/ids"
	"github.com/strideworks/server/internal/sanitize"
)

// ServiceOptions holds behavior switches that are configuration, not
// invariants.
type ServiceOptions struct {
	// UpdateUpsert makes Update create the record when the id does not
	// exist instead of returning ErrNotFound.
	UpdateUpsert bool
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	opts     ServiceOptions
}

func NewService(repo Repository, opts ServiceOptions) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		opts:     opts,
	}
}

// Create mints an id, sanitizes organizer-supplied text and stores the
// event with a zero registration count.
func (s *Service) Create(ctx context.Context, input EventInput) (*Event, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	id, err := ids.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	event := Event{
		ID:           id,
		Title:        sanitize.Text(input.Title),
		Description:  sanitize.Description(input.Description),
		Location:     sanitize.Text(input.Location),
		Distance:     sanitize.Text(input.Distance),
		StartsAt:     input.StartsAt,
		CreatorEmail: strings.ToLower(strings.TrimSpace(input.CreatorEmail)),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Event, error) {
	filters.Sort = normalizeSort(filters.Sort)
	if filters.Limit < 0 {
		filters.Limit = 0
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCreator(ctx context.Context, creatorEmail string, sort string) ([]Event, error) {
	return s.repo.ListByCreator(ctx, strings.ToLower(strings.TrimSpace(creatorEmail)), normalizeSort(sort))
}

func (s *Service) Update(ctx context.Context, id string, patch EventPatch) (*Event, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("validate event patch: %w", err)
	}

	if patch.Title != nil {
		clean := sanitize.Text(*patch.Title)
		patch.Title = &clean
	}
	if patch.Description != nil {
		clean := sanitize.Description(*patch.Description)
		patch.Description = &clean
	}
	if patch.Location != nil {
		clean := sanitize.Text(*patch.Location)
		patch.Location = &clean
	}
	if patch.Distance != nil {
		clean := sanitize.Text(*patch.Distance)
		patch.Distance = &clean
	}

	return s.repo.Update(ctx, id, patch, s.opts.UpdateUpsert)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ids.ValidateULID(id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func normalizeSort(sort string) string {
	if strings.EqualFold(sort, SortAsc) {
		return SortAsc
	}
	return SortDesc
}
