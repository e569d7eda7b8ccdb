package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/strideworks/server/internal/domain/events"
	"github.com/strideworks/server/internal/domain/ids"
	"github.com/strideworks/server/internal/sanitize"
)

// EventDirectory is the read-side lookup the ledger uses to denormalize
// event title and organizer onto new registrations.
type EventDirectory interface {
	GetByID(ctx context.Context, id string) (*events.Event, error)
}

// LedgerOptions carry the behavior switches that are configuration, not
// invariants.
type LedgerOptions struct {
	// UpdateUpsert makes Update create a missing record instead of
	// returning ErrNotFound.
	UpdateUpsert bool
}

// Ledger is the transactional registration write path.
type Ledger struct {
	repo     Repository
	events   EventDirectory
	validate *validator.Validate
	opts     LedgerOptions
}

func NewLedger(repo Repository, events EventDirectory, opts LedgerOptions) *Ledger {
	return &Ledger{
		repo:     repo,
		events:   events,
		validate: validator.New(),
		opts:     opts,
	}
}

// Register records a participant's registration for an event exactly once.
// The insert and the counter increment run in one transaction: a duplicate
// pair trips the store's uniqueness constraint and surfaces as
// ErrAlreadyRegistered with nothing written; on success the event's
// registration count has moved by exactly one.
//
// The event is not required to exist. Registering against an id that was
// deleted leaves an orphan record and the counter bump touches no row;
// both are accepted.
func (l *Ledger) Register(ctx context.Context, input RegistrationInput) (*Registration, error) {
	if err := l.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validate registration: %w", err)
	}

	registration := Registration{
		ID:               ids.NewRegistrationID(),
		ParticipantEmail: strings.ToLower(strings.TrimSpace(input.ParticipantEmail)),
		EventID:          strings.TrimSpace(input.EventID),
		FirstName:        sanitize.Text(input.FirstName),
		LastName:         sanitize.Text(input.LastName),
		Phone:            sanitize.Text(input.Phone),
		CreatedAt:        time.Now().UTC(),
	}

	event, err := l.events.GetByID(ctx, registration.EventID)
	if err != nil && !errors.Is(err, events.ErrNotFound) {
		return nil, err
	}
	if event != nil {
		registration.EventTitle = event.Title
		registration.OrganizerEmail = event.CreatorEmail
	}

	err = l.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Insert(ctx, registration); err != nil {
			return err
		}
		return repo.IncrementEventCount(ctx, registration.EventID)
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*Registration, error) {
	if err := ids.ValidateUUID(id); err != nil {
		return nil, ErrNotFound
	}
	return l.repo.GetByID(ctx, id)
}

// ListByParticipant returns a participant's registrations, optionally
// narrowed by a case-insensitive event-title substring.
func (l *Ledger) ListByParticipant(ctx context.Context, participantEmail string, titleQuery string) ([]Registration, error) {
	return l.repo.ListByParticipant(ctx, strings.ToLower(strings.TrimSpace(participantEmail)), strings.TrimSpace(titleQuery))
}

// ListByOrganizer returns every registration on events organized by the
// given identity.
func (l *Ledger) ListByOrganizer(ctx context.Context, organizerEmail string) ([]Registration, error) {
	return l.repo.ListByOrganizer(ctx, strings.ToLower(strings.TrimSpace(organizerEmail)))
}

// Update applies a field-level overwrite. Whether a missing id is created
// or rejected is explicit configuration (LedgerOptions.UpdateUpsert).
func (l *Ledger) Update(ctx context.Context, id string, patch RegistrationPatch) (*Registration, error) {
	if err := ids.ValidateUUID(id); err != nil {
		return nil, ErrNotFound
	}
	if err := l.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("validate registration patch: %w", err)
	}

	if patch.FirstName != nil {
		clean := sanitize.Text(*patch.FirstName)
		patch.FirstName = &clean
	}
	if patch.LastName != nil {
		clean := sanitize.Text(*patch.LastName)
		patch.LastName = &clean
	}
	if patch.Phone != nil {
		clean := sanitize.Text(*patch.Phone)
		patch.Phone = &clean
	}

	return l.repo.Update(ctx, id, patch, l.opts.UpdateUpsert)
}

// Delete removes a registration unconditionally. Ownership of the record
// is an access-control decision made by the caller before invoking this.
// The event counter is left alone: the count is monotonically
// non-decreasing and records past interest, not current headcount.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	if err := ids.ValidateUUID(id); err != nil {
		return ErrNotFound
	}
	return l.repo.Delete(ctx, id)
}
