// Package registrations is the write path for participant registrations.
// It enforces at most one registration per (participant, event) pair and
// keeps each event's denormalized registration counter in step with the
// registration set.
package registrations

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyRegistered signals a duplicate (participant, event) pair.
	// It is a client error: no write happens and no counter moves.
	ErrAlreadyRegistered = errors.New("participant already registered for event")

	ErrNotFound = errors.New("registration not found")
)

type Registration struct {
	ID               string    `json:"id"`
	ParticipantEmail string    `json:"participantEmail"`
	EventID          string    `json:"eventId"`
	EventTitle       string    `json:"eventTitle"`
	OrganizerEmail   string    `json:"organizerEmail"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Phone            string    `json:"phone"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RegistrationInput is the participant-supplied payload. Event title and
// organizer are denormalized from the event record by the ledger, never
// trusted from the client.
type RegistrationInput struct {
	ParticipantEmail string `json:"participantEmail" validate:"required,email"`
	EventID          string `json:"eventId" validate:"required"`
	FirstName        string `json:"firstName" validate:"max=100"`
	LastName         string `json:"lastName" validate:"max=100"`
	Phone            string `json:"phone" validate:"max=30"`
}

// RegistrationPatch is a field-level overwrite; nil fields are untouched.
// Identity and event linkage are immutable through this path.
type RegistrationPatch struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

// Repository is the store surface the ledger runs on. Insert must map the
// store's (participant_email, event_id) uniqueness violation to
// ErrAlreadyRegistered, and IncrementEventCount must be a single atomic
// store operation, not read-modify-write.
type Repository interface {
	// WithTx runs fn against a transactional view of the repository.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	Insert(ctx context.Context, registration Registration) error
	IncrementEventCount(ctx context.Context, eventID string) error

	GetByID(ctx context.Context, id string) (*Registration, error)
	ListByParticipant(ctx context.Context, participantEmail string, titleQuery string) ([]Registration, error)
	ListByOrganizer(ctx context.Context, organizerEmail string) ([]Registration, error)
	Update(ctx context.Context, id string, patch RegistrationPatch, upsert bool) (*Registration, error)
	Delete(ctx context.Context, id string) error
}
