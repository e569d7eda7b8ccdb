// Package events holds the marathon event model and the operations
// organizers use to publish and manage events. The registration counter on
// an event is owned by the registrations ledger and is never written here.
package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Distance          string    `json:"distance"`
	StartsAt          time.Time `json:"startsAt"`
	CreatorEmail      string    `json:"creatorEmail"`
	RegistrationCount int       `json:"registrationCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// EventInput is the organizer-supplied payload for creating an event.
type EventInput struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"max=20000"`
	Location     string    `json:"location" validate:"max=200"`
	Distance     string    `json:"distance" validate:"max=50"`
	StartsAt     time.Time `json:"startsAt"`
	CreatorEmail string    `json:"creatorEmail" validate:"required,email"`
}

// EventPatch is a field-level overwrite; nil fields are left untouched.
// The creator email is immutable and deliberately absent.
type EventPatch struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=20000"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	Distance    *string    `json:"distance" validate:"omitempty,max=50"`
	StartsAt    *time.Time `json:"startsAt"`
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filters narrows and orders event listings. Query is a case-insensitive
// title substring; Sort orders by creation time.
type Filters struct {
	Query string
	Sort  string
	Limit int
}

type Repository interface {
	Create(ctx context.Context, event Event) error
	List(ctx context.Context, filters Filters) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByCreator(ctx context.Context, creatorEmail string, sort string) ([]Event, error)
	Update(ctx context.Context, id string, patch EventPatch, upsert bool) (*Event, error)
	Delete(ctx context.Context, id string) error
}
