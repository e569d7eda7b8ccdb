package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/strideworks/server/internal/domain/registrations"
)

var _ registrations.Repository = (*RegistrationRepository)(nil)

const registrationColumns = `id, participant_email, event_id, event_title,
       organizer_email, first_name, last_name, phone, created_at`

func scanRegistration(row pgx.Row) (*registrations.Registration, error) {
	var reg registrations.Registration
	err := row.Scan(
		&reg.ID,
		&reg.ParticipantEmail,
		&reg.EventID,
		&reg.EventTitle,
		&reg.OrganizerEmail,
		&reg.FirstName,
		&reg.LastName,
		&reg.Phone,
		&reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, registrations.ErrNotFound
		}
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return &reg, nil
}

// Insert stores a registration. The (participant_email, event_id) unique
// constraint is the conflict signal: a violation means the pair is already
// registered and nothing was written.
func (r *RegistrationRepository) Insert(ctx context.Context, reg registrations.Registration) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO registrations (id, participant_email, event_id, event_title, organizer_email, first_name, last_name, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`,
		reg.ID,
		reg.ParticipantEmail,
		reg.EventID,
		reg.EventTitle,
		reg.OrganizerEmail,
		reg.FirstName,
		reg.LastName,
		reg.Phone,
		reg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return registrations.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// IncrementEventCount bumps the event's registration counter in a single
// statement so concurrent registrations never lose an increment. A missing
// event id touches no row, which is accepted: registrations carry no
// foreign key and may outlive their event.
func (r *RegistrationRepository) IncrementEventCount(ctx context.Context, eventID string) error {
	_, err := r.queryer().Exec(ctx, `
UPDATE events
   SET registration_count = registration_count + 1
 WHERE id = $1
`, eventID)
	if err != nil {
		return fmt.Errorf("increment registration count: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*registrations.Registration, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE id = $1
`, id)
	return scanRegistration(row)
}

func (r *RegistrationRepository) ListByParticipant(ctx context.Context, participantEmail string, titleQuery string) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE participant_email = $1
   AND ($2 = '' OR event_title ILIKE '%' || $2 || '%')
 ORDER BY created_at DESC
`, participantEmail, titleQuery)
	if err != nil {
		return nil, fmt.Errorf("list registrations by participant: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (r *RegistrationRepository) ListByOrganizer(ctx context.Context, organizerEmail string) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE organizer_email = $1
 ORDER BY created_at DESC
`, organizerEmail)
	if err != nil {
		return nil, fmt.Errorf("list registrations by organizer: %w", err)
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

// Update overwrites the patched fields. With upsert enabled a missing id
// is created as a bare record holding only the patched fields.
func (r *RegistrationRepository) Update(ctx context.Context, id string, patch registrations.RegistrationPatch, upsert bool) (*registrations.Registration, error) {
	row := r.queryer().QueryRow(ctx, `
UPDATE registrations
   SET first_name = COALESCE($2, first_name),
       last_name  = COALESCE($3, last_name),
       phone      = COALESCE($4, phone)
 WHERE id = $1
RETURNING `+registrationColumns+`
`,
		id,
		patch.FirstName,
		patch.LastName,
		patch.Phone,
	)

	updated, err := scanRegistration(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, registrations.ErrNotFound) || !upsert {
		return nil, err
	}

	row = r.queryer().QueryRow(ctx, `
INSERT INTO registrations (id, first_name, last_name, phone, created_at)
VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), now())
RETURNING `+registrationColumns+`
`,
		id,
		patch.FirstName,
		patch.LastName,
		patch.Phone,
	)
	return scanRegistration(row)
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return registrations.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotFound
	}
	return nil
}

func collectRegistrations(rows pgx.Rows) ([]registrations.Registration, error) {
	items := make([]registrations.Registration, 0)
	for rows.Next() {
		var reg registrations.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.ParticipantEmail,
			&reg.EventID,
			&reg.EventTitle,
			&reg.OrganizerEmail,
			&reg.FirstName,
			&reg.LastName,
			&reg.Phone,
			&reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan registrations: %w", err)
		}
		items = append(items, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return items, nil
}
