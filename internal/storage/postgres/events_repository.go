package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/strideworks/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = `id, title, description, location, distance, starts_at,
       creator_email, registration_count, created_at`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.Distance,
		&event.StartsAt,
		&event.CreatorEmail,
		&event.RegistrationCount,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event events.Event) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO events (id, title, description, location, distance, starts_at, creator_email, registration_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
`,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.Distance,
		event.StartsAt,
		event.CreatorEmail,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, filters events.Filters) ([]events.Event, error) {
	order := "DESC"
	if filters.Sort == events.SortAsc {
		order = "ASC"
	}

	// LIMIT NULL means no limit; pagination is out of scope, the cap only
	// serves bounded teasers like the landing page.
	var limit any
	if filters.Limit > 0 {
		limit = filters.Limit
	}

	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
 ORDER BY created_at `+order+`
 LIMIT $2
`, filters.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id)
	return scanEvent(row)
}

func (r *EventRepository) ListByCreator(ctx context.Context, creatorEmail string, sort string) ([]events.Event, error) {
	order := "DESC"
	if sort == events.SortAsc {
		order = "ASC"
	}

	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE creator_email = $1
 ORDER BY created_at `+order+`
`, creatorEmail)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Update overwrites the patched fields and returns the stored row.
// creator_email and registration_count are never touched here. With
// upsert enabled a missing id is created as a bare record holding only
// the patched fields and a zero registration count.
func (r *EventRepository) Update(ctx context.Context, id string, patch events.EventPatch, upsert bool) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
UPDATE events
   SET title       = COALESCE($2, title),
       description = COALESCE($3, description),
       location    = COALESCE($4, location),
       distance    = COALESCE($5, distance),
       starts_at   = COALESCE($6, starts_at)
 WHERE id = $1
RETURNING `+eventColumns+`
`,
		id,
		patch.Title,
		patch.Description,
		patch.Location,
		patch.Distance,
		patch.StartsAt,
	)

	updated, err := scanEvent(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, events.ErrNotFound) || !upsert {
		return nil, err
	}

	row = r.queryer().QueryRow(ctx, `
INSERT INTO events (id, title, description, location, distance, starts_at, registration_count, created_at)
VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, now()), 0, now())
RETURNING `+eventColumns+`
`,
		id,
		patch.Title,
		patch.Description,
		patch.Location,
		patch.Distance,
		patch.StartsAt,
	)
	return scanEvent(row)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	items := make([]events.Event, 0)
	for rows.Next() {
		var event events.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.Distance,
			&event.StartsAt,
			&event.CreatorEmail,
			&event.RegistrationCount,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}
