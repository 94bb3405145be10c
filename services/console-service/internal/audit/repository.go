package audit

import (
	"context"
	"time"

	"github.com/md-rashed-zaman/apptdesk/libs/db"
)

// Delete outcomes recorded per attempt.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// Repository persists delete attempts so operators can answer "who removed
// that appointment" after the in-memory collection is long gone.
type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) RecordDelete(ctx context.Context, appointmentID string, outcome string, detail string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO delete_audit_events (appointment_id, outcome, detail)
		VALUES ($1, $2, NULLIF($3, ''))
	`, appointmentID, outcome, detail)
	return err
}

type Event struct {
	ID            int64  `json:"id"`
	AppointmentID string `json:"appointment_id"`
	Outcome       string `json:"outcome"`
	Detail        string `json:"detail,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, outcome, COALESCE(detail, ''), created_at
		FROM delete_audit_events
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.AppointmentID, &e.Outcome, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return events, nil
}
