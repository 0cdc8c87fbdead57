package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

// CreateEvent inserts a new event row.
func (s *Store) CreateEvent(ctx context.Context, event *shevcore.Event) error {
	query := `INSERT INTO events (id, event_type, context, timestamp) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		event.ID.String(), event.EventType, event.Context, event.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return shevcore.StoreErr("create event", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*shevcore.Event, error) {
	query := `SELECT id, event_type, context, timestamp FROM events WHERE id = ?`

	var e shevcore.Event
	var idStr, ts string
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&idStr, &e.EventType, &e.Context, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shevcore.NotFound("event")
		}
		return nil, shevcore.StoreErr("get event", err)
	}
	if e.ID, err = uuid.Parse(idStr); err != nil {
		return nil, shevcore.StoreErr("parse event id", err)
	}
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, shevcore.StoreErr("parse event timestamp", err)
	}
	return &e, nil
}
