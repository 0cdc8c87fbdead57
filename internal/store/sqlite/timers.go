package sqlite

import (
	"context"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

func (s *Store) CreateTimer(ctx context.Context, t *shevcore.Timer) error {
	query := `INSERT INTO timers (id, event_type, context, interval_secs) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, t.ID.String(), t.EventType, t.Context, t.IntervalSecs)
	if isUniqueViolation(err) {
		return shevcore.Conflict("a timer already exists for event type " + t.EventType)
	}
	if err != nil {
		return shevcore.StoreErr("create timer", err)
	}
	return nil
}

func (s *Store) ListTimers(ctx context.Context) ([]shevcore.Timer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, event_type, context, interval_secs FROM timers ORDER BY event_type`)
	if err != nil {
		return nil, shevcore.StoreErr("list timers", err)
	}
	defer rows.Close()

	var timers []shevcore.Timer
	for rows.Next() {
		var t shevcore.Timer
		var idStr string
		if err := rows.Scan(&idStr, &t.EventType, &t.Context, &t.IntervalSecs); err != nil {
			return nil, shevcore.StoreErr("scan timer", err)
		}
		if t.ID, err = uuid.Parse(idStr); err != nil {
			return nil, shevcore.StoreErr("parse timer id", err)
		}
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

func (s *Store) DeleteTimer(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, id.String())
	if err != nil {
		return shevcore.StoreErr("delete timer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("delete timer", err)
	}
	if n == 0 {
		return shevcore.NotFound("timer")
	}
	return nil
}
