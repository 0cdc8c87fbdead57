package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

func (s *Store) CreateSchedule(ctx context.Context, sc *shevcore.Schedule) error {
	query := `INSERT INTO schedules (id, event_type, context, scheduled_time, periodic) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		sc.ID.String(), sc.EventType, sc.Context, sc.ScheduledTime.UTC().Format(time.RFC3339Nano), sc.Periodic)
	if isUniqueViolation(err) {
		return shevcore.Conflict("a schedule already exists for event type " + sc.EventType)
	}
	if err != nil {
		return shevcore.StoreErr("create schedule", err)
	}
	return nil
}

func (s *Store) ListSchedules(ctx context.Context) ([]shevcore.Schedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_type, context, scheduled_time, periodic FROM schedules ORDER BY scheduled_time`)
	if err != nil {
		return nil, shevcore.StoreErr("list schedules", err)
	}
	defer rows.Close()

	var schedules []shevcore.Schedule
	for rows.Next() {
		var sc shevcore.Schedule
		var idStr, ts string
		if err := rows.Scan(&idStr, &sc.EventType, &sc.Context, &ts, &sc.Periodic); err != nil {
			return nil, shevcore.StoreErr("scan schedule", err)
		}
		if sc.ID, err = uuid.Parse(idStr); err != nil {
			return nil, shevcore.StoreErr("parse schedule id", err)
		}
		if sc.ScheduledTime, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, shevcore.StoreErr("parse scheduled_time", err)
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

func (s *Store) UpdateScheduleTime(ctx context.Context, id uuid.UUID, next time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE schedules SET scheduled_time = ? WHERE id = ?`,
		next.UTC().Format(time.RFC3339Nano), id.String())
	if err != nil {
		return shevcore.StoreErr("update schedule time", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("update schedule time", err)
	}
	if n == 0 {
		return shevcore.NotFound("schedule")
	}
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id.String())
	if err != nil {
		return shevcore.StoreErr("delete schedule", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("delete schedule", err)
	}
	if n == 0 {
		return shevcore.NotFound("schedule")
	}
	return nil
}
