package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

// CreateJob inserts a new job row, denormalizing the triggering event's
// fields onto the row so a job stays readable even if its event is
// pruned independently.
func (s *Store) CreateJob(ctx context.Context, job *shevcore.Job) error {
	query := `
		INSERT INTO jobs (id, event_id, event_type, event_context, event_timestamp, handler_id, status, output, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		job.ID.String(),
		job.Event.ID.String(),
		job.Event.EventType,
		job.Event.Context,
		job.Event.Timestamp.UTC().Format(time.RFC3339Nano),
		job.HandlerID.String(),
		string(job.Status),
		job.Output,
		job.Error,
		formatTimePtr(job.StartedAt),
		formatTimePtr(job.FinishedAt),
	)
	if err != nil {
		return shevcore.StoreErr("create job", err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*shevcore.Job, error) {
	row := s.db.QueryRowContext(ctx, jobSelect+" WHERE id = ?", id.String())
	return scanJob(row)
}

const jobSelect = `SELECT id, event_id, event_type, event_context, event_timestamp, handler_id, status, output, error, started_at, finished_at FROM jobs`

func scanJob(row *sql.Row) (*shevcore.Job, error) {
	var j shevcore.Job
	var idStr, eventIDStr, handlerIDStr, eventTS string
	var startedAt, finishedAt sql.NullString
	err := row.Scan(&idStr, &eventIDStr, &j.Event.EventType, &j.Event.Context, &eventTS,
		&handlerIDStr, &j.Status, &j.Output, &j.Error, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shevcore.NotFound("job")
		}
		return nil, shevcore.StoreErr("get job", err)
	}
	return fillJob(&j, idStr, eventIDStr, handlerIDStr, eventTS, startedAt, finishedAt)
}

func fillJob(j *shevcore.Job, idStr, eventIDStr, handlerIDStr, eventTS string, startedAt, finishedAt sql.NullString) (*shevcore.Job, error) {
	var err error
	if j.ID, err = uuid.Parse(idStr); err != nil {
		return nil, shevcore.StoreErr("parse job id", err)
	}
	if j.Event.ID, err = uuid.Parse(eventIDStr); err != nil {
		return nil, shevcore.StoreErr("parse job event id", err)
	}
	if j.HandlerID, err = uuid.Parse(handlerIDStr); err != nil {
		return nil, shevcore.StoreErr("parse job handler id", err)
	}
	if j.Event.Timestamp, err = time.Parse(time.RFC3339Nano, eventTS); err != nil {
		return nil, shevcore.StoreErr("parse job event timestamp", err)
	}
	if startedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, startedAt.String)
		if err != nil {
			return nil, shevcore.StoreErr("parse job started_at", err)
		}
		j.StartedAt = &t
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, shevcore.StoreErr("parse job finished_at", err)
		}
		j.FinishedAt = &t
	}
	return j, nil
}

func (s *Store) ListJobs(ctx context.Context, filter shevcore.JobFilter) ([]shevcore.Job, error) {
	query := jobSelect
	var args []interface{}
	if filter.Status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*filter.Status))
	}
	query += " ORDER BY event_timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shevcore.StoreErr("list jobs", err)
	}
	defer rows.Close()

	var jobs []shevcore.Job
	for rows.Next() {
		var j shevcore.Job
		var idStr, eventIDStr, handlerIDStr, eventTS string
		var startedAt, finishedAt sql.NullString
		if err := rows.Scan(&idStr, &eventIDStr, &j.Event.EventType, &j.Event.Context, &eventTS,
			&handlerIDStr, &j.Status, &j.Output, &j.Error, &startedAt, &finishedAt); err != nil {
			return nil, shevcore.StoreErr("scan job", err)
		}
		filled, err := fillJob(&j, idStr, eventIDStr, handlerIDStr, eventTS, startedAt, finishedAt)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *filled)
	}
	return jobs, rows.Err()
}

func (s *Store) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, started_at = ? WHERE id = ? AND status = ?`,
		string(shevcore.JobRunning), startedAt.UTC().Format(time.RFC3339Nano), id.String(), string(shevcore.JobPending))
	if err != nil {
		return shevcore.StoreErr("mark job running", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("mark job running", err)
	}
	if n == 0 {
		return shevcore.Conflict("job is not pending")
	}
	return nil
}

func (s *Store) FinishJob(ctx context.Context, id uuid.UUID, status shevcore.JobStatus, output, errMsg *string, finishedAt time.Time) error {
	if !status.Terminal() {
		return shevcore.Validation("finish status must be terminal")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, output = ?, error = ?, finished_at = ? WHERE id = ? AND status = ?`,
		string(status), output, errMsg, finishedAt.UTC().Format(time.RFC3339Nano), id.String(), string(shevcore.JobRunning))
	if err != nil {
		return shevcore.StoreErr("finish job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("finish job", err)
	}
	if n == 0 {
		return shevcore.Conflict("job is not running")
	}
	return nil
}

// CancelPending transitions a Pending job directly to Cancelled. Used for
// jobs cancelled before a worker ever marked them Running, so the
// Running-only WHERE clause in FinishJob would otherwise reject the write
// and leave the row Pending forever.
func (s *Store) CancelPending(ctx context.Context, id uuid.UUID, errMsg string, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, finished_at = ? WHERE id = ? AND status = ?`,
		string(shevcore.JobCancelled), errMsg, finishedAt.UTC().Format(time.RFC3339Nano), id.String(), string(shevcore.JobPending))
	if err != nil {
		return shevcore.StoreErr("cancel pending job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("cancel pending job", err)
	}
	if n == 0 {
		return shevcore.Conflict("job is not pending")
	}
	return nil
}

// RecoverOrphans rewrites every Pending or Running job to Failed, used on
// startup before the worker pool begins consuming new events.
func (s *Store) RecoverOrphans(ctx context.Context, now time.Time) (int, error) {
	errMsg := "interrupted by restart"
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, finished_at = ? WHERE status IN (?, ?)`,
		string(shevcore.JobFailed), errMsg, now.UTC().Format(time.RFC3339Nano),
		string(shevcore.JobPending), string(shevcore.JobRunning))
	if err != nil {
		return 0, shevcore.StoreErr("recover orphaned jobs", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, shevcore.StoreErr("recover orphaned jobs", err)
	}
	return int(n), nil
}

// CountJobsByStatus groups job rows by status for the summary shown at
// GET /status.
func (s *Store) CountJobsByStatus(ctx context.Context) (map[shevcore.JobStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, shevcore.StoreErr("count jobs by status", err)
	}
	defer rows.Close()

	counts := make(map[shevcore.JobStatus]int)
	for rows.Next() {
		var status shevcore.JobStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, shevcore.StoreErr("scan job status count", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
