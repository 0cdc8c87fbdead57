package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"shev/internal/shevcore"
)

func (s *Store) CreateHandler(ctx context.Context, h *shevcore.Handler) error {
	envJSON, err := json.Marshal(h.Env)
	if err != nil {
		return shevcore.StoreErr("marshal handler env", err)
	}

	query := `INSERT INTO handlers (id, event_type, shell, command, timeout_secs, env) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, h.ID.String(), h.EventType, string(h.Shell), h.Command, h.TimeoutSecs, string(envJSON))
	if isUniqueViolation(err) {
		return shevcore.Conflict("a handler already exists for event type " + h.EventType)
	}
	if err != nil {
		return shevcore.StoreErr("create handler", err)
	}
	return nil
}

func (s *Store) GetHandlerByEventType(ctx context.Context, eventType string) (*shevcore.Handler, error) {
	return s.scanHandlerRow(s.db.QueryRowContext(ctx,
		`SELECT id, event_type, shell, command, timeout_secs, env FROM handlers WHERE event_type = ?`, eventType))
}

func (s *Store) scanHandlerRow(row *sql.Row) (*shevcore.Handler, error) {
	var h shevcore.Handler
	var idStr, shell, envJSON string
	err := row.Scan(&idStr, &h.EventType, &shell, &h.Command, &h.TimeoutSecs, &envJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shevcore.NotFound("handler")
		}
		return nil, shevcore.StoreErr("get handler", err)
	}
	if h.ID, err = uuid.Parse(idStr); err != nil {
		return nil, shevcore.StoreErr("parse handler id", err)
	}
	h.Shell = shevcore.Shell(shell)
	if envJSON != "" && envJSON != "null" {
		if err := json.Unmarshal([]byte(envJSON), &h.Env); err != nil {
			return nil, shevcore.StoreErr("unmarshal handler env", err)
		}
	}
	return &h, nil
}

func (s *Store) ListHandlers(ctx context.Context) ([]shevcore.Handler, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, event_type, shell, command, timeout_secs, env FROM handlers ORDER BY event_type`)
	if err != nil {
		return nil, shevcore.StoreErr("list handlers", err)
	}
	defer rows.Close()

	var handlers []shevcore.Handler
	for rows.Next() {
		var h shevcore.Handler
		var idStr, shell, envJSON string
		if err := rows.Scan(&idStr, &h.EventType, &shell, &h.Command, &h.TimeoutSecs, &envJSON); err != nil {
			return nil, shevcore.StoreErr("scan handler", err)
		}
		if h.ID, err = uuid.Parse(idStr); err != nil {
			return nil, shevcore.StoreErr("parse handler id", err)
		}
		h.Shell = shevcore.Shell(shell)
		if envJSON != "" && envJSON != "null" {
			if err := json.Unmarshal([]byte(envJSON), &h.Env); err != nil {
				return nil, shevcore.StoreErr("unmarshal handler env", err)
			}
		}
		handlers = append(handlers, h)
	}
	return handlers, rows.Err()
}

func (s *Store) DeleteHandler(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM handlers WHERE id = ?`, id.String())
	if err != nil {
		return shevcore.StoreErr("delete handler", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return shevcore.StoreErr("delete handler", err)
	}
	if n == 0 {
		return shevcore.NotFound("handler")
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite reports these as plain errors whose text
// contains "UNIQUE constraint failed", so a substring check is used
// instead of a driver-specific error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
