package audit

import (
	"context"
	"database/sql"
	"fmt"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS audit_events (
	id          BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT NOT NULL DEFAULT '',
	user_id     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT '',
	details     TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT ''
)`

const insertAuditEvent = `
INSERT INTO audit_events (occurred_at, action, resource, resource_id, user_id, status, details, request_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresSink stores audit events in the audit_events table
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the audit table if it does not exist
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createAuditTable); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, insertAuditEvent,
		e.At, e.Action, e.Resource, e.ResourceID, e.UserID, e.Status, e.Details, e.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}
