package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo. Rows are append-only; triggers in
// the schema refuse UPDATE and DELETE.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(db db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: db}
}

const auditColumns = `id, proposal_id, payment_id, actor_id, actor_role, transition, from_status, to_status, note, occurred_at`

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (`+auditColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.ProposalID,
		e.PaymentID,
		e.ActorID,
		string(e.ActorRole),
		string(e.Transition),
		string(e.FromStatus),
		string(e.ToStatus),
		e.Note,
		timeToString(e.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("appending audit event: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) ListByProposal(ctx context.Context, proposalID string) ([]*domain.AuditEvent, error) {
	return r.query(ctx,
		`SELECT `+auditColumns+` FROM audit_events WHERE proposal_id = ? ORDER BY seq`, proposalID)
}

// ListRecent returns the newest events first. A non-positive limit returns all.
func (r *SQLiteAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(ctx, `SELECT `+auditColumns+` FROM audit_events ORDER BY seq DESC LIMIT ?`, limit)
}

func (r *SQLiteAuditRepo) query(ctx context.Context, query string, args ...any) ([]*domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var role, transition, from, to, occurredAt string
		if err := rows.Scan(&e.ID, &e.ProposalID, &e.PaymentID, &e.ActorID, &role, &transition,
			&from, &to, &e.Note, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		e.ActorRole = domain.Role(role)
		e.Transition = domain.Transition(transition)
		e.FromStatus = domain.ProposalStatus(from)
		e.ToStatus = domain.ProposalStatus(to)
		if e.OccurredAt, err = parseTime(occurredAt, "occurred_at"); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}
	return events, nil
}
