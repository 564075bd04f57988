package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
)

// SQLitePaymentRepo implements PaymentRepo using a SQLite database.
type SQLitePaymentRepo struct {
	db db.DBTX
}

// NewSQLitePaymentRepo creates a new SQLitePaymentRepo.
func NewSQLitePaymentRepo(db db.DBTX) *SQLitePaymentRepo {
	return &SQLitePaymentRepo{db: db}
}

const paymentColumns = `id, proposal_id, amount, recipient_name, recipient_account, bank_name, method,
	reference, notes, status, resume_status, proof_file, proof_url, admin_notes, cancel_reason,
	processed_by, completed_by, cancelled_by, processed_at, completed_at, cancelled_at,
	created_at, updated_at`

func (r *SQLitePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProposalID,
		p.Amount.String(),
		p.RecipientName,
		p.RecipientAccount,
		p.BankName,
		string(p.Method),
		p.Reference,
		p.Notes,
		string(p.Status),
		string(p.ResumeStatus),
		nullableString(p.ProofFile),
		nullableString(p.ProofURL),
		nullableString(p.AdminNotes),
		nullableString(p.CancelReason),
		p.ProcessedBy,
		nullableString(p.CompletedBy),
		nullableString(p.CancelledBy),
		nullableTimeToString(p.ProcessedAt),
		nullableTimeToString(p.CompletedAt),
		nullableTimeToString(p.CancelledAt),
		timeToString(p.CreatedAt),
		timeToString(p.UpdatedAt),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("proposal %s already has an active payment: %w", p.ProposalID, domain.ErrStateConflict)
		}
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (r *SQLitePaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}
	return p, err
}

// GetActiveByProposal returns the pending or processing payment of a
// proposal, or ErrNotFound when there is none.
func (r *SQLitePaymentRepo) GetActiveByProposal(ctx context.Context, proposalID string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE proposal_id = ? AND status IN ('pending','processing')`, proposalID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active payment for proposal %s: %w", proposalID, ErrNotFound)
	}
	return p, err
}

func (r *SQLitePaymentRepo) ListByProposal(ctx context.Context, proposalID string) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE proposal_id = ? ORDER BY created_at, id`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}
	return payments, nil
}

// Update writes the lifecycle columns. Amount and payee details are fixed
// once the payment exists.
func (r *SQLitePaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments SET
		status = ?, proof_file = ?, proof_url = ?, admin_notes = ?, cancel_reason = ?,
		completed_by = ?, cancelled_by = ?, completed_at = ?, cancelled_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(p.Status),
		nullableString(p.ProofFile),
		nullableString(p.ProofURL),
		nullableString(p.AdminNotes),
		nullableString(p.CancelReason),
		nullableString(p.CompletedBy),
		nullableString(p.CancelledBy),
		nullableTimeToString(p.CompletedAt),
		nullableTimeToString(p.CancelledAt),
		timeToString(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("payment %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	var amount, method, status, resume, createdAt, updatedAt string
	var proofFile, proofURL, adminNotes, cancelReason sql.NullString
	var completedBy, cancelledBy sql.NullString
	var processedAt, completedAt, cancelledAt sql.NullString

	err := s.Scan(
		&p.ID, &p.ProposalID, &amount, &p.RecipientName, &p.RecipientAccount, &p.BankName, &method,
		&p.Reference, &p.Notes, &status, &resume, &proofFile, &proofURL, &adminNotes, &cancelReason,
		&p.ProcessedBy, &completedBy, &cancelledBy, &processedAt, &completedAt, &cancelledAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning payment: %w", err)
	}

	if p.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	p.ResumeStatus = domain.ProposalStatus(resume)
	p.ProofFile = stringPtr(proofFile)
	p.ProofURL = stringPtr(proofURL)
	p.AdminNotes = stringPtr(adminNotes)
	p.CancelReason = stringPtr(cancelReason)
	p.CompletedBy = stringPtr(completedBy)
	p.CancelledBy = stringPtr(cancelledBy)
	p.ProcessedAt = parseNullableTime(processedAt)
	p.CompletedAt = parseNullableTime(completedAt)
	p.CancelledAt = parseNullableTime(cancelledAt)
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
