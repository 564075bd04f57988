package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
)

// SQLiteProposalRepo implements ProposalRepo using a SQLite database.
type SQLiteProposalRepo struct {
	db db.DBTX
}

// NewSQLiteProposalRepo creates a new SQLiteProposalRepo.
func NewSQLiteProposalRepo(db db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{db: db}
}

const proposalColumns = `id, owner_id, budget_line_id, title, description, amount, status,
	requires_committee_approval, rejection_reason, improvement_suggestions, rejected_by,
	verified_by, approved_by, final_approved_by,
	submitted_at, verified_at, approved_at, final_approved_at, rejected_at, completed_at,
	created_at, updated_at`

func (r *SQLiteProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	query := `INSERT INTO proposals (` + proposalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		p.BudgetLineID,
		p.Title,
		p.Description,
		p.Amount.String(),
		string(p.Status),
		boolToInt(p.RequiresCommitteeApproval),
		nullableString(p.RejectionReason),
		nullableString(p.ImprovementSuggestions),
		nullableString(p.RejectedBy),
		nullableString(p.VerifiedBy),
		nullableString(p.ApprovedBy),
		nullableString(p.FinalApprovedBy),
		nullableTimeToString(p.SubmittedAt),
		nullableTimeToString(p.VerifiedAt),
		nullableTimeToString(p.ApprovedAt),
		nullableTimeToString(p.FinalApprovedAt),
		nullableTimeToString(p.RejectedAt),
		nullableTimeToString(p.CompletedAt),
		timeToString(p.CreatedAt),
		timeToString(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = ?`, id)
	p, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProposalRepo) List(ctx context.Context, f ProposalFilter) ([]*domain.Proposal, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.BudgetLineID != "" {
		where = append(where, "budget_line_id = ?")
		args = append(args, f.BudgetLineID)
	}

	query := `SELECT ` + proposalColumns + ` FROM proposals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposals: %w", err)
	}
	return proposals, nil
}

// Update writes every mutable column. Amount, owner, budget line and the
// committee flag are fixed at creation.
func (r *SQLiteProposalRepo) Update(ctx context.Context, p *domain.Proposal) error {
	query := `UPDATE proposals SET
		title = ?, description = ?, status = ?,
		rejection_reason = ?, improvement_suggestions = ?, rejected_by = ?,
		verified_by = ?, approved_by = ?, final_approved_by = ?,
		submitted_at = ?, verified_at = ?, approved_at = ?, final_approved_at = ?,
		rejected_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		string(p.Status),
		nullableString(p.RejectionReason),
		nullableString(p.ImprovementSuggestions),
		nullableString(p.RejectedBy),
		nullableString(p.VerifiedBy),
		nullableString(p.ApprovedBy),
		nullableString(p.FinalApprovedBy),
		nullableTimeToString(p.SubmittedAt),
		nullableTimeToString(p.VerifiedAt),
		nullableTimeToString(p.ApprovedAt),
		nullableTimeToString(p.FinalApprovedAt),
		nullableTimeToString(p.RejectedAt),
		nullableTimeToString(p.CompletedAt),
		timeToString(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating proposal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("proposal %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteProposalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting proposal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanProposal(s scanner) (*domain.Proposal, error) {
	var p domain.Proposal
	var amount, status, createdAt, updatedAt string
	var committee int
	var rejectionReason, suggestions, rejectedBy sql.NullString
	var verifiedBy, approvedBy, finalApprovedBy sql.NullString
	var submittedAt, verifiedAt, approvedAt, finalApprovedAt, rejectedAt, completedAt sql.NullString

	err := s.Scan(
		&p.ID, &p.OwnerID, &p.BudgetLineID, &p.Title, &p.Description, &amount, &status,
		&committee, &rejectionReason, &suggestions, &rejectedBy,
		&verifiedBy, &approvedBy, &finalApprovedBy,
		&submittedAt, &verifiedAt, &approvedAt, &finalApprovedAt, &rejectedAt, &completedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}

	if p.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	p.Status = domain.ProposalStatus(status)
	p.RequiresCommitteeApproval = intToBool(committee)
	p.RejectionReason = stringPtr(rejectionReason)
	p.ImprovementSuggestions = stringPtr(suggestions)
	p.RejectedBy = stringPtr(rejectedBy)
	p.VerifiedBy = stringPtr(verifiedBy)
	p.ApprovedBy = stringPtr(approvedBy)
	p.FinalApprovedBy = stringPtr(finalApprovedBy)
	p.SubmittedAt = parseNullableTime(submittedAt)
	p.VerifiedAt = parseNullableTime(verifiedAt)
	p.ApprovedAt = parseNullableTime(approvedAt)
	p.FinalApprovedAt = parseNullableTime(finalApprovedAt)
	p.RejectedAt = parseNullableTime(rejectedAt)
	p.CompletedAt = parseNullableTime(completedAt)
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
