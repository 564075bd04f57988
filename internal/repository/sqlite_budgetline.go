package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
)

// SQLiteBudgetLineRepo implements BudgetLineRepo using a SQLite database.
type SQLiteBudgetLineRepo struct {
	db db.DBTX
}

// NewSQLiteBudgetLineRepo creates a new SQLiteBudgetLineRepo.
func NewSQLiteBudgetLineRepo(db db.DBTX) *SQLiteBudgetLineRepo {
	return &SQLiteBudgetLineRepo{db: db}
}

const budgetLineColumns = `id, code, category, year, cap, consumed, version, created_at, updated_at`

func (r *SQLiteBudgetLineRepo) Create(ctx context.Context, b *domain.BudgetLine) error {
	query := `INSERT INTO budget_lines (` + budgetLineColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.Code,
		b.Category,
		b.Year,
		b.Cap.String(),
		b.Consumed.String(),
		b.Version,
		timeToString(b.CreatedAt),
		timeToString(b.UpdatedAt),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("budget line code %q already exists: %w", b.Code, domain.ErrValidation)
		}
		return fmt.Errorf("inserting budget line: %w", err)
	}
	return nil
}

func (r *SQLiteBudgetLineRepo) GetByID(ctx context.Context, id string) (*domain.BudgetLine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+budgetLineColumns+` FROM budget_lines WHERE id = ?`, id)
	b, err := scanBudgetLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget line %s: %w", id, ErrNotFound)
	}
	return b, err
}

func (r *SQLiteBudgetLineRepo) GetByCode(ctx context.Context, code string) (*domain.BudgetLine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+budgetLineColumns+` FROM budget_lines WHERE code = ?`, code)
	b, err := scanBudgetLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget line %q: %w", code, ErrNotFound)
	}
	return b, err
}

// List returns all lines, or only those of year when year is non-zero.
func (r *SQLiteBudgetLineRepo) List(ctx context.Context, year int) ([]*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines`
	var args []any
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY year DESC, code`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budget lines: %w", err)
	}
	defer rows.Close()

	var lines []*domain.BudgetLine
	for rows.Next() {
		b, err := scanBudgetLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget lines: %w", err)
	}
	return lines, nil
}

func (r *SQLiteBudgetLineRepo) UpdateLedger(ctx context.Context, b *domain.BudgetLine) error {
	if b.Consumed.IsNegative() || b.Consumed.GreaterThan(b.Cap) {
		return fmt.Errorf("refusing to store consumed %s outside [0, %s]: %w", b.Consumed, b.Cap, domain.ErrBudgetExceeded)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE budget_lines SET cap = ?, consumed = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		b.Cap.String(), b.Consumed.String(), timeToString(b.UpdatedAt), b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("updating budget line ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking budget line update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("budget line %s changed since version %d: %w", b.ID, b.Version, domain.ErrConcurrentUpdate)
	}
	b.Version++
	return nil
}

func scanBudgetLine(s scanner) (*domain.BudgetLine, error) {
	var b domain.BudgetLine
	var capStr, consumedStr, createdAt, updatedAt string
	err := s.Scan(&b.ID, &b.Code, &b.Category, &b.Year, &capStr, &consumedStr, &b.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning budget line: %w", err)
	}
	if b.Cap, err = parseDecimal(capStr, "cap"); err != nil {
		return nil, err
	}
	if b.Consumed, err = parseDecimal(consumedStr, "consumed"); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &b, nil
}
