package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetLine is one category-scoped annual allocation (an RKAM line).
// Consumed only grows through completed payment debits.
type BudgetLine struct {
	ID       string
	Code     string
	Category string
	Year     int
	Cap      decimal.Decimal
	Consumed decimal.Decimal

	// Version is bumped on every ledger mutation and used for
	// compare-and-swap updates.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns Cap − Consumed.
func (b *BudgetLine) Remaining() decimal.Decimal {
	return b.Cap.Sub(b.Consumed)
}

// Validate checks the static shape of a new budget line.
func (b *BudgetLine) Validate() error {
	if strings.TrimSpace(b.Code) == "" {
		return fmt.Errorf("budget line code is required: %w", ErrValidation)
	}
	if strings.TrimSpace(b.Category) == "" {
		return fmt.Errorf("budget line category is required: %w", ErrValidation)
	}
	if b.Year < 2000 || b.Year > 2100 {
		return fmt.Errorf("budget line year %d out of range: %w", b.Year, ErrValidation)
	}
	if b.Cap.IsNegative() {
		return fmt.Errorf("budget line cap must not be negative: %w", ErrValidation)
	}
	if b.Consumed.IsNegative() || b.Consumed.GreaterThan(b.Cap) {
		return fmt.Errorf("consumed %s outside [0, %s]: %w", b.Consumed, b.Cap, ErrValidation)
	}
	return nil
}

// CanCover reports whether amount fits in the remaining capacity.
// It reserves nothing.
func (b *BudgetLine) CanCover(amount decimal.Decimal) bool {
	return !amount.GreaterThan(b.Remaining())
}

// Debit consumes amount from the line.
func (b *BudgetLine) Debit(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive: %w", ErrValidation)
	}
	if !b.CanCover(amount) {
		return fmt.Errorf("debit %s exceeds remaining %s on %s: %w",
			amount, b.Remaining(), b.Code, ErrBudgetExceeded)
	}
	b.Consumed = b.Consumed.Add(amount)
	b.UpdatedAt = now
	return nil
}

// Credit returns amount to the line.
func (b *BudgetLine) Credit(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive: %w", ErrValidation)
	}
	if amount.GreaterThan(b.Consumed) {
		return fmt.Errorf("credit %s exceeds consumed %s on %s: %w",
			amount, b.Consumed, b.Code, ErrValidation)
	}
	b.Consumed = b.Consumed.Sub(amount)
	b.UpdatedAt = now
	return nil
}

// SetCap changes the allocation. The new cap may not drop below what has
// already been consumed.
func (b *BudgetLine) SetCap(newCap decimal.Decimal, now time.Time) error {
	if newCap.IsNegative() {
		return fmt.Errorf("budget line cap must not be negative: %w", ErrValidation)
	}
	if newCap.LessThan(b.Consumed) {
		return fmt.Errorf("cap %s below consumed %s: %w", newCap, b.Consumed, ErrValidation)
	}
	b.Cap = newCap
	b.UpdatedAt = now
	return nil
}
