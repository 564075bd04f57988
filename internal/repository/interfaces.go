package repository

import (
	"context"

	"github.com/alexanderramin/rkam/internal/domain"
)

// ErrNotFound is returned by every Get when the row does not exist.
var ErrNotFound = domain.ErrNotFound

// ProposalFilter narrows List results. Zero values match everything.
type ProposalFilter struct {
	Status       domain.ProposalStatus
	OwnerID      string
	BudgetLineID string
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type BudgetLineRepo interface {
	Create(ctx context.Context, b *domain.BudgetLine) error
	GetByID(ctx context.Context, id string) (*domain.BudgetLine, error)
	GetByCode(ctx context.Context, code string) (*domain.BudgetLine, error)
	List(ctx context.Context, year int) ([]*domain.BudgetLine, error)
	// UpdateLedger writes Cap and Consumed only if the stored version still
	// equals b.Version, then bumps b.Version. A lost race returns
	// domain.ErrConcurrentUpdate.
	UpdateLedger(ctx context.Context, b *domain.BudgetLine) error
}

type ProposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	List(ctx context.Context, f ProposalFilter) ([]*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) error
	Delete(ctx context.Context, id string) error
}

type PaymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetActiveByProposal(ctx context.Context, proposalID string) (*domain.Payment, error)
	ListByProposal(ctx context.Context, proposalID string) ([]*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
}

type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEvent) error
	ListByProposal(ctx context.Context, proposalID string) ([]*domain.AuditEvent, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}
