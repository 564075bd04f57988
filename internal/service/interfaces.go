package service

import (
	"context"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/importer"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/shopspring/decimal"
)

// TransitionResult is returned by every successful state change.
type TransitionResult struct {
	Proposal *domain.Proposal
	Message  string
}

// PaymentResult is returned by every successful payment operation.
type PaymentResult struct {
	Payment  *domain.Payment
	Proposal *domain.Proposal
	Message  string
}

type CreateProposalInput struct {
	BudgetLineID string
	Title        string
	Description  string
	Amount       decimal.Decimal
}

// UpdateProposalInput edits content. Nil fields are left unchanged.
type UpdateProposalInput struct {
	Title       *string
	Description *string
}

type RejectInput struct {
	Reason      string
	Suggestions string
}

type ProposalService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateProposalInput) (*TransitionResult, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateProposalInput) (*TransitionResult, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Submit(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error)
	Verify(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error)
	FinalApprove(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error)
	Reject(ctx context.Context, actor domain.Actor, id string, in RejectInput) (*TransitionResult, error)
	Get(ctx context.Context, id string) (*domain.Proposal, error)
	List(ctx context.Context, filter repository.ProposalFilter) ([]*domain.Proposal, error)
	History(ctx context.Context, id string) ([]*domain.AuditEvent, error)
}

type ProcessPaymentInput struct {
	RecipientName    string
	RecipientAccount string
	BankName         string
	Method           domain.PaymentMethod
	Reference        string
	Notes            string
}

type CompletePaymentInput struct {
	ProofFile  string
	ProofURL   string
	AdminNotes string
}

type PaymentService interface {
	Process(ctx context.Context, actor domain.Actor, proposalID string, in ProcessPaymentInput) (*PaymentResult, error)
	Complete(ctx context.Context, actor domain.Actor, paymentID string, in CompletePaymentInput) (*PaymentResult, error)
	Cancel(ctx context.Context, actor domain.Actor, paymentID, reason string) (*PaymentResult, error)
	Get(ctx context.Context, id string) (*domain.Payment, error)
	GetActiveForProposal(ctx context.Context, proposalID string) (*domain.Payment, error)
	ListByProposal(ctx context.Context, proposalID string) ([]*domain.Payment, error)
}

type CreateBudgetLineInput struct {
	Code     string
	Category string
	Year     int
	Cap      decimal.Decimal
}

type BudgetService interface {
	Create(ctx context.Context, in CreateBudgetLineInput) (*domain.BudgetLine, error)
	Get(ctx context.Context, idOrCode string) (*domain.BudgetLine, error)
	List(ctx context.Context, year int) ([]*domain.BudgetLine, error)
	AdjustCap(ctx context.Context, actor domain.Actor, id string, newCap decimal.Decimal) (*domain.BudgetLine, error)
}

type UserService interface {
	Create(ctx context.Context, name string, role domain.Role) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Resolve turns a user ID into the acting identity for a request.
	Resolve(ctx context.Context, id string) (domain.Actor, error)
}

type AuditService interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

// ImportResult summarizes a plan import.
type ImportResult struct {
	Lines []*domain.BudgetLine
	Users []*domain.User
}

type ImportService interface {
	// ImportPlan loads a plan file and creates its budget lines and users in
	// one transaction. Nothing is written if any record fails.
	ImportPlan(ctx context.Context, path string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.PlanSchema) (*ImportResult, error)
}
