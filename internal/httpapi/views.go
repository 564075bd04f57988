package httpapi

import (
	"time"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/shopspring/decimal"
)

type proposalView struct {
	ID                        string          `json:"id"`
	OwnerID                   string          `json:"owner_id"`
	BudgetLineID              string          `json:"budget_line_id"`
	Title                     string          `json:"title"`
	Description               string          `json:"description"`
	Amount                    decimal.Decimal `json:"amount"`
	Status                    string          `json:"status"`
	RequiresCommitteeApproval bool            `json:"requires_committee_approval"`
	RejectionReason           *string         `json:"rejection_reason,omitempty"`
	ImprovementSuggestions    *string         `json:"improvement_suggestions,omitempty"`
	RejectedBy                *string         `json:"rejected_by,omitempty"`
	VerifiedBy                *string         `json:"verified_by,omitempty"`
	ApprovedBy                *string         `json:"approved_by,omitempty"`
	FinalApprovedBy           *string         `json:"final_approved_by,omitempty"`
	SubmittedAt               *time.Time      `json:"submitted_at,omitempty"`
	VerifiedAt                *time.Time      `json:"verified_at,omitempty"`
	ApprovedAt                *time.Time      `json:"approved_at,omitempty"`
	FinalApprovedAt           *time.Time      `json:"final_approved_at,omitempty"`
	RejectedAt                *time.Time      `json:"rejected_at,omitempty"`
	CompletedAt               *time.Time      `json:"completed_at,omitempty"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

func viewProposal(p *domain.Proposal) *proposalView {
	if p == nil {
		return nil
	}
	return &proposalView{
		ID:                        p.ID,
		OwnerID:                   p.OwnerID,
		BudgetLineID:              p.BudgetLineID,
		Title:                     p.Title,
		Description:               p.Description,
		Amount:                    p.Amount,
		Status:                    string(p.Status),
		RequiresCommitteeApproval: p.RequiresCommitteeApproval,
		RejectionReason:           p.RejectionReason,
		ImprovementSuggestions:    p.ImprovementSuggestions,
		RejectedBy:                p.RejectedBy,
		VerifiedBy:                p.VerifiedBy,
		ApprovedBy:                p.ApprovedBy,
		FinalApprovedBy:           p.FinalApprovedBy,
		SubmittedAt:               p.SubmittedAt,
		VerifiedAt:                p.VerifiedAt,
		ApprovedAt:                p.ApprovedAt,
		FinalApprovedAt:           p.FinalApprovedAt,
		RejectedAt:                p.RejectedAt,
		CompletedAt:               p.CompletedAt,
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}

type paymentView struct {
	ID               string          `json:"id"`
	ProposalID       string          `json:"proposal_id"`
	Amount           decimal.Decimal `json:"amount"`
	RecipientName    string          `json:"recipient_name"`
	RecipientAccount string          `json:"recipient_account,omitempty"`
	BankName         string          `json:"bank_name,omitempty"`
	Method           string          `json:"payment_method"`
	Reference        string          `json:"payment_reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Status           string          `json:"status"`
	ProofFile        *string         `json:"proof_file,omitempty"`
	ProofURL         *string         `json:"proof_url,omitempty"`
	AdminNotes       *string         `json:"admin_notes,omitempty"`
	CancelReason     *string         `json:"cancel_reason,omitempty"`
	ProcessedBy      string          `json:"processed_by"`
	CompletedBy      *string         `json:"completed_by,omitempty"`
	CancelledBy      *string         `json:"cancelled_by,omitempty"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
}

func viewPayment(p *domain.Payment) *paymentView {
	if p == nil {
		return nil
	}
	return &paymentView{
		ID:               p.ID,
		ProposalID:       p.ProposalID,
		Amount:           p.Amount,
		RecipientName:    p.RecipientName,
		RecipientAccount: p.RecipientAccount,
		BankName:         p.BankName,
		Method:           string(p.Method),
		Reference:        p.Reference,
		Notes:            p.Notes,
		Status:           string(p.Status),
		ProofFile:        p.ProofFile,
		ProofURL:         p.ProofURL,
		AdminNotes:       p.AdminNotes,
		CancelReason:     p.CancelReason,
		ProcessedBy:      p.ProcessedBy,
		CompletedBy:      p.CompletedBy,
		CancelledBy:      p.CancelledBy,
		ProcessedAt:      p.ProcessedAt,
		CompletedAt:      p.CompletedAt,
		CancelledAt:      p.CancelledAt,
	}
}

type budgetLineView struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Category  string          `json:"category"`
	Year      int             `json:"year"`
	Cap       decimal.Decimal `json:"cap"`
	Consumed  decimal.Decimal `json:"consumed"`
	Remaining decimal.Decimal `json:"remaining"`
}

func viewBudgetLine(b *domain.BudgetLine) budgetLineView {
	return budgetLineView{
		ID:        b.ID,
		Code:      b.Code,
		Category:  b.Category,
		Year:      b.Year,
		Cap:       b.Cap,
		Consumed:  b.Consumed,
		Remaining: b.Remaining(),
	}
}

type auditView struct {
	Transition string    `json:"transition"`
	From       string    `json:"from_status"`
	To         string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func viewAudit(e *domain.AuditEvent) auditView {
	return auditView{
		Transition: string(e.Transition),
		From:       string(e.FromStatus),
		To:         string(e.ToStatus),
		ActorID:    e.ActorID,
		ActorRole:  string(e.ActorRole),
		PaymentID:  e.PaymentID,
		Note:       e.Note,
		OccurredAt: e.OccurredAt,
	}
}

// transitionResponse carries the updated resource plus a human-readable message.
type transitionResponse struct {
	Message  string        `json:"message"`
	Proposal *proposalView `json:"proposal,omitempty"`
	Payment  *paymentView  `json:"payment,omitempty"`
}
