package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Proposal struct {
	ID           string
	OwnerID      string
	BudgetLineID string
	Title        string
	Description  string
	Amount       decimal.Decimal
	Status       ProposalStatus

	// RequiresCommitteeApproval is fixed at creation to Amount > CommitteeThreshold.
	RequiresCommitteeApproval bool

	// Rejection, set only by Reject and cleared only by resubmission.
	RejectionReason        *string
	ImprovementSuggestions *string
	RejectedBy             *string

	VerifiedBy      *string
	ApprovedBy      *string
	FinalApprovedBy *string

	SubmittedAt     *time.Time
	VerifiedAt      *time.Time
	ApprovedAt      *time.Time
	FinalApprovedAt *time.Time
	RejectedAt      *time.Time
	CompletedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProposal builds a draft owned by ownerID. Title and description may
// still be empty; they are enforced on submission.
func NewProposal(id, ownerID, budgetLineID, title, description string, amount decimal.Decimal, now time.Time) (*Proposal, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("proposal owner is required: %w", ErrValidation)
	}
	if budgetLineID == "" {
		return nil, fmt.Errorf("budget line is required: %w", ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than zero: %w", ErrValidation)
	}
	return &Proposal{
		ID:                        id,
		OwnerID:                   ownerID,
		BudgetLineID:              budgetLineID,
		Title:                     strings.TrimSpace(title),
		Description:               strings.TrimSpace(description),
		Amount:                    amount,
		Status:                    ProposalDraft,
		RequiresCommitteeApproval: amount.GreaterThan(CommitteeThreshold),
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}, nil
}

// IsOwnedBy reports whether userID created the proposal.
func (p *Proposal) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}

// IsEditable reports whether the owner may still change the content.
func (p *Proposal) IsEditable() bool {
	return p.Status == ProposalDraft || p.Status == ProposalRejected
}

// IsRejected reports whether rejection feedback is attached.
func (p *Proposal) IsRejected() bool {
	return p.Status == ProposalRejected
}

// Edit replaces title and description. Nil arguments leave a field as is.
func (p *Proposal) Edit(title, description *string, now time.Time) error {
	if !p.IsEditable() {
		return fmt.Errorf("proposal is %s and can no longer be edited: %w", p.Status, ErrStateConflict)
	}
	if title != nil {
		p.Title = strings.TrimSpace(*title)
	}
	if description != nil {
		p.Description = strings.TrimSpace(*description)
	}
	p.UpdatedAt = now
	return nil
}

// CheckDeletable refuses deletion of anything past draft.
func (p *Proposal) CheckDeletable() error {
	if p.Status != ProposalDraft {
		return fmt.Errorf("only draft proposals can be deleted (status %s): %w", p.Status, ErrStateConflict)
	}
	return nil
}

// Submit moves a draft or rejected proposal to submitted. The budget check
// is soft: nothing is reserved on the line.
func (p *Proposal) Submit(line *BudgetLine, now time.Time) error {
	if p.Status != ProposalDraft && p.Status != ProposalRejected {
		return p.conflict(TransitionSubmit)
	}
	if p.Title == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if p.Description == "" {
		return fmt.Errorf("description is required: %w", ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero: %w", ErrValidation)
	}
	if line == nil || line.ID != p.BudgetLineID {
		return fmt.Errorf("budget line %s: %w", p.BudgetLineID, ErrNotFound)
	}
	if !line.CanCover(p.Amount) {
		return fmt.Errorf("requested %s exceeds remaining %s on %s: %w",
			p.Amount, line.Remaining(), line.Code, ErrBudgetExceeded)
	}

	p.clearRejection()
	p.clearReviews()
	p.Status = ProposalSubmitted
	p.SubmittedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) Verify(by string, now time.Time) error {
	if p.Status != ProposalSubmitted {
		return p.conflict(TransitionVerify)
	}
	p.Status = ProposalVerified
	p.VerifiedBy = &by
	p.VerifiedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) Approve(by string, now time.Time) error {
	if p.Status != ProposalVerified {
		return p.conflict(TransitionApprove)
	}
	p.Status = ProposalApproved
	p.ApprovedBy = &by
	p.ApprovedAt = &now
	p.UpdatedAt = now
	return nil
}

// FinalApprove is the committee step, only reachable above the threshold.
func (p *Proposal) FinalApprove(by string, now time.Time) error {
	if p.Status != ProposalApproved {
		return p.conflict(TransitionFinalApprove)
	}
	if !p.RequiresCommitteeApproval {
		return fmt.Errorf("proposal does not require committee approval: %w", ErrStateConflict)
	}
	p.Status = ProposalFinalApproved
	p.FinalApprovedBy = &by
	p.FinalApprovedAt = &now
	p.UpdatedAt = now
	return nil
}

// Reject attaches r. RequiresCommitteeApproval is left untouched.
func (p *Proposal) Reject(r Rejection) error {
	switch p.Status {
	case ProposalSubmitted, ProposalVerified:
	case ProposalApproved:
		if !p.RequiresCommitteeApproval {
			return fmt.Errorf("approved proposal below committee threshold cannot be rejected: %w", ErrStateConflict)
		}
	default:
		return p.conflict(TransitionReject)
	}
	reason, suggestions, by, at := r.Reason, r.Suggestions, r.RejectedBy, r.RejectedAt
	p.Status = ProposalRejected
	p.RejectionReason = &reason
	p.ImprovementSuggestions = &suggestions
	p.RejectedBy = &by
	p.RejectedAt = &at
	p.UpdatedAt = at
	return nil
}

// ReadyForPayment reports whether all required approvals are in place.
func (p *Proposal) ReadyForPayment() bool {
	switch p.Status {
	case ProposalFinalApproved:
		return true
	case ProposalApproved:
		return !p.RequiresCommitteeApproval
	default:
		return false
	}
}

// StartPayment moves the proposal to payment_processing and returns the
// status to restore if the payment is cancelled.
func (p *Proposal) StartPayment(now time.Time) (ProposalStatus, error) {
	if !p.ReadyForPayment() {
		if p.Status == ProposalApproved {
			return "", fmt.Errorf("proposal awaits committee approval: %w", ErrStateConflict)
		}
		return "", p.conflict(TransitionProcessPayment)
	}
	prior := p.Status
	p.Status = ProposalPaymentProcessing
	p.UpdatedAt = now
	return prior, nil
}

func (p *Proposal) CompletePayment(now time.Time) error {
	if p.Status != ProposalPaymentProcessing {
		return p.conflict(TransitionCompletePayment)
	}
	p.Status = ProposalCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}

// RevertPayment restores the approval state held before StartPayment.
func (p *Proposal) RevertPayment(resume ProposalStatus, now time.Time) error {
	if p.Status != ProposalPaymentProcessing {
		return p.conflict(TransitionCancelPayment)
	}
	if resume != ProposalApproved && resume != ProposalFinalApproved {
		return fmt.Errorf("cannot revert payment to %q: %w", resume, ErrStateConflict)
	}
	p.Status = resume
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) clearRejection() {
	p.RejectionReason = nil
	p.ImprovementSuggestions = nil
	p.RejectedBy = nil
	p.RejectedAt = nil
}

// clearReviews drops reviewer stamps from an earlier cycle so a resubmitted
// proposal only carries approvals it actually received.
func (p *Proposal) clearReviews() {
	p.VerifiedBy = nil
	p.VerifiedAt = nil
	p.ApprovedBy = nil
	p.ApprovedAt = nil
	p.FinalApprovedBy = nil
	p.FinalApprovedAt = nil
}

func (p *Proposal) conflict(t Transition) error {
	return fmt.Errorf("cannot %s proposal in status %s: %w", t, p.Status, ErrStateConflict)
}
