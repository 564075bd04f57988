package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the disbursement of an approved proposal. Amount is copied from
// the proposal when processing starts and never changes afterwards.
type Payment struct {
	ID               string
	ProposalID       string
	Amount           decimal.Decimal
	RecipientName    string
	RecipientAccount string
	BankName         string
	Method           PaymentMethod
	Reference        string
	Notes            string
	Status           PaymentStatus

	// ResumeStatus is the proposal status to restore on cancellation.
	ResumeStatus ProposalStatus

	ProofFile    *string
	ProofURL     *string
	AdminNotes   *string
	CancelReason *string

	ProcessedBy string
	CompletedBy *string
	CancelledBy *string

	ProcessedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recipient holds the payee details supplied by the treasurer.
type Recipient struct {
	Name      string
	Account   string
	BankName  string
	Method    PaymentMethod
	Reference string
	Notes     string
}

// Validate checks the payee details. Name, account, bank and method are
// required whatever the method.
func (r Recipient) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipient name is required: %w", ErrValidation)
	}
	if strings.TrimSpace(r.Account) == "" {
		return fmt.Errorf("recipient account is required: %w", ErrValidation)
	}
	if strings.TrimSpace(r.BankName) == "" {
		return fmt.Errorf("bank name is required: %w", ErrValidation)
	}
	if !ValidPaymentMethods[r.Method] {
		return fmt.Errorf("unknown payment method %q: %w", r.Method, ErrValidation)
	}
	return nil
}

// NewPayment opens a payment in processing for p, which must already have
// been moved out of its approval state by StartPayment.
func NewPayment(id string, p *Proposal, resume ProposalStatus, r Recipient, processedBy string, now time.Time) (*Payment, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Payment{
		ID:               id,
		ProposalID:       p.ID,
		Amount:           p.Amount,
		RecipientName:    strings.TrimSpace(r.Name),
		RecipientAccount: strings.TrimSpace(r.Account),
		BankName:         strings.TrimSpace(r.BankName),
		Method:           r.Method,
		Reference:        strings.TrimSpace(r.Reference),
		Notes:            strings.TrimSpace(r.Notes),
		Status:           PaymentProcessing,
		ResumeStatus:     resume,
		ProcessedBy:      processedBy,
		ProcessedAt:      &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsTerminal reports whether the payment can no longer change.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}

// Proof is the evidence of disbursement: a stored file reference or an
// external URL. The bytes themselves live elsewhere.
type Proof struct {
	File string
	URL  string
}

func (pr Proof) Validate() error {
	file := strings.TrimSpace(pr.File)
	link := strings.TrimSpace(pr.URL)
	if file == "" && link == "" {
		return fmt.Errorf("payment proof (file or URL) is required: %w", ErrValidation)
	}
	if link != "" {
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("proof URL %q must be an absolute http(s) URL: %w", link, ErrValidation)
		}
	}
	return nil
}

// Complete marks a processing payment as disbursed. Completing twice is a
// state conflict.
func (p *Payment) Complete(proof Proof, adminNotes, by string, now time.Time) error {
	if p.Status != PaymentProcessing {
		return fmt.Errorf("cannot complete payment in status %s: %w", p.Status, ErrStateConflict)
	}
	if err := proof.Validate(); err != nil {
		return err
	}
	if f := strings.TrimSpace(proof.File); f != "" {
		p.ProofFile = &f
	}
	if u := strings.TrimSpace(proof.URL); u != "" {
		p.ProofURL = &u
	}
	if n := strings.TrimSpace(adminNotes); n != "" {
		p.AdminNotes = &n
	}
	p.Status = PaymentCompleted
	p.CompletedBy = &by
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}

// Cancel fails a payment that has not completed.
func (p *Payment) Cancel(reason, by string, now time.Time) error {
	if p.Status != PaymentPending && p.Status != PaymentProcessing {
		return fmt.Errorf("cannot cancel payment in status %s: %w", p.Status, ErrStateConflict)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("cancellation reason is required: %w", ErrValidation)
	}
	p.Status = PaymentFailed
	p.CancelReason = &reason
	p.CancelledBy = &by
	p.CancelledAt = &now
	p.UpdatedAt = now
	return nil
}
