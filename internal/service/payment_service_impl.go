package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/rkam/internal/authz"
	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/google/uuid"
)

type paymentService struct {
	payments repository.PaymentRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewPaymentService(
	payments repository.PaymentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PaymentService {
	return &paymentService{
		payments: payments,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentService) Process(ctx context.Context, actor domain.Actor, proposalID string, in ProcessPaymentInput) (result *PaymentResult, err error) {
	defer observeUseCase(ctx, s.observer, "payment-process", actor, proposalID, time.Now())(&err)

	if err = authz.CheckRole(actor.Role, domain.TransitionProcessPayment); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		p, err := r.proposals.GetByID(ctx, proposalID)
		if err != nil {
			return err
		}
		from := p.Status
		if err := authorize(actor, p, domain.TransitionProcessPayment); err != nil {
			return err
		}
		if active, err := r.payments.GetActiveByProposal(ctx, p.ID); err == nil {
			return fmt.Errorf("proposal %s already has payment %s in progress: %w", p.ID, active.ID, domain.ErrStateConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := s.now()
		resume, err := p.StartPayment(now)
		if err != nil {
			return err
		}
		pay, err := domain.NewPayment(uuid.New().String(), p, resume, domain.Recipient{
			Name:      in.RecipientName,
			Account:   in.RecipientAccount,
			BankName:  in.BankName,
			Method:    in.Method,
			Reference: in.Reference,
			Notes:     in.Notes,
		}, actor.UserID, now)
		if err != nil {
			return err
		}

		if err := r.payments.Create(ctx, pay); err != nil {
			return err
		}
		if err := r.proposals.Update(ctx, p); err != nil {
			return err
		}
		if err := r.audit.Append(ctx, newAuditEvent(p.ID, pay.ID, actor, domain.TransitionProcessPayment, from, p.Status, "", now)); err != nil {
			return err
		}
		result = &PaymentResult{Payment: pay, Proposal: p, Message: fmt.Sprintf("Payment of %s to %s is being processed", pay.Amount, pay.RecipientName)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Complete debits the ledger and closes both the payment and the proposal
// in one transaction. A second call finds the payment completed and fails
// with a state conflict, so the debit happens exactly once.
func (s *paymentService) Complete(ctx context.Context, actor domain.Actor, paymentID string, in CompletePaymentInput) (result *PaymentResult, err error) {
	defer observeUseCase(ctx, s.observer, "payment-complete", actor, paymentID, time.Now())(&err)

	if err = authz.CheckRole(actor.Role, domain.TransitionCompletePayment); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		pay, p, err := loadPayment(ctx, r, paymentID)
		if err != nil {
			return err
		}
		from := p.Status
		if err := authorize(actor, p, domain.TransitionCompletePayment); err != nil {
			return err
		}

		now := s.now()
		if err := pay.Complete(domain.Proof{File: in.ProofFile, URL: in.ProofURL}, in.AdminNotes, actor.UserID, now); err != nil {
			return err
		}
		line, err := r.lines.GetByID(ctx, p.BudgetLineID)
		if err != nil {
			return err
		}
		if err := line.Debit(pay.Amount, now); err != nil {
			return err
		}
		if err := p.CompletePayment(now); err != nil {
			return err
		}

		if err := r.lines.UpdateLedger(ctx, line); err != nil {
			return err
		}
		if err := r.payments.Update(ctx, pay); err != nil {
			return err
		}
		if err := r.proposals.Update(ctx, p); err != nil {
			return err
		}
		if err := r.audit.Append(ctx, newAuditEvent(p.ID, pay.ID, actor, domain.TransitionCompletePayment, from, p.Status, "", now)); err != nil {
			return err
		}
		result = &PaymentResult{Payment: pay, Proposal: p, Message: fmt.Sprintf("Payment completed; %s remaining on %s", line.Remaining(), line.Code)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel fails the payment and returns the proposal to the approval state it
// held before processing. The ledger is not touched.
func (s *paymentService) Cancel(ctx context.Context, actor domain.Actor, paymentID, reason string) (result *PaymentResult, err error) {
	defer observeUseCase(ctx, s.observer, "payment-cancel", actor, paymentID, time.Now())(&err)

	if err = authz.CheckRole(actor.Role, domain.TransitionCancelPayment); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		pay, p, err := loadPayment(ctx, r, paymentID)
		if err != nil {
			return err
		}
		from := p.Status
		if err := authorize(actor, p, domain.TransitionCancelPayment); err != nil {
			return err
		}

		now := s.now()
		if err := pay.Cancel(reason, actor.UserID, now); err != nil {
			return err
		}
		if err := p.RevertPayment(pay.ResumeStatus, now); err != nil {
			return err
		}

		if err := r.payments.Update(ctx, pay); err != nil {
			return err
		}
		if err := r.proposals.Update(ctx, p); err != nil {
			return err
		}
		if err := r.audit.Append(ctx, newAuditEvent(p.ID, pay.ID, actor, domain.TransitionCancelPayment, from, p.Status, *pay.CancelReason, now)); err != nil {
			return err
		}
		result = &PaymentResult{Payment: pay, Proposal: p, Message: "Payment cancelled; proposal returned to " + string(p.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *paymentService) Get(ctx context.Context, id string) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *paymentService) GetActiveForProposal(ctx context.Context, proposalID string) (*domain.Payment, error) {
	return s.payments.GetActiveByProposal(ctx, proposalID)
}

func (s *paymentService) ListByProposal(ctx context.Context, proposalID string) ([]*domain.Payment, error) {
	return s.payments.ListByProposal(ctx, proposalID)
}

func loadPayment(ctx context.Context, r txRepos, paymentID string) (*domain.Payment, *domain.Proposal, error) {
	pay, err := r.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	p, err := r.proposals.GetByID(ctx, pay.ProposalID)
	if err != nil {
		return nil, nil, err
	}
	return pay, p, nil
}
