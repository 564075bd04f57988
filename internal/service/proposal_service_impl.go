package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/rkam/internal/authz"
	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/google/uuid"
)

type proposalService struct {
	proposals repository.ProposalRepo
	audit     repository.AuditRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewProposalService(
	proposals repository.ProposalRepo,
	audit repository.AuditRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProposalService {
	return &proposalService{
		proposals: proposals,
		audit:     audit,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	lines     *repository.SQLiteBudgetLineRepo
	proposals *repository.SQLiteProposalRepo
	payments  *repository.SQLitePaymentRepo
	audit     *repository.SQLiteAuditRepo
}

func bindTx(tx db.DBTX) txRepos {
	return txRepos{
		lines:     repository.NewSQLiteBudgetLineRepo(tx),
		proposals: repository.NewSQLiteProposalRepo(tx),
		payments:  repository.NewSQLitePaymentRepo(tx),
		audit:     repository.NewSQLiteAuditRepo(tx),
	}
}

func (s *proposalService) Create(ctx context.Context, actor domain.Actor, in CreateProposalInput) (result *TransitionResult, err error) {
	defer s.observe(ctx, "proposal-create", actor, "", time.Now())(&err)

	if err := requireSubmitter(actor, "create"); err != nil {
		return nil, err
	}

	now := s.now()
	p, err := domain.NewProposal(uuid.New().String(), actor.UserID, in.BudgetLineID, in.Title, in.Description, in.Amount, now)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		if _, err := r.lines.GetByID(ctx, in.BudgetLineID); err != nil {
			return err
		}
		if err := r.proposals.Create(ctx, p); err != nil {
			return err
		}
		return r.audit.Append(ctx, newAuditEvent(p.ID, "", actor, domain.TransitionCreate, "", p.Status, "", now))
	})
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Proposal: p, Message: fmt.Sprintf("Proposal %q saved as draft", p.Title)}, nil
}

func (s *proposalService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateProposalInput) (result *TransitionResult, err error) {
	defer s.observe(ctx, "proposal-update", actor, id, time.Now())(&err)

	if err := requireSubmitter(actor, "edit"); err != nil {
		return nil, err
	}

	var p *domain.Proposal
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		var err error
		if p, err = r.proposals.GetByID(ctx, id); err != nil {
			return err
		}
		if err := requireOwner(actor, p); err != nil {
			return err
		}
		if err := p.Edit(in.Title, in.Description, s.now()); err != nil {
			return err
		}
		return r.proposals.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Proposal: p, Message: "Proposal updated"}, nil
}

func (s *proposalService) Delete(ctx context.Context, actor domain.Actor, id string) (err error) {
	defer s.observe(ctx, "proposal-delete", actor, id, time.Now())(&err)

	if err := requireSubmitter(actor, "delete"); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		p, err := r.proposals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, p); err != nil {
			return err
		}
		if err := p.CheckDeletable(); err != nil {
			return err
		}
		return r.proposals.Delete(ctx, id)
	})
}

func (s *proposalService) Submit(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, domain.TransitionSubmit,
		func(ctx context.Context, r txRepos, p *domain.Proposal, now time.Time) (string, error) {
			line, err := r.lines.GetByID(ctx, p.BudgetLineID)
			if err != nil {
				return "", err
			}
			resubmission := p.IsRejected()
			if err := p.Submit(line, now); err != nil {
				return "", err
			}
			if resubmission {
				return "Proposal resubmitted for verification", nil
			}
			return "Proposal submitted for verification", nil
		})
}

func (s *proposalService) Verify(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, domain.TransitionVerify,
		func(_ context.Context, _ txRepos, p *domain.Proposal, now time.Time) (string, error) {
			if err := p.Verify(actor.UserID, now); err != nil {
				return "", err
			}
			return "Proposal verified and forwarded to the head of madrasah", nil
		})
}

func (s *proposalService) Approve(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, domain.TransitionApprove,
		func(_ context.Context, _ txRepos, p *domain.Proposal, now time.Time) (string, error) {
			if err := p.Approve(actor.UserID, now); err != nil {
				return "", err
			}
			if p.RequiresCommitteeApproval {
				return "Proposal approved and forwarded to the committee", nil
			}
			return "Proposal approved and ready for payment", nil
		})
}

func (s *proposalService) FinalApprove(ctx context.Context, actor domain.Actor, id string) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, domain.TransitionFinalApprove,
		func(_ context.Context, _ txRepos, p *domain.Proposal, now time.Time) (string, error) {
			if err := p.FinalApprove(actor.UserID, now); err != nil {
				return "", err
			}
			return "Proposal approved by the committee and ready for payment", nil
		})
}

func (s *proposalService) Reject(ctx context.Context, actor domain.Actor, id string, in RejectInput) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, domain.TransitionReject,
		func(_ context.Context, _ txRepos, p *domain.Proposal, now time.Time) (string, error) {
			rej, err := domain.NewRejection(in.Reason, in.Suggestions, actor.UserID, now)
			if err != nil {
				return "", err
			}
			if err := p.Reject(rej); err != nil {
				return "", err
			}
			return "Proposal rejected and returned to the submitter", nil
		})
}

func (s *proposalService) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	return s.proposals.GetByID(ctx, id)
}

func (s *proposalService) List(ctx context.Context, filter repository.ProposalFilter) ([]*domain.Proposal, error) {
	return s.proposals.List(ctx, filter)
}

func (s *proposalService) History(ctx context.Context, id string) ([]*domain.AuditEvent, error) {
	if _, err := s.proposals.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.audit.ListByProposal(ctx, id)
}

type applyFunc func(ctx context.Context, r txRepos, p *domain.Proposal, now time.Time) (string, error)

// transition runs one approval step inside a single transaction: load,
// authorize, apply, persist, audit. Nothing is written unless every step
// succeeds.
func (s *proposalService) transition(ctx context.Context, actor domain.Actor, id string, t domain.Transition, apply applyFunc) (result *TransitionResult, err error) {
	defer s.observe(ctx, "proposal-"+string(t), actor, id, time.Now())(&err)

	if err = authz.CheckRole(actor.Role, t); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := bindTx(tx)
		p, err := r.proposals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from := p.Status
		if err := authorize(actor, p, t); err != nil {
			return err
		}

		now := s.now()
		msg, err := apply(ctx, r, p, now)
		if err != nil {
			return err
		}
		if err := r.proposals.Update(ctx, p); err != nil {
			return err
		}
		if err := r.audit.Append(ctx, newAuditEvent(p.ID, "", actor, t, from, p.Status, "", now)); err != nil {
			return err
		}
		result = &TransitionResult{Proposal: p, Message: msg}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *proposalService) observe(ctx context.Context, name string, actor domain.Actor, id string, startedAt time.Time) func(*error) {
	return observeUseCase(ctx, s.observer, name, actor, id, startedAt)
}

// authorize applies the transition table and, for submitters, ownership.
func authorize(actor domain.Actor, p *domain.Proposal, t domain.Transition) error {
	if err := authz.Check(actor.Role, p.Status, t); err != nil {
		return err
	}
	if actor.Role == domain.RolePengusul {
		return requireOwner(actor, p)
	}
	return nil
}

// requireSubmitter runs before any load, so other roles learn nothing about
// which ids exist.
func requireSubmitter(actor domain.Actor, verb string) error {
	if actor.Role != domain.RolePengusul {
		return fmt.Errorf("role %q may not %s proposals: %w", actor.Role, verb, domain.ErrAuthorization)
	}
	return nil
}

func requireOwner(actor domain.Actor, p *domain.Proposal) error {
	if actor.Role != domain.RolePengusul || !p.IsOwnedBy(actor.UserID) {
		return fmt.Errorf("proposal %s belongs to another submitter: %w", p.ID, domain.ErrAuthorization)
	}
	return nil
}

func newAuditEvent(proposalID, paymentID string, actor domain.Actor, t domain.Transition, from, to domain.ProposalStatus, note string, at time.Time) *domain.AuditEvent {
	return &domain.AuditEvent{
		ID:         uuid.New().String(),
		ProposalID: proposalID,
		PaymentID:  paymentID,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Transition: t,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		OccurredAt: at,
	}
}
