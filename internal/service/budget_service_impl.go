package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type budgetService struct {
	lines    repository.BudgetLineRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewBudgetService(lines repository.BudgetLineRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BudgetService {
	return &budgetService{lines: lines, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *budgetService) Create(ctx context.Context, in CreateBudgetLineInput) (line *domain.BudgetLine, err error) {
	defer observeUseCase(ctx, s.observer, "budget-create", domain.Actor{}, in.Code, time.Now())(&err)

	now := time.Now().UTC()
	line = &domain.BudgetLine{
		ID:        uuid.New().String(),
		Code:      strings.TrimSpace(in.Code),
		Category:  strings.TrimSpace(in.Category),
		Year:      in.Year,
		Cap:       in.Cap,
		Consumed:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = line.Validate(); err != nil {
		return nil, err
	}
	if err = s.lines.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// Get accepts either the line ID or its code.
func (s *budgetService) Get(ctx context.Context, idOrCode string) (*domain.BudgetLine, error) {
	line, err := s.lines.GetByID(ctx, idOrCode)
	if errors.Is(err, domain.ErrNotFound) {
		return s.lines.GetByCode(ctx, idOrCode)
	}
	return line, err
}

func (s *budgetService) List(ctx context.Context, year int) ([]*domain.BudgetLine, error) {
	return s.lines.List(ctx, year)
}

// AdjustCap changes the ceiling of a line. Only the headmaster and the
// treasurer may do so, and the new cap may not fall below what has already
// been consumed.
func (s *budgetService) AdjustCap(ctx context.Context, actor domain.Actor, id string, newCap decimal.Decimal) (line *domain.BudgetLine, err error) {
	defer observeUseCase(ctx, s.observer, "budget-adjust-cap", actor, id, time.Now())(&err)

	if actor.Role != domain.RoleKepala && actor.Role != domain.RoleBendahara {
		return nil, fmt.Errorf("role %q may not adjust budget caps: %w", actor.Role, domain.ErrAuthorization)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteBudgetLineRepo(tx)
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := b.SetCap(newCap, time.Now().UTC()); err != nil {
			return err
		}
		if err := repo.UpdateLedger(ctx, b); err != nil {
			return err
		}
		line = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adjusting cap of budget line %s: %w", id, err)
	}
	return line, nil
}
