package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/importer"
	"github.com/alexanderramin/rkam/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportPlan(ctx context.Context, path string) (*ImportResult, error) {
	schema, err := importer.LoadPlan(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %v: %w", err, domain.ErrValidation)
	}
	return s.ImportPlanFromSchema(ctx, schema)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.PlanSchema) (result *ImportResult, err error) {
	defer observeUseCase(ctx, s.observer, "plan-import", domain.Actor{}, "", time.Now())(&err)

	if errs := importer.ValidatePlan(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(schema, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("converting plan: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		lines := repository.NewSQLiteBudgetLineRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		for _, l := range plan.Lines {
			if err := lines.Create(ctx, l); err != nil {
				return fmt.Errorf("creating budget line %q: %w", l.Code, err)
			}
		}
		for _, u := range plan.Users {
			if err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("creating user %q: %w", u.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ImportResult{Lines: plan.Lines, Users: plan.Users}, nil
}

func formatValidationErrors(errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, "  - "+e.Error())
	}
	return fmt.Errorf("%w: plan has %d errors:\n%s", domain.ErrValidation, len(errs), strings.Join(msgs, "\n"))
}
