package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan holds the domain records produced from a PlanSchema.
type Plan struct {
	Lines []*domain.BudgetLine
	Users []*domain.User
}

// Convert transforms a validated PlanSchema into domain objects ready for
// persistence. Call ValidatePlan first; Convert assumes the schema is valid.
func Convert(schema *PlanSchema, now time.Time) (*Plan, error) {
	plan := &Plan{
		Lines: make([]*domain.BudgetLine, 0, len(schema.BudgetLines)),
		Users: make([]*domain.User, 0, len(schema.Users)),
	}

	for _, l := range schema.BudgetLines {
		capAmount, err := decimal.NewFromString(string(l.Cap))
		if err != nil {
			return nil, err
		}
		year := schema.Year
		if l.Year != nil {
			year = *l.Year
		}
		plan.Lines = append(plan.Lines, &domain.BudgetLine{
			ID:        uuid.New().String(),
			Code:      strings.TrimSpace(l.Code),
			Category:  strings.TrimSpace(l.Category),
			Year:      year,
			Cap:       capAmount,
			Consumed:  decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	for _, u := range schema.Users {
		plan.Users = append(plan.Users, &domain.User{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(u.Name),
			Role:      domain.Role(u.Role),
			CreatedAt: now,
		})
	}

	return plan, nil
}
