package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/shopspring/decimal"
)

// ValidatePlan checks the plan for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePlan(schema *PlanSchema) []error {
	var errs []error

	if schema.Year != 0 && !validYear(schema.Year) {
		errs = append(errs, fmt.Errorf("year %d out of range", schema.Year))
	}
	if len(schema.BudgetLines) == 0 && len(schema.Users) == 0 {
		errs = append(errs, fmt.Errorf("plan has no budget_lines and no users"))
	}

	codes := make(map[string]int)
	for i, l := range schema.BudgetLines {
		errs = append(errs, validateLine(i, schema.Year, l, codes)...)
	}
	for i, u := range schema.Users {
		prefix := fmt.Sprintf("users[%d]", i)
		if strings.TrimSpace(u.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if _, ok := domain.ParseRole(u.Role); !ok {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, u.Role))
		}
	}

	return errs
}

func validYear(y int) bool {
	return y >= 2000 && y <= 2100
}

func validateLine(i, planYear int, l BudgetLineImport, codes map[string]int) []error {
	var errs []error
	prefix := fmt.Sprintf("budget_lines[%d]", i)

	code := strings.TrimSpace(l.Code)
	if code == "" {
		errs = append(errs, fmt.Errorf("%s.code is required", prefix))
	}
	if strings.TrimSpace(l.Category) == "" {
		errs = append(errs, fmt.Errorf("%s.category is required", prefix))
	}

	year := planYear
	if l.Year != nil {
		year = *l.Year
	}
	if !validYear(year) {
		errs = append(errs, fmt.Errorf("%s: year %d out of range (set year on the plan or the line)", prefix, year))
	}

	if l.Cap == "" {
		errs = append(errs, fmt.Errorf("%s.cap is required", prefix))
	} else if c, err := decimal.NewFromString(string(l.Cap)); err != nil {
		errs = append(errs, fmt.Errorf("%s.cap: invalid amount %q", prefix, l.Cap))
	} else if c.IsNegative() {
		errs = append(errs, fmt.Errorf("%s.cap must not be negative", prefix))
	}

	if code != "" {
		if first, dup := codes[code]; dup {
			errs = append(errs, fmt.Errorf("%s.code %q duplicates budget_lines[%d]", prefix, code, first))
		} else {
			codes[code] = i
		}
	}
	return errs
}
