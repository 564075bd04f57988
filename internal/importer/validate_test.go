package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlan() *PlanSchema {
	return &PlanSchema{
		Year: 2026,
		BudgetLines: []BudgetLineImport{
			{Code: "5.2.1", Category: "Sarana dan Prasarana", Cap: "100000000"},
			{Code: "5.2.2", Category: "Kegiatan Siswa", Cap: "25000000.50"},
		},
		Users: []UserImport{
			{Name: "Siti", Role: "pengusul"},
			{Name: "Rina", Role: "bendahara"},
		},
	}
}

func TestValidatePlan_Valid(t *testing.T) {
	assert.Empty(t, ValidatePlan(validPlan()))
}

func TestValidatePlan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlanSchema)
		want   string
	}{
		{"empty plan", func(s *PlanSchema) { s.BudgetLines, s.Users = nil, nil }, "no budget_lines"},
		{"plan year range", func(s *PlanSchema) { s.Year = 1999 }, "year 1999 out of range"},
		{"missing code", func(s *PlanSchema) { s.BudgetLines[0].Code = " " }, "budget_lines[0].code is required"},
		{"missing category", func(s *PlanSchema) { s.BudgetLines[1].Category = "" }, "budget_lines[1].category is required"},
		{"missing cap", func(s *PlanSchema) { s.BudgetLines[0].Cap = "" }, "budget_lines[0].cap is required"},
		{"bad cap", func(s *PlanSchema) { s.BudgetLines[0].Cap = "seratus" }, "invalid amount"},
		{"negative cap", func(s *PlanSchema) { s.BudgetLines[0].Cap = "-1" }, "must not be negative"},
		{"duplicate code", func(s *PlanSchema) { s.BudgetLines[1].Code = "5.2.1" }, `duplicates budget_lines[0]`},
		{"unknown role", func(s *PlanSchema) { s.Users[0].Role = "guru" }, `users[0].role: invalid value "guru"`},
		{"user name", func(s *PlanSchema) { s.Users[1].Name = "" }, "users[1].name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validPlan()
			tt.mutate(s)
			errs := ValidatePlan(s)
			require.NotEmpty(t, errs)
			var msgs []string
			for _, e := range errs {
				msgs = append(msgs, e.Error())
			}
			assert.Contains(t, strings.Join(msgs, "\n"), tt.want)
		})
	}
}

func TestValidatePlan_LineYearOverridesPlan(t *testing.T) {
	s := validPlan()
	s.Year = 0
	y := 2027
	for i := range s.BudgetLines {
		s.BudgetLines[i].Year = &y
	}
	assert.Empty(t, ValidatePlan(s))

	s.BudgetLines[0].Year = nil
	assert.NotEmpty(t, ValidatePlan(s))
}

func TestValidatePlan_CollectsAllErrors(t *testing.T) {
	s := validPlan()
	s.BudgetLines[0].Code = ""
	s.BudgetLines[1].Cap = "x"
	s.Users[0].Role = ""
	assert.Len(t, ValidatePlan(s), 3)
}
