package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/rkam/internal/domain"
)

const usageBarWidth = 10

func usage(b *domain.BudgetLine) float64 {
	if b.Cap.IsZero() {
		return 0
	}
	pct, _ := b.Consumed.Div(b.Cap).Float64()
	return pct
}

// FormatBudgetLines renders the ledger as a table.
func FormatBudgetLines(lines []*domain.BudgetLine) string {
	if len(lines) == 0 {
		return Dim("No budget lines found.") + "\n"
	}
	headers := []string{"CODE", "CATEGORY", "YEAR", "CAP", "CONSUMED", "REMAINING", "USAGE"}
	rows := make([][]string, 0, len(lines))
	for _, b := range lines {
		rows = append(rows, []string{
			Bold(b.Code),
			b.Category,
			strconv.Itoa(b.Year),
			Rupiah(b.Cap),
			Rupiah(b.Consumed),
			Rupiah(b.Remaining()),
			RenderUsage(usage(b), usageBarWidth),
		})
	}
	return RenderBox("Budget", RenderTable(headers, rows))
}

// FormatBudgetLine renders one ledger line.
func FormatBudgetLine(b *domain.BudgetLine) string {
	var sb strings.Builder
	fmtKV(&sb, "ID", b.ID)
	fmtKV(&sb, "Code", Bold(b.Code))
	fmtKV(&sb, "Category", b.Category)
	fmtKV(&sb, "Year", strconv.Itoa(b.Year))
	fmtKV(&sb, "Cap", Rupiah(b.Cap))
	fmtKV(&sb, "Consumed", Rupiah(b.Consumed))
	fmtKV(&sb, "Remaining", Rupiah(b.Remaining()))
	fmtKV(&sb, "Usage", RenderUsage(usage(b), 20))
	return RenderBox("Budget line", sb.String())
}

// FormatUsers renders the user directory.
func FormatUsers(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users found.") + "\n"
	}
	headers := []string{"ID", "NAME", "ROLE"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, Bold(u.Name), RoleBadge(u.Role)})
	}
	return RenderTable(headers, rows)
}
