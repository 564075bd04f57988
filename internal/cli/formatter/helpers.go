package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a bordered box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(boxBorder).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Rupiah formats an amount with dot thousands separators, e.g. "Rp 50.000.000".
// Fractional amounts keep two decimals after a comma.
func Rupiah(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	digits, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "Rp " + sign + b.String()
	if frac != "00" {
		out += "," + frac
	}
	return out
}

// StatusPill returns a colored proposal status label.
func StatusPill(status domain.ProposalStatus) string {
	label := strings.ReplaceAll(string(status), "_", " ")
	return StatusStyle(status).Render("● " + label)
}

// PaymentStatusPill returns a colored payment status label.
func PaymentStatusPill(status domain.PaymentStatus) string {
	switch status {
	case domain.PaymentProcessing:
		return StyleYellow.Render("● processing")
	case domain.PaymentCompleted:
		return StyleGreen.Render("✔ completed")
	case domain.PaymentFailed:
		return StyleRed.Render("✖ failed")
	default:
		return StyleDim.Render("○ " + string(status))
	}
}

// RoleBadge returns a purple role label.
func RoleBadge(role domain.Role) string {
	return StylePurple.Render(string(role))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	return HumanDateFrom(t, time.Now())
}

// HumanDateFrom is HumanDate relative to now.
func HumanDateFrom(t, now time.Time) string {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today " + t.Format("15:04")
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday " + t.Format("15:04")
	}
	return t.Format("Jan 2, 2006 15:04")
}

func optTime(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return HumanDate(*t)
}

func optString(s *string) string {
	if s == nil || *s == "" {
		return Dim("--")
	}
	return *s
}

func fmtKV(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s %s\n", Dim(fmt.Sprintf("%-14s", key)), value)
}
