package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  lipgloss.Style
	StyleYellow lipgloss.Style
	StyleRed    lipgloss.Style
	StyleBlue   lipgloss.Style
	StylePurple lipgloss.Style
	StyleDim    lipgloss.Style
	StyleFg     lipgloss.Style
	StyleHeader lipgloss.Style
	StyleBold   lipgloss.Style

	boxBorder = lipgloss.RoundedBorder()
)

func init() {
	SetPlain(false)
}

// SetPlain switches every style to unstyled output. Used when stdout is not
// a terminal.
func SetPlain(plain bool) {
	if plain {
		none := lipgloss.NewStyle()
		StyleGreen, StyleYellow, StyleRed, StyleBlue, StylePurple = none, none, none, none, none
		StyleDim, StyleFg, StyleHeader, StyleBold = none, none, none, none
		boxBorder = lipgloss.HiddenBorder()
		return
	}
	StyleGreen = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	boxBorder = lipgloss.RoundedBorder()
}

// StatusStyle returns the style used for a proposal status.
func StatusStyle(status domain.ProposalStatus) lipgloss.Style {
	switch status {
	case domain.ProposalDraft:
		return StyleDim
	case domain.ProposalSubmitted, domain.ProposalVerified:
		return StyleBlue
	case domain.ProposalApproved, domain.ProposalFinalApproved:
		return StylePurple
	case domain.ProposalPaymentProcessing:
		return StyleYellow
	case domain.ProposalCompleted:
		return StyleGreen
	case domain.ProposalRejected:
		return StyleRed
	default:
		return StyleFg
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
