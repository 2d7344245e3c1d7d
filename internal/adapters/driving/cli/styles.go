package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// Palette for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	passStyle    = lipgloss.NewStyle().Foreground(colourSuccess)
	failStyle    = lipgloss.NewStyle().Foreground(colourError)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
)

// verdictStyle returns the style for an approval status.
func verdictStyle(status domain.ApprovalStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch status {
	case domain.ApprovalStatusApproved:
		return base.Foreground(colourSuccess)
	case domain.ApprovalStatusRejected:
		return base.Foreground(colourError)
	default:
		return base.Foreground(colourWarning)
	}
}

// checkMark renders a pass or fail marker for a rule check.
func checkMark(passed bool) string {
	if passed {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}
