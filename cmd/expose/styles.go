package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

// Colors
var (
	colorAccent  = lipgloss.Color("#3B82F6") // Lighthouse blue
	colorDim     = lipgloss.Color("#6B7280") // Gray for dimmed text
	colorSuccess = lipgloss.Color("#10B981") // Green for completed steps
	colorError   = lipgloss.Color("#EF4444") // Red for errors
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	DimmedStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)
)

// RenderEvent formats one status line: marker, optional step tag, message.
func RenderEvent(e domain.StatusEvent) string {
	var marker string
	switch e.Severity {
	case domain.SeveritySuccess:
		marker = SuccessStyle.Render("✓")
	case domain.SeverityError:
		marker = ErrorStyle.Render("✗")
	default:
		marker = DimmedStyle.Render("•")
	}

	tag := "     "
	if e.Step > 0 {
		tag = DimmedStyle.Render(fmt.Sprintf("[%d/%d]", e.Step, domain.StepComplete))
	}
	return fmt.Sprintf("%s %s %s", marker, tag, e.Message)
}
