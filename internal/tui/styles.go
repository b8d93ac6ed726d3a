package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/ui"
)

func errorStyle() lipgloss.Style { return ui.Current().Error }
func mutedStyle() lipgloss.Style { return ui.Current().Muted }

func panelString(inner string) string { return ui.PanelString(inner) }

func headerTitle(title string, done, pending int) string {
	return ui.Header(title, done, pending)
}
