package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out and Err are where the one-shot CLI prints.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

func OK(msg string)   { fmt.Fprintln(Out, current.Success.Render(current.SymOK+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, current.Error.Render(current.SymFail+" "+msg)) }

// PanelString frames lines with the current theme's border.
func PanelString(inner string) string {
	st := lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1)
	return st.Render(inner)
}

// Panel prints a framed box.
func Panel(lines []string) {
	fmt.Fprintln(Out, PanelString(strings.Join(lines, "\n")))
}

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
