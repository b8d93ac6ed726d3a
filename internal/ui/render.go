package ui

import (
	"fmt"

	"github.com/idilsaglam/tada/internal/model"
)

const maxTitle = 80

// Header is the "Todos ✔ 1 • 2 Total 3" line.
func Header(title string, done, pending int) string {
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		current.Title.Render(title),
		current.Success.Render(current.SymDone), done,
		current.Pending.Render(current.SymPending), pending,
		current.Accent.Render("Total"), done+pending,
	)
}

// TodoLine renders one todo as "#id ☐ title".
func TodoLine(t model.Todo) string {
	box := current.Muted.Render(current.BoxUnchecked)
	title := Truncate(t.Title(), maxTitle)
	if t.Done() {
		box = current.Success.Render(current.BoxChecked)
		title = current.Done.Render(title)
	}
	return fmt.Sprintf("%s %s %s", current.Muted.Render(fmt.Sprintf("#%-3d", t.ID)), box, title)
}

// FlatLines renders todos in collection order.
func FlatLines(todos []model.Todo, empty string) []string {
	if len(todos) == 0 {
		return []string{current.Muted.Render(empty)}
	}
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, TodoLine(t))
	}
	return out
}

// GroupLines renders pending todos, then done ones.
func GroupLines(todos []model.Todo, empty string) []string {
	var pend, done []model.Todo
	for _, t := range todos {
		if t.Done() {
			done = append(done, t)
		} else {
			pend = append(pend, t)
		}
	}
	var lines []string
	lines = append(lines, current.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, current.Muted.Render("(none)"))
	} else {
		lines = append(lines, FlatLines(pend, empty)...)
	}
	lines = append(lines, "")
	lines = append(lines, current.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, current.Muted.Render("(none)"))
	} else {
		lines = append(lines, FlatLines(done, empty)...)
	}
	return lines
}

// Field renders a "label  value" row.
func Field(label, value string) string {
	return fmt.Sprintf("%s  %s", current.Muted.Render(fmt.Sprintf("%-14s", label)), value)
}

// ImageSummary describes an image payload without dumping it.
func ImageSummary(payload string) string {
	if payload == "" {
		return current.Muted.Render("(none)")
	}
	return fmt.Sprintf("svg, %d bytes", len(payload))
}

// Truncate shortens s to n runes with a trailing ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}
