package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// todoItem adapts model.Todo to bubbles/list.Item
type todoItem struct {
	todo model.Todo
}

func (i todoItem) Title() string       { return i.todo.Title() }
func (i todoItem) Description() string { return i.todo.Attributes.Description }
func (i todoItem) FilterValue() string { return i.todo.Title() }

func toItems(todos []model.Todo) []list.Item {
	out := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		out = append(out, todoItem{todo: t})
	}
	return out
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+ui.TodoLine(it.todo))
}
