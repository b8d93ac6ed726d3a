// Package tui is the interactive Bubble Tea front end. It owns no todo or
// profile state of its own: every action runs a store or editor operation
// as a command and the view re-reads their state when it completes or
// when the store reports a change.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/i18n"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/profile"
	"github.com/idilsaglam/tada/internal/store/todostore"
	"github.com/idilsaglam/tada/internal/ui"
)

// Deps are the session-scoped units the TUI drives.
type Deps struct {
	Store   *todostore.Store
	Editor  *profile.Editor
	Users   profile.UserSource
	Printer *i18n.Printer
}

type screen int

const (
	screenTodos screen = iota
	screenProfile
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputRename
)

// storeDoneMsg reports that a store operation finished.
type storeDoneMsg struct{}

// storeChangedMsg reports a store state change seen through Subscribe.
type storeChangedMsg struct{}

// deletedMsg reports a delete the server confirmed; it arms undo.
type deletedMsg struct{ todo model.Todo }

// profileDoneMsg reports that an editor operation finished.
type profileDoneMsg struct{}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind    = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	refreshBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	profileBind = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile"))
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	deps Deps
	t    *i18n.Printer

	screen  screen
	width   int
	height  int
	spinner spinner.Model

	// todos screen
	list  list.Model
	input inputMode
	ti    textinput.Model
	// id of the todo being renamed
	renameID int
	inputErr string
	// last todo the server confirmed deleted, re-created by undo
	undo *model.Todo

	// profile screen
	prof profileView
}

// New builds the root model. ctx bounds every operation the TUI starts.
func New(ctx context.Context, deps Deps) Model {
	l := list.New(toItems(deps.Store.Todos()), itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding {
		return []key.Binding{addBind, editBind, toggleBind, deleteBind, undoBind, refreshBind, profileBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		deps:    deps,
		t:       deps.Printer,
		list:    l,
		ti:      ti,
		spinner: sp,
		width:   80,
		height:  24,
		prof:    newProfileView(deps.Printer),
	}
	m.refreshTitle()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	stop := watchStore(deps.Store, p.Send)
	defer stop()
	_, err := p.Run()
	return err
}

// watchStore forwards store changes to send as storeChangedMsg until stop
// is called. Bursts of changes collapse into one message; the receiver
// re-reads the store anyway.
func watchStore(store *todostore.Store, send func(tea.Msg)) (stop func()) {
	changed := make(chan struct{}, 1)
	done := make(chan struct{})
	unsubscribe := store.Subscribe(func(todostore.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-changed:
				send(storeChangedMsg{})
			}
		}
	}()
	return func() {
		unsubscribe()
		close(done)
	}
}

// Init loads the collection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.storeCmd(m.deps.Store.FetchTodos), m.spinner.Tick)
}

func (m Model) storeCmd(op func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		op(ctx)
		return storeDoneMsg{}
	}
}

func (m Model) profileCmd(op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return profileDoneMsg{}
	}
}

func (m *Model) syncList() tea.Cmd {
	cmd := m.list.SetItems(toItems(m.deps.Store.Todos()))
	m.refreshTitle()
	return cmd
}

func (m *Model) refreshTitle() {
	done, pending := m.deps.Store.Stats()
	m.list.Title = headerTitle(m.t.T(i18n.MsgTodos), done, pending)
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case storeDoneMsg, storeChangedMsg:
		return m, m.syncList()
	case deletedMsg:
		t := msg.todo
		m.undo = &t
		return m, m.syncList()
	case profileDoneMsg:
		m.prof.sync(m.deps.Editor.State())
		return m, nil
	}

	if m.screen == screenProfile {
		return m.updateProfile(msg)
	}
	return m.updateTodos(msg)
}

func (m *Model) resize() {
	listHeight := m.height - 6
	if m.input != inputNone {
		listHeight -= 3
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)
}

func (m Model) updateTodos(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		return m.updateInput(msg)
	}

	km, isKey := msg.(tea.KeyMsg)
	if !isKey || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	store := m.deps.Store
	switch km.String() {
	case "q", "esc", "ctrl+c":
		if km.String() == "esc" && m.list.FilterState() != list.Unfiltered {
			break
		}
		return m, tea.Quit
	case " ":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		done := !t.Done()
		return m, m.storeCmd(func(ctx context.Context) {
			store.UpdateTodo(ctx, t.ID, model.UpdateTodoInput{Completed: &done})
		})
	case "d":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		ctx := m.ctx
		return m, func() tea.Msg {
			store.DeleteTodo(ctx, t.ID)
			if store.Err() != nil {
				return storeDoneMsg{}
			}
			return deletedMsg{todo: t}
		}
	case "u":
		if m.undo == nil {
			return m, nil
		}
		a := m.undo.Attributes
		m.undo = nil
		return m, m.storeCmd(func(ctx context.Context) {
			store.AddTodo(ctx, model.CreateTodoInput{Title: a.Title, Description: a.Description, Completed: a.Completed})
		})
	case "r":
		return m, m.storeCmd(store.FetchTodos)
	case "a":
		m.startInput(inputAdd, "", m.t.T(i18n.MsgNewItemHint))
		return m, nil
	case "e":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.renameID = t.ID
		m.startInput(inputRename, t.Title(), m.t.T(i18n.MsgEditItemHint))
		return m, nil
	case "p":
		m.screen = screenProfile
		m.prof.sync(m.deps.Editor.State())
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) startInput(mode inputMode, value, placeholder string) {
	m.input = mode
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize()
}

func (m *Model) stopInput() {
	m.input = inputNone
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = m.t.T(i18n.MsgEmptyTitle)
				return m, nil
			}
			store := m.deps.Store
			var cmd tea.Cmd
			if m.input == inputAdd {
				cmd = m.storeCmd(func(ctx context.Context) {
					store.AddTodo(ctx, model.CreateTodoInput{Title: title})
				})
			} else {
				id := m.renameID
				cmd = m.storeCmd(func(ctx context.Context) {
					store.UpdateTodo(ctx, id, model.UpdateTodoInput{Title: &title})
				})
			}
			m.stopInput()
			return m, cmd
		case "esc":
			m.stopInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.screen == screenProfile {
		return m.viewProfile()
	}
	snap := m.deps.Store.Snapshot()

	content := m.list.View()
	if m.input != inputNone {
		title := m.t.T(i18n.MsgAddItem)
		if m.input == inputRename {
			title = m.t.T(i18n.MsgEditItem)
		}
		if m.inputErr != "" {
			title += " - " + errorStyle().Render(m.inputErr)
		}
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	content += "\n" + m.statusLine(snap.Loading, m.t.Failure(snap.Err))
	return panelString(content)
}

func (m Model) statusLine(loading bool, errText string) string {
	switch {
	case errText != "":
		return errorStyle().Render(errText)
	case loading:
		return m.spinner.View() + " " + mutedStyle().Render(m.t.T(i18n.MsgLoading))
	}
	return ""
}
