package tui

import (
	"context"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/api/apitest"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/i18n"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/profile"
	"github.com/idilsaglam/tada/internal/store/todostore"
	"github.com/idilsaglam/tada/internal/upload"
)

type harness struct {
	srv     *apitest.Server
	store   *todostore.Store
	editor  *profile.Editor
	session *auth.Session
	m       Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	srv := apitest.New(t)
	srv.Seed(
		model.Todo{ID: 1, Attributes: model.TodoAttributes{Title: "older", CreatedAt: apitest.Epoch}},
		model.Todo{ID: 2, Attributes: model.TodoAttributes{Title: "newer", CreatedAt: apitest.Epoch.Add(time.Hour)}},
	)
	srv.SetMe(model.User{ID: 5, Username: "kim", Email: "kim@example.com"})

	client := api.NewClient(srv.URL())
	store := todostore.New(client)
	session := auth.NewSession(client)
	require.NoError(t, session.Refresh(ctx))
	editor := profile.New(session, session, upload.NewSVGConverter(afero.NewMemMapFs(), 1024))

	m := New(ctx, Deps{Store: store, Editor: editor, Users: session, Printer: i18n.New("en")})
	h := &harness{srv: srv, store: store, editor: editor, session: session, m: m}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.run(m.storeCmd(store.FetchTodos))
	return h
}

// send delivers msg and returns the command Update produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// run executes cmd synchronously and feeds its message back.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	h.send(cmd())
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestListShowsFetchedTodos(t *testing.T) {
	h := newHarness(t)
	items := h.m.list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].(todoItem).todo.ID, "newest first")
	assert.Contains(t, h.m.View(), "newer")
}

func TestDeleteAndUndo(t *testing.T) {
	h := newHarness(t)

	h.run(h.send(keyPress("d")))
	assert.Len(t, h.m.list.Items(), 1)
	assert.Len(t, h.srv.Todos(), 1)

	h.run(h.send(keyPress("u")))
	require.Len(t, h.m.list.Items(), 2)
	assert.Equal(t, "newer", h.m.list.Items()[0].(todoItem).todo.Title())
	assert.Nil(t, h.send(keyPress("u")), "undo is single-level")
}

func TestToggle(t *testing.T) {
	h := newHarness(t)
	h.run(h.send(keyPress(" ")))

	got, ok := h.store.Todo(2)
	require.True(t, ok)
	assert.True(t, got.Done())
	assert.True(t, h.m.list.Items()[0].(todoItem).todo.Done())
}

func TestInlineAddAndRename(t *testing.T) {
	h := newHarness(t)

	h.send(keyPress("a"))
	h.send(keyPress("enter"))
	assert.Equal(t, i18n.MsgEmptyTitle, h.m.inputErr)

	h.typeText("Write tests")
	h.run(h.send(keyPress("enter")))
	require.Len(t, h.m.list.Items(), 3)
	assert.Equal(t, "Write tests", h.m.list.Items()[0].(todoItem).todo.Title())
	assert.Equal(t, inputNone, h.m.input)

	h.send(keyPress("e"))
	assert.Equal(t, inputRename, h.m.input)
	h.m.ti.SetValue("Write more tests")
	h.run(h.send(keyPress("enter")))
	assert.Equal(t, "Write more tests", h.m.list.Items()[0].(todoItem).todo.Title())
}

func TestFailureIsRendered(t *testing.T) {
	h := newHarness(t)
	h.srv.Fail(http.MethodDelete, "/todos/2", http.StatusInternalServerError, "db down")

	h.run(h.send(keyPress("d")))
	assert.Len(t, h.m.list.Items(), 2)
	assert.Contains(t, h.m.View(), i18n.MsgDeleteTodo)
}

func TestFailedDeleteCannotBeUndone(t *testing.T) {
	h := newHarness(t)
	h.srv.Fail(http.MethodDelete, "/todos/2", http.StatusInternalServerError, "db down")

	h.run(h.send(keyPress("d")))
	h.srv.Recover()
	h.run(h.send(keyPress("u")))

	assert.Len(t, h.srv.Todos(), 2)
	assert.Len(t, h.m.list.Items(), 2)
	assert.Nil(t, h.m.undo)
}

func TestStoreChangesReachTheView(t *testing.T) {
	h := newHarness(t)
	msgs := make(chan tea.Msg, 8)
	stop := watchStore(h.store, func(msg tea.Msg) { msgs <- msg })
	defer stop()

	h.srv.Seed(model.Todo{ID: 9, Attributes: model.TodoAttributes{Title: "from elsewhere", CreatedAt: apitest.Epoch.Add(2 * time.Hour)}})
	h.store.FetchTodos(context.Background())

	select {
	case msg := <-msgs:
		require.IsType(t, storeChangedMsg{}, msg)
		h.send(msg)
	case <-time.After(time.Second):
		t.Fatal("no change forwarded")
	}
	require.Len(t, h.m.list.Items(), 1)
	assert.Equal(t, "from elsewhere", h.m.list.Items()[0].(todoItem).todo.Title())
}

func TestProfileCancelDiscardsDraft(t *testing.T) {
	h := newHarness(t)
	h.send(keyPress("p"))
	assert.Equal(t, screenProfile, h.m.screen)
	assert.Contains(t, h.m.View(), "kim@example.com")

	h.send(keyPress("e"))
	require.Equal(t, profile.Editing, h.editor.Mode())
	h.typeText("zz")
	assert.Contains(t, h.editor.Draft().Username, "zz")

	h.send(keyPress("esc"))
	assert.Equal(t, profile.Viewing, h.editor.Mode())
	assert.Equal(t, "kim", h.editor.Draft().Username)

	h.send(keyPress("esc"))
	assert.Equal(t, screenTodos, h.m.screen)
}

func TestProfileSubmit(t *testing.T) {
	h := newHarness(t)
	h.send(keyPress("p"))
	h.send(keyPress("e"))
	h.typeText("2")

	h.run(h.send(keyPress("enter")))
	assert.Equal(t, profile.Viewing, h.editor.Mode())

	u, ok := h.srv.User(5)
	require.True(t, ok)
	assert.Equal(t, h.editor.Draft().Username, u.Username)
	assert.Contains(t, u.Username, "2")
	assert.Equal(t, u.Username, h.session.CurrentUser().Username)
	assert.Nil(t, h.editor.Err())
}
