package cli

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/api/apitest"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

const testToken = "secret"

type env struct {
	srv      *apitest.Server
	fs       afero.Fs
	home     string
	out, err *bytes.Buffer
}

func setup(t *testing.T) *env {
	t.Helper()
	srv := apitest.New(t)
	srv.RequireToken(testToken)
	srv.Seed(
		model.Todo{ID: 1, Attributes: model.TodoAttributes{Title: "Buy milk", CreatedAt: apitest.Epoch}},
		model.Todo{ID: 2, Attributes: model.TodoAttributes{Title: "Walk dog", Completed: true, CreatedAt: apitest.Epoch.Add(time.Hour)}},
	)
	srv.SetMe(model.User{ID: 7, Username: "kim", Email: "kim@example.com"})

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TADA_BASEURL", srv.URL())
	t.Setenv("TADA_TOKEN", testToken)
	t.Setenv("TADA_THEME", "mono")
	t.Setenv("TADA_LANGUAGE", "en")
	t.Setenv("TADA_LOGFILE", filepath.Join(home, "tada.log"))

	e := &env{srv: srv, fs: afero.NewMemMapFs(), home: home, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	prevOut, prevErr := ui.Out, ui.Err
	ui.Out, ui.Err = e.out, e.err
	t.Cleanup(func() { ui.Out, ui.Err = prevOut, prevErr })
	return e
}

func (e *env) run(args ...string) int {
	e.out.Reset()
	e.err.Reset()
	return Run(args, Options{
		ConfigPath: filepath.Join(e.home, "missing.yaml"),
		FS:         e.fs,
	})
}

func TestHelp(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 0, e.run("help"))
	assert.Contains(t, e.out.String(), "Subcommands:")
}

func TestUnknownSubcommand(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 2, e.run("frobnicate"))
	assert.Contains(t, e.err.String(), "unknown subcommand: frobnicate")
}

func TestList(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("list"))

	out := e.out.String()
	assert.Contains(t, out, "Walk dog")
	assert.Contains(t, out, "Buy milk")
	assert.Less(t, strings.Index(out, "Walk dog"), strings.Index(out, "Buy milk"), "newest first")
}

func TestListFailure(t *testing.T) {
	e := setup(t)
	e.srv.Fail(http.MethodGet, "/todos", http.StatusInternalServerError, "boom")

	assert.Equal(t, 1, e.run("list"))
	assert.Contains(t, e.err.String(), "Failed to load the todo list.")
}

func TestAdd(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("add", "Call", "mom"))
	assert.Contains(t, e.out.String(), "added #3")

	todos := e.srv.Todos()
	require.Len(t, todos, 3)
	assert.Equal(t, "Call mom", todos[2].Title())
}

func TestAddUsage(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 2, e.run("add"))
	assert.Equal(t, 2, e.run("add", "   "))
}

func TestAddFailure(t *testing.T) {
	e := setup(t)
	e.srv.Fail(http.MethodPost, "/todos", http.StatusBadRequest, "title taken")

	assert.Equal(t, 1, e.run("add", "x"))
	assert.Contains(t, e.err.String(), "Failed to add the todo.")
	assert.Len(t, e.srv.Todos(), 2)
}

func TestDoneToggles(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("done", "1"))
	require.Equal(t, 0, e.run("done", "2"))

	byID := map[int]model.Todo{}
	for _, td := range e.srv.Todos() {
		byID[td.ID] = td
	}
	assert.True(t, byID[1].Done())
	assert.False(t, byID[2].Done())
}

func TestDoneUnknownID(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 2, e.run("done", "42"))
	assert.Contains(t, e.err.String(), "no item with id 42")
	assert.Equal(t, 2, e.run("done", "abc"))
}

func TestRename(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("rename", "1", "Buy", "oat", "milk"))
	assert.Equal(t, "Buy oat milk", e.srv.Todos()[0].Title())
}

func TestRemove(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("rm", "1"))
	todos := e.srv.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, 2, todos[0].ID)

	assert.Equal(t, 1, e.run("rm", "1"), "server answers 404 for a gone id")
	assert.Contains(t, e.err.String(), "Failed to delete the todo.")
}

func TestNetworkCommandsNeedToken(t *testing.T) {
	e := setup(t)
	t.Setenv(auth.TokenEnv, "")

	assert.Equal(t, 2, e.run("list"))
	assert.Contains(t, e.err.String(), "no token found")
	assert.Empty(t, e.srv.Requests())
}

func TestProfileShow(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("profile"))
	assert.Contains(t, e.out.String(), "kim@example.com")
}

func TestProfileEdit(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("profile", "edit", "-username", "lee", "-password", "pw"))
	assert.Contains(t, e.out.String(), "profile updated")

	u, ok := e.srv.User(7)
	require.True(t, ok)
	assert.Equal(t, "lee", u.Username)
	assert.Equal(t, "kim@example.com", u.Email)

	reqs := e.srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/users/7", last.Path)
	assert.Contains(t, string(last.Body), `"password":"pw"`)
}

func TestProfileEditImage(t *testing.T) {
	e := setup(t)
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`
	path := filepath.Join(e.home, "me.svg")
	require.NoError(t, afero.WriteFile(e.fs, path, []byte(svg), 0o600))

	require.Equal(t, 0, e.run("profile", "edit", "-image", path))
	u, _ := e.srv.User(7)
	assert.Equal(t, svg, u.ProfileImage)
}

func TestProfileEditBadImage(t *testing.T) {
	e := setup(t)
	path := filepath.Join(e.home, "notes.txt")
	require.NoError(t, afero.WriteFile(e.fs, path, []byte("just text"), 0o600))

	assert.Equal(t, 1, e.run("profile", "edit", "-image", path))
	assert.Contains(t, e.err.String(), "Failed to convert the image.")
	u, _ := e.srv.User(7)
	assert.Empty(t, u.ProfileImage)
}

func TestProfileEditServerMessage(t *testing.T) {
	e := setup(t)
	e.srv.Fail(http.MethodPut, "/users/7", http.StatusBadRequest, "Email already taken")

	assert.Equal(t, 1, e.run("profile", "edit", "-email", "x@example.com"))
	assert.Contains(t, e.err.String(), "Email already taken")
}

func TestProfileEditNothing(t *testing.T) {
	e := setup(t)
	assert.Equal(t, 2, e.run("profile", "edit"))
}

func TestAuthLoginStatusLogout(t *testing.T) {
	e := setup(t)
	t.Setenv(auth.TokenEnv, "")

	assert.Equal(t, 0, e.run("auth", "status"))
	assert.Contains(t, e.out.String(), "not logged in")

	code := Run([]string{"auth", "login"}, Options{
		ConfigPath: filepath.Join(e.home, "missing.yaml"),
		FS:         e.fs,
		In:         strings.NewReader("Bearer " + testToken + "\n"),
	})
	require.Equal(t, 0, code)

	require.Equal(t, 0, e.run("list"), "stored token is used")

	require.Equal(t, 0, e.run("auth", "status"))
	assert.Contains(t, e.out.String(), "source: file")

	require.Equal(t, 0, e.run("auth", "logout"))
	assert.Equal(t, 2, e.run("list"))
}

func TestAuthLogoutWithEnvToken(t *testing.T) {
	e := setup(t)
	require.Equal(t, 0, e.run("auth", "logout"))
	assert.Contains(t, e.out.String(), "nothing to delete")
}

func TestAuthWhoAmI(t *testing.T) {
	e := setup(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 7, "sub": "kim"}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	t.Setenv(auth.TokenEnv, tok)

	require.Equal(t, 0, e.run("auth", "whoami"))
	assert.Contains(t, e.out.String(), `"sub": "kim"`)

	t.Setenv(auth.TokenEnv, "opaque")
	require.Equal(t, 0, e.run("auth", "whoami"))
	assert.Contains(t, e.out.String(), "Opaque token")
}

func TestAuthStatusShowsUserID(t *testing.T) {
	e := setup(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 7}).SignedString([]byte("k"))
	require.NoError(t, err)
	t.Setenv(auth.TokenEnv, tok)

	require.Equal(t, 0, e.run("auth", "status"))
	assert.Contains(t, e.out.String(), "user id: 7")
}

func TestConfigInit(t *testing.T) {
	e := setup(t)
	path := filepath.Join(e.home, "missing.yaml")

	require.Equal(t, 0, e.run("config", "init"))
	assert.Contains(t, e.out.String(), "wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: "+e.srv.URL())

	assert.Equal(t, 1, e.run("config", "init"), "existing file is kept")
	assert.Contains(t, e.err.String(), "config already exists")

	require.Equal(t, 0, e.run("config"))
	assert.Contains(t, e.out.String(), e.srv.URL())
	assert.Equal(t, 2, e.run("config", "bogus"))
}
