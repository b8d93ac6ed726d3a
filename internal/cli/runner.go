package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/i18n"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/profile"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Group      bool   // plain list grouped by pending/done
	ConfigPath string // empty means ~/.tada/config.yaml

	// In is where `auth login` reads the token from; nil means stdin.
	In io.Reader
	// FS backs credentials and image files; nil means the OS filesystem.
	FS afero.Fs
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := newApp(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer app.Close()

	switch cmd {
	case "config":
		switch {
		case len(a) == 0:
			return app.doConfigShow()
		case len(a) == 1 && a[0] == "init":
			return app.doConfigInit()
		}
		ui.Fail("usage: todo config [init]")
		return 2
	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return app.doAuthLogin(opt.In)
		case "logout":
			return app.doAuthLogout()
		case "status":
			return app.doAuthStatus()
		case "whoami":
			return app.doAuthWhoAmI()
		default:
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
	}

	// Everything below talks to the API.
	if code := app.ensureAuth(); code != 0 {
		return code
	}

	switch cmd {
	case "ls":
		return app.doInteractive(ctx)

	case "list":
		return app.doList(ctx, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: todo add <title...>")
			return 2
		}
		return app.doAdd(ctx, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: todo done <id>")
			return 2
		}
		id, ok := parseID("done", a[0])
		if !ok {
			return 2
		}
		return app.doToggle(ctx, id)

	case "rename":
		if len(a) < 2 {
			ui.Fail("usage: todo rename <id> <title...>")
			return 2
		}
		id, ok := parseID("rename", a[0])
		if !ok {
			return 2
		}
		return app.doRename(ctx, id, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: todo rm <id>")
			return 2
		}
		id, ok := parseID("rm", a[0])
		if !ok {
			return 2
		}
		return app.doRemove(ctx, id)

	case "profile":
		if len(a) > 0 && a[0] == "edit" {
			return app.doProfileEdit(ctx, a[1:])
		}
		if len(a) > 0 {
			ui.Fail("usage: todo profile [edit ...]")
			return 2
		}
		return app.doProfileShow(ctx)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Out, `todo - a tiny client for the todo API

Usage:
  todo [-group] [-config file] <subcommand> [args]

Subcommands:
  ls                       Interactive list (TUI)
  list                     Print the list
  add <title...>           Add a new item (title can be multiple words)
  done <id>                Toggle done for the item with that id
  rename <id> <title...>   Change an item's title
  rm <id>                  Remove the item with that id
  profile                  Show your profile
  profile edit [-username u] [-email e] [-password p] [-image file]
                           Edit your profile
  auth <login|logout|status|whoami>   Token authentication
  config [init]            Show settings, or write them to the config file

Environment:
  TADA_TOKEN, TADA_BASEURL, TADA_TIMEOUT, TADA_LANGUAGE, TADA_THEME, TADA_LOGFILE

Examples:
  todo add "Buy milk"
  todo list
  todo done 2
  todo rm 3
`)
}

func parseID(cmd, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		ui.Fail(cmd + ": not a valid id: " + s)
		return 0, false
	}
	return n, true
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

// Require a token for networked commands.
func (a *app) ensureAuth() int {
	ti, _ := a.creds.Get()
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		ui.Fail("no token found. Set " + auth.TokenEnv + " or run `todo auth login`")
		return 2
	}
	return 0
}

func (a *app) doAuthLogin(in io.Reader) int {
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprint(ui.Out, "Paste your token: ")
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		err := sc.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := a.creds.Set(sc.Text(), nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func (a *app) doAuthLogout() int {
	ti, _ := a.creds.Get()
	if ti != nil && ti.Source == auth.SourceEnv {
		ui.OK("token is provided by " + auth.TokenEnv + " env var (nothing to delete)")
		return 0
	}
	if err := a.creds.Delete(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func (a *app) doAuthStatus() int {
	ti, err := a.creds.Get()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(ui.Out, ui.Current().Muted.Render("not logged in"))
		fmt.Fprintln(ui.Out, "Run: todo auth login")
		return 0
	}
	fmt.Fprintf(ui.Out, "source: %s\n", ti.Source)
	if cl, err := auth.ParseClaims(ti.Token); err == nil {
		if id, ok := cl.UserID(); ok {
			fmt.Fprintf(ui.Out, "user id: %d\n", id)
		}
	}
	if ti.ExpiresAt != nil {
		fmt.Fprintf(ui.Out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Fprintln(ui.Out, "expires: (unknown)")
	}
	fmt.Fprintln(ui.Out, "api: "+a.cfg.BaseURL)
	fmt.Fprintln(ui.Out, "env override: "+auth.TokenEnv)
	return 0
}

// whoami decodes the JWT payload locally (unverified); opaque tokens print basic info.
func (a *app) doAuthWhoAmI() int {
	ti, _ := a.creds.Get()
	if ti == nil {
		ui.Fail("not logged in. Run: todo auth login")
		return 2
	}
	payload, err := auth.PayloadJSON(ti.Token)
	if err == nil {
		fmt.Fprintln(ui.Out, "JWT payload:")
		fmt.Fprintln(ui.Out, payload)
		return 0
	}
	fmt.Fprintln(ui.Out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(ui.Out, "source:", ti.Source)
	return 0
}

// ---------------------------------------------------
// Config subcommands
// ---------------------------------------------------

func (a *app) doConfigShow() int {
	ui.Panel([]string{
		ui.Current().Title.Render("config"),
		"",
		ui.Field("file", a.cfgPath),
		ui.Field("base_url", a.cfg.BaseURL),
		ui.Field("timeout", a.cfg.Timeout.String()),
		ui.Field("language", a.cfg.Language),
		ui.Field("theme", a.cfg.Theme),
		ui.Field("log_file", a.cfg.LogFile),
	})
	return 0
}

// doConfigInit writes the effective settings so they can be edited by hand.
// An existing file is never overwritten.
func (a *app) doConfigInit() int {
	if _, err := os.Stat(a.cfgPath); err == nil {
		ui.Fail("config already exists: " + a.cfgPath)
		return 1
	}
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK("wrote " + a.cfgPath)
	return 0
}

// ---------------------------------------------------
// Todo subcommands (remote CRUD through the store)
// ---------------------------------------------------

// storeFailed reports the store's error state, if any.
func (a *app) storeFailed() bool {
	if f := a.store.Err(); f != nil {
		ui.Fail(a.t.Failure(f))
		return true
	}
	return false
}

func (a *app) doInteractive(ctx context.Context) int {
	if err := a.load(ctx, false, true); err != nil {
		a.log.Warnf("load user: %v", err)
	}
	deps := tui.Deps{Store: a.store, Editor: a.editor, Users: a.session, Printer: a.t}
	if err := tui.Run(ctx, deps); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (a *app) doList(ctx context.Context, opt Options) int {
	a.store.FetchTodos(ctx)
	if a.storeFailed() {
		return 1
	}
	todos := a.store.Todos()
	d, p := model.Stats(todos)

	var lines []string
	lines = append(lines, ui.Header(a.t.T(i18n.MsgTodos), d, p))
	lines = append(lines, ui.Current().Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	if opt.Group {
		lines = append(lines, ui.GroupLines(todos, a.t.T(i18n.MsgNoItems))...)
	} else {
		lines = append(lines, ui.FlatLines(todos, a.t.T(i18n.MsgNoItems))...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.Current().Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func (a *app) doAdd(ctx context.Context, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	a.store.AddTodo(ctx, model.CreateTodoInput{Title: title})
	if a.storeFailed() {
		return 1
	}
	added := a.store.Todos()[0]
	ui.OK(fmt.Sprintf("added #%d", added.ID))
	return 0
}

// lookup loads the collection and finds id in it.
func (a *app) lookup(ctx context.Context, id int) (model.Todo, int) {
	a.store.FetchTodos(ctx)
	if a.storeFailed() {
		return model.Todo{}, 1
	}
	t, ok := a.store.Todo(id)
	if !ok {
		ui.Fail(fmt.Sprintf("no item with id %d", id))
		fmt.Fprintln(ui.Err, ui.Current().Muted.Render("Hint: run `todo list` to see valid ids"))
		return model.Todo{}, 2
	}
	return t, 0
}

func (a *app) doToggle(ctx context.Context, id int) int {
	t, code := a.lookup(ctx, id)
	if code != 0 {
		return code
	}
	done := !t.Done()
	a.store.UpdateTodo(ctx, id, model.UpdateTodoInput{Completed: &done})
	if a.storeFailed() {
		return 1
	}
	ui.OK("toggled")
	return 0
}

func (a *app) doRename(ctx context.Context, id int, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("rename: empty title")
		return 2
	}
	if _, code := a.lookup(ctx, id); code != 0 {
		return code
	}
	a.store.UpdateTodo(ctx, id, model.UpdateTodoInput{Title: &title})
	if a.storeFailed() {
		return 1
	}
	ui.OK("renamed")
	return 0
}

func (a *app) doRemove(ctx context.Context, id int) int {
	a.store.DeleteTodo(ctx, id)
	if a.storeFailed() {
		return 1
	}
	ui.OK("removed")
	return 0
}

// ---------------------------------------------------
// Profile subcommands
// ---------------------------------------------------

func (a *app) printProfile() {
	u := a.session.CurrentUser()
	if u == nil {
		u = &model.User{}
	}
	ui.Panel([]string{
		ui.Current().Title.Render(a.t.T(i18n.MsgProfileTitle)),
		"",
		ui.Field(a.t.T(i18n.MsgUsername), u.Username),
		ui.Field(a.t.T(i18n.MsgEmail), u.Email),
		ui.Field(a.t.T(i18n.MsgImage), ui.ImageSummary(u.ProfileImage)),
	})
}

func (a *app) doProfileShow(ctx context.Context) int {
	if err := a.load(ctx, false, true); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	a.printProfile()
	return 0
}

func (a *app) doProfileEdit(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("profile edit", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	username := fs.String("username", "", "new username")
	email := fs.String("email", "", "new email")
	password := fs.String("password", "", "new password")
	image := fs.String("image", "", "image file to use as profile picture")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *username == "" && *email == "" && *password == "" && *image == "" {
		ui.Fail("profile edit: nothing to change")
		return 2
	}

	if err := a.load(ctx, false, true); err != nil {
		ui.Fail(err.Error())
		return 1
	}

	ed := a.editor
	if err := ed.Edit(); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	_ = ed.Change(func(d *model.ProfileDraft) {
		if *username != "" {
			d.Username = *username
		}
		if *email != "" {
			d.Email = *email
		}
		d.Password = *password
	})
	if *image != "" {
		_ = ed.ChooseImage(ctx, *image)
		if f := ed.Err(); f != nil {
			ui.Fail(a.t.Failure(f))
			_ = ed.Cancel()
			return 1
		}
	}

	if err := ed.Submit(ctx); err != nil && !errors.Is(err, profile.ErrWrongMode) {
		ui.Fail(err.Error())
		return 1
	}
	if f := ed.Err(); f != nil {
		ui.Fail(a.t.Failure(f))
		return 1
	}
	ui.OK("profile updated")
	a.printProfile()
	return 0
}
