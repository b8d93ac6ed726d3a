package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/i18n"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/profile"
	"github.com/idilsaglam/tada/internal/store/todostore"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/upload"
)

// app is everything one CLI invocation needs, scoped to that invocation.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     logging.Logger
	closer  io.Closer
	t       *i18n.Printer
	creds   *auth.Credentials
	client  *api.Client
	session *auth.Session
	store   *todostore.Store
	editor  *profile.Editor
}

func newApp(opt Options) (*app, error) {
	cfgPath := opt.ConfigPath
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	ui.SetTheme(cfg.Theme)

	log, closer, err := logging.New(logging.Options{Path: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Current().Muted.Render("logging disabled: "+err.Error()))
		log, closer = logging.Nop(), nil
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	fs := opt.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	creds := auth.NewCredentials(fs, dir)
	client := api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithTokenSource(creds),
		api.WithLogger(log),
	)
	session := auth.NewSession(client)
	a := &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log,
		closer:  closer,
		t:       i18n.New(cfg.Language),
		creds:   creds,
		client:  client,
		session: session,
		store:   todostore.New(client, todostore.WithLogger(log)),
		editor: profile.New(session, session,
			upload.NewSVGConverter(fs, cfg.MaxImageBytes),
			profile.WithLogger(log)),
	}
	return a, nil
}

func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// load fetches the todo collection and the signed-in user side by side.
// Todo failures land in the store; the user error is returned.
func (a *app) load(ctx context.Context, todos, user bool) error {
	var (
		wg      conc.WaitGroup
		userErr error
	)
	if todos {
		wg.Go(func() { a.store.FetchTodos(ctx) })
	}
	if user {
		wg.Go(func() { userErr = a.session.Refresh(ctx) })
	}
	wg.Wait()
	return userErr
}
