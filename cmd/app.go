package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/manucho/restate/internal"
	"github.com/manucho/restate/internal/export"
	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in; run `restate login` first")

// openBrowser is replaced in tests
var openBrowser internal.BrowserOpener = internal.OpenBrowser

// app is the per-invocation wiring shared by the subcommands
type app struct {
	cfg    *internal.Config
	store  *internal.SQLiteSessionStore
	client *internal.Client
	svc    *internal.Service
	state  *internal.AppState

	refreshed  chan error
	refreshErr error
	refreshOne sync.Once
}

// newApp loads config and the session store; extra options are applied
// after the defaults
func newApp(cmd *cobra.Command, extra ...internal.ServiceOption) (*app, error) {
	path, explicit := configPath, configPath != ""
	if !explicit {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path, explicit, os.Getenv)
	if err != nil {
		return nil, err
	}

	dbPath := sessionPath
	if dbPath == "" {
		if dbPath, err = internal.DefaultSessionDBPath(); err != nil {
			return nil, err
		}
	}
	store, err := internal.OpenSessionStore(dbPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		client: internal.NewClient(cfg, internal.WithTimeout(timeout)),
		state:  internal.NewAppState(),
	}
	errOut := cmd.ErrOrStderr()
	opts := append([]internal.ServiceOption{
		internal.WithSessionStore(store),
		internal.WithAppState(a.state),
		internal.WithBrowser(openBrowser),
		internal.WithLoginNotifier(func(url string) {
			internal.PrintInfo(errOut, "Opening your browser to sign in. If it does not open, visit:\n  "+url)
		}),
	}, extra...)
	a.svc = internal.NewService(a.client, cfg, opts...)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("Failed to close session store: %v", err)
	}
}

// withApp builds the app for cmd, runs fn and tears the app down
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

// gated starts the identity check and runs content behind the session gate
func (a *app) gated(ctx context.Context, content func(ctx context.Context) error) error {
	a.refreshed = make(chan error, 1)
	go func() {
		a.refreshed <- a.state.Refresh(ctx, a.svc)
	}()

	gate := &internal.SessionGate{
		State:       a.state,
		Placeholder: internal.SpinnerPlaceholder("Checking session..."),
	}
	return gate.Render(ctx, content)
}

// refreshResult returns the outcome of the identity check started by gated
func (a *app) refreshResult() error {
	a.refreshOne.Do(func() {
		if a.refreshed != nil {
			a.refreshErr = <-a.refreshed
		}
	})
	return a.refreshErr
}

// requireLogin returns the signed-in identity or explains why there is none
func (a *app) requireLogin(ctx context.Context) (*internal.Identity, error) {
	if state := internal.AppStateFrom(ctx); state != nil && state.IsLoggedIn() {
		return state.User(), nil
	}
	if err := a.refreshResult(); err != nil {
		return nil, fmt.Errorf("could not check session: %w", err)
	}
	return nil, errNotSignedIn
}

// render writes v in the selected output format; table uses display
func render(cmd *cobra.Command, v interface{}, display func()) error {
	if format == "" || format == "table" {
		display()
		return nil
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	return exporter.Export(v, cmd.OutOrStdout())
}
