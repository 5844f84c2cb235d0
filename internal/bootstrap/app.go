package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/adapters/connectrpc"
	"github.com/tripmate/tripmate-client/internal/adapters/memstore"
	"github.com/tripmate/tripmate-client/internal/adapters/oidc"
	"github.com/tripmate/tripmate-client/internal/binder"
	"github.com/tripmate/tripmate-client/internal/devseed"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/identity"
	"github.com/tripmate/tripmate-client/internal/observability/notify"
	"github.com/tripmate/tripmate-client/internal/ports"
	"github.com/tripmate/tripmate-client/internal/querycache"
	"github.com/tripmate/tripmate-client/internal/repository"
	"github.com/tripmate/tripmate-client/internal/session"
)

// AppOptions configure NewApp. Authenticator, Sessions and Factory replace the
// configured adapters when set.
type AppOptions struct {
	Config   config.AppConfig
	Logger   *slog.Logger
	Notifier notify.Sink
	Prompt   oidc.PromptFunc

	Authenticator ports.Authenticator
	Sessions      ports.SessionStore
	Factory       ports.ClientFactory
}

// App is the explicitly constructed session context: every long-lived component of
// the client, wired together, with one lifecycle.
type App struct {
	Config   config.AppConfig
	Logger   *slog.Logger
	Identity *identity.Provider
	Binder   *binder.Binder
	Cache    *querycache.Client
	Repos    *repository.Repositories
	Session  *session.Controller
	// Store is the in-process remote store when the remote mode is memory.
	Store *memstore.Store

	closers []func() error
}

// NewApp builds every component. Call Start to restore the session and bind a client.
func NewApp(ctx context.Context, opts AppOptions) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.LogSink{Logger: logger}
	}
	app := &App{Config: cfg, Logger: logger}

	if err := app.build(ctx, opts, notifier); err != nil {
		if cerr := app.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context, opts AppOptions, notifier notify.Sink) error {
	cfg := a.Config
	obs := buildObservability(a.Logger, cfg.Observability)
	a.closers = append(a.closers, obs.Close)

	authenticator := opts.Authenticator
	if authenticator == nil {
		var err error
		authenticator, err = BuildAuthenticator(ctx, AuthOptions{
			Auth:   cfg.Auth,
			Prompt: opts.Prompt,
			Logger: a.Logger,
			Dev:    cfg.IsDev,
		})
		if err != nil {
			return err
		}
	}

	sessions := opts.Sessions
	if sessions == nil {
		store, closeStore, err := BuildSessionStore(ctx, SessionStoreOptions{
			Session: cfg.Session,
			Redis:   cfg.Redis,
			Logger:  a.Logger,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, closeStore)
		sessions = store
	}

	factory := opts.Factory
	if factory == nil {
		var err error
		factory, err = a.buildFactory(ctx)
		if err != nil {
			return err
		}
	}

	provider, err := identity.NewProvider(identity.ProviderOptions{
		Authenticator: authenticator,
		Sessions:      sessions,
		SessionName:   cfg.Session.Name,
		Logger:        a.Logger,
	})
	if err != nil {
		return err
	}
	a.Identity = provider
	a.closers = append(a.closers, func() error { provider.Close(); return nil })

	b, err := binder.New(binder.Options{
		Identity:    provider,
		Factory:     factory,
		Logger:      a.Logger,
		BindTimeout: cfg.Remote.BindTimeout,
	})
	if err != nil {
		return err
	}
	a.Binder = b
	a.closers = append(a.closers, func() error { b.Close(); return nil })

	cacheOpts := querycache.Options{
		Logger:         a.Logger,
		Notifier:       notifier,
		Size:           cfg.Query.CacheSize,
		StaleTime:      cfg.Query.StaleTime,
		GCTime:         cfg.Query.GCTime,
		FetchTimeout:   cfg.Query.FetchTimeout,
		RetryCount:     cfg.Query.RetryCount,
		RetryBaseDelay: cfg.Query.RetryBaseDelay,
		RetryMaxDelay:  cfg.Query.RetryMaxDelay,
	}
	if obs.QueryRecorder != nil {
		cacheOpts.Metrics = obs.QueryRecorder
	}
	a.Cache = querycache.New(b, cacheOpts)
	a.closers = append(a.closers, func() error { a.Cache.Close(); return nil })
	a.Repos = repository.New(a.Cache)

	ctrl, err := session.NewController(session.ControllerOptions{
		Identity:        provider,
		Binding:         b,
		Cache:           a.Cache,
		Profiles:        a.Repos.Profiles,
		Notifier:        notifier,
		Logger:          a.Logger,
		LoginRetryDelay: cfg.Session.LoginRetryDelay,
	})
	if err != nil {
		return err
	}
	a.Session = ctrl
	a.closers = append(a.closers, func() error { ctrl.Close(); return nil })
	return nil
}

//nolint:ireturn // the remote mode picks the concrete factory at runtime.
func (a *App) buildFactory(ctx context.Context) (ports.ClientFactory, error) {
	cfg := a.Config
	switch cfg.Remote.Mode {
	case config.RemoteModeMemory:
		admins := make([]auth.Principal, 0, len(cfg.DevStore.Admins))
		for _, p := range cfg.DevStore.Admins {
			admins = append(admins, auth.Principal(p))
		}
		a.Store = memstore.New(memstore.Options{Admins: admins, Logger: a.Logger})
		if cfg.DevStore.Seed {
			if err := devseed.Run(ctx, a.Store, a.Logger); err != nil {
				return nil, fmt.Errorf("seed in-process store: %w", err)
			}
		}
		return a.Store.Factory(), nil
	default:
		f, err := connectrpc.NewFactory(connectrpc.FactoryOptions{
			BaseURL: cfg.Remote.URL,
			Timeout: cfg.Remote.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// Start restores a persisted session, starts the binder and waits until a client is
// bound for the resulting identity.
func (a *App) Start(ctx context.Context) error {
	if err := a.Identity.Restore(ctx); err != nil {
		a.Logger.Warn("session restore failed", "error", err)
	}
	a.Binder.Start()
	if _, err := a.Binder.WaitReady(ctx); err != nil {
		return fmt.Errorf("bind remote client: %w", err)
	}
	return nil
}

// Close stops every component in reverse construction order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
