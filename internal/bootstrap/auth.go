package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/adapters/devauth"
	"github.com/tripmate/tripmate-client/internal/adapters/filesession"
	"github.com/tripmate/tripmate-client/internal/adapters/oidc"
	redisadapter "github.com/tripmate/tripmate-client/internal/adapters/redis"
	authmocks "github.com/tripmate/tripmate-client/internal/mocks/auth"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// AuthOptions contains configuration for building an authenticator.
type AuthOptions struct {
	Auth   config.AuthConfig
	Prompt oidc.PromptFunc
	Logger *slog.Logger
	// Dev marks a development environment; dev authentication outside one is loud.
	Dev bool
}

// BuildAuthenticator creates an authenticator for the configured auth mode.
//
//nolint:ireturn // the auth mode picks the concrete authenticator at runtime.
func BuildAuthenticator(ctx context.Context, opts AuthOptions) (ports.Authenticator, error) {
	if err := opts.Auth.Validate(); err != nil {
		return nil, err
	}

	switch opts.Auth.Mode {
	case config.AuthModeDev:
		dev := opts.Auth.DevAuth
		a, err := devauth.NewAuthenticator(devauth.Config{
			Principal:       dev.Principal,
			DisplayName:     dev.DisplayName,
			Email:           dev.Email,
			Secret:          dev.Secret,
			Issuer:          dev.Issuer,
			SessionDuration: dev.SessionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev authenticator: %w", err)
		}
		if opts.Logger != nil {
			level := slog.LevelWarn
			if opts.Dev {
				level = slog.LevelInfo
			}
			opts.Logger.Log(ctx, level, "dev authentication enabled; not for production use", "principal", dev.Principal)
		}
		return a, nil

	case config.AuthModeOIDC:
		o := opts.Auth.OIDC
		p, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:       o.ClientID,
			ClientSecret:   o.ClientSecret,
			Scope:          o.Scope,
			IssuerURL:      o.IssuerURL,
			PrincipalClaim: o.PrincipalClaim,
			Prompt:         opts.Prompt,
			Logger:         opts.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc authenticator: %w", err)
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", opts.Auth.Mode)
	}
}

// SessionStoreOptions contains configuration for building the local session store.
type SessionStoreOptions struct {
	Session config.SessionConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// BuildSessionStore creates the configured session store. The returned close function
// releases any connection the store holds and is never nil.
//
//nolint:ireturn // the configured kind picks the concrete store at runtime.
func BuildSessionStore(ctx context.Context, opts SessionStoreOptions) (ports.SessionStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Session.Store {
	case config.SessionStoreMemory:
		return authmocks.NewMemorySessionStore(), noop, nil

	case config.SessionStoreRedis:
		client, err := ConnectRedis(ctx, RedisOptions{Config: opts.Redis, Logger: opts.Logger})
		if err != nil {
			return nil, noop, err
		}
		return newRedisSessionStore(client, opts.Redis.KeyPrefix), client.Close, nil

	case config.SessionStoreFile, "":
		s, err := filesession.New(opts.Session.Dir)
		if err != nil {
			return nil, noop, fmt.Errorf("create file session store: %w", err)
		}
		if opts.Logger != nil {
			opts.Logger.Debug("file session store", "dir", s.Dir())
		}
		return s, noop, nil

	default:
		return nil, noop, fmt.Errorf("unsupported session store %q", opts.Session.Store)
	}
}

func newRedisSessionStore(client redis.UniversalClient, prefix string) *redisadapter.SessionStore {
	if prefix == "" {
		return redisadapter.NewSessionStore(client)
	}
	return redisadapter.NewSessionStoreWithPrefix(client, prefix)
}
