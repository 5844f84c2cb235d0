package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	"github.com/tripmate/tripmate-client/internal/gate"
	authmocks "github.com/tripmate/tripmate-client/internal/mocks/auth"
	"github.com/tripmate/tripmate-client/internal/observability/notify"
	"github.com/tripmate/tripmate-client/internal/session"
	"github.com/tripmate/tripmate-client/internal/testutil"
)

func memoryConfig() config.AppConfig {
	cfg := config.AppConfig{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeDev,
			DevAuth: config.DevAuthConfig{Principal: "bob", Secret: "test-secret"},
		},
		Session:  config.SessionConfig{Store: config.SessionStoreMemory},
		Remote:   config.RemoteConfig{Mode: config.RemoteModeMemory},
		Query:    config.QueryConfig{RetryCount: 1, RetryBaseDelay: time.Millisecond},
		DevStore: config.DevStoreConfig{Seed: true},
	}
	cfg.Sanitize()
	cfg.Session.LoginRetryDelay = time.Millisecond
	return cfg
}

func newTestApp(t *testing.T, opts AppOptions) (*App, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	opts.Config = memoryConfig()
	opts.Logger = discardLogger()
	opts.Notifier = rec
	app, err := NewApp(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))
	return app, rec
}

func waitKind(t *testing.T, app *App, k session.Kind) session.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := app.Session.WaitFor(ctx, func(s session.State) bool { return s.Kind() == k })
	require.NoError(t, err)
	return st
}

func TestApp_BusinessOwnerJourney(t *testing.T) {
	ctx := context.Background()
	app, rec := newTestApp(t, AppOptions{})
	require.NotNil(t, app.Store)

	st := waitKind(t, app, session.KindUnauthenticated)
	_, ok := gate.RequireRole(st, gate.CapabilityBusiness).(gate.PromptLogin)
	assert.True(t, ok)

	seeded, err := app.Repos.Listings.All(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, 4, "anonymous reads see the seeded listings")

	require.NoError(t, app.Session.Login(ctx))
	st = waitKind(t, app, session.KindNeedsProfile)
	_, ok = gate.RequireAuth(st).(gate.ProfileSetup)
	assert.True(t, ok)

	require.NoError(t, app.Repos.Profiles.Create(ctx, model.AppRoleBusiness, "Bob's Tours"))
	st = waitKind(t, app, session.KindReady)
	assert.True(t, session.IsBusinessOwner(st))
	assert.True(t, gate.RequireRole(st, gate.CapabilityBusiness).Admitted())
	assert.False(t, gate.RequireRole(st, gate.CapabilityTraveler).Admitted())

	created, err := app.Repos.Listings.Create(ctx, testutil.NewListing().WithName("Bob's Bikes").Build())
	require.NoError(t, err)
	mine, err := app.Repos.Listings.Caller(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, auth.Principal("bob"), mine[0].Owner)
	assert.Equal(t, 2, rec.Count(notify.LevelSuccess))

	require.NoError(t, app.Session.Logout(ctx))
	waitKind(t, app, session.KindUnauthenticated)
	assert.True(t, app.Identity.Identity().IsAnonymous())
}

func TestApp_RestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	sessions := authmocks.NewMemorySessionStore()
	require.NoError(t, sessions.Save(ctx, auth.Session{ID: "default", Principal: "ann", Credential: "c"}))

	app, _ := newTestApp(t, AppOptions{Sessions: sessions})
	assert.Equal(t, auth.Principal("ann"), app.Identity.Identity())
	assert.Equal(t, auth.Principal("ann"), app.Binder.Identity())
	waitKind(t, app, session.KindNeedsProfile)
}

func TestNewApp_InvalidAuthConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth.DevAuth.Principal = ""
	_, err := NewApp(context.Background(), AppOptions{Config: cfg, Logger: discardLogger()})
	assert.Error(t, err)
}
