package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/adapters/devauth"
	"github.com/tripmate/tripmate-client/internal/adapters/filesession"
	authmocks "github.com/tripmate/tripmate-client/internal/mocks/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(&buf, config.ObservabilityConfig{LogLevel: "warn", LogFormat: "json"})
	t.Cleanup(func() { slog.SetDefault(discardLogger()) })

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SESSION_NAME=work\nLOGIN_RETRY_DELAY=1s\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("SESSION_NAME")
		_ = os.Unsetenv("LOGIN_RETRY_DELAY")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.Session.Name)
	assert.Equal(t, time.Second, cfg.Session.LoginRetryDelay)
}

func TestLoadConfig_MissingDotEnvIsFine(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestBuildAuthenticator(t *testing.T) {
	a, err := BuildAuthenticator(context.Background(), AuthOptions{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeDev,
			DevAuth: config.DevAuthConfig{Principal: "ann", Secret: "s"},
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	assert.IsType(t, &devauth.Authenticator{}, a)

	_, err = BuildAuthenticator(context.Background(), AuthOptions{
		Auth: config.AuthConfig{Mode: config.AuthModeOIDC},
	})
	assert.Error(t, err, "oidc without issuer is rejected before discovery")
}

func TestBuildSessionStore(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := BuildSessionStore(ctx, SessionStoreOptions{Session: config.SessionConfig{Store: config.SessionStoreMemory}})
	require.NoError(t, err)
	assert.IsType(t, &authmocks.MemorySessionStore{}, s)
	assert.NoError(t, closeFn())

	dir := t.TempDir()
	s, closeFn, err = BuildSessionStore(ctx, SessionStoreOptions{Session: config.SessionConfig{Store: config.SessionStoreFile, Dir: dir}})
	require.NoError(t, err)
	require.IsType(t, &filesession.Store{}, s)
	assert.Equal(t, dir, s.(*filesession.Store).Dir())
	assert.NoError(t, closeFn())

	_, closeFn, err = BuildSessionStore(ctx, SessionStoreOptions{Session: config.SessionConfig{Store: "etcd"}})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("anything"))
}

func TestBuildObservability_Disabled(t *testing.T) {
	obs := buildObservability(discardLogger(), config.ObservabilityConfig{})
	assert.Nil(t, obs.MetricsSink)
	assert.Nil(t, obs.QueryRecorder)
	assert.NoError(t, obs.Close())
}
