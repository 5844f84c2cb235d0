package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewAuthenticator_Validation(t *testing.T) {
	_, err := NewAuthenticator(Config{Secret: testSecret})
	assert.Error(t, err)
	_, err = NewAuthenticator(Config{Principal: "anonymous", Secret: testSecret})
	assert.Error(t, err)
	_, err = NewAuthenticator(Config{Principal: "dev-user"})
	assert.Error(t, err)
}

func TestAuthenticateAndVerify(t *testing.T) {
	a, err := NewAuthenticator(Config{Principal: "dev-user", Email: "dev@example.com", Secret: testSecret})
	require.NoError(t, err)

	id, err := a.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainauth.Principal("dev-user"), id.Principal)
	assert.NotEmpty(t, id.Credential)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), id.ExpiresAt, time.Minute)

	v, err := NewVerifier(testSecret, "")
	require.NoError(t, err)
	p, err := v.Verify(context.Background(), id.Credential)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Principal("dev-user"), p)
}

func TestVerify_EmptyCredentialIsAnonymous(t *testing.T) {
	v, err := NewVerifier(testSecret, "")
	require.NoError(t, err)
	p, err := v.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, p.IsAnonymous())
}

func TestVerify_Rejects(t *testing.T) {
	a, err := NewAuthenticator(Config{Principal: "dev-user", Secret: testSecret})
	require.NoError(t, err)
	id, err := a.Authenticate(context.Background())
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		v, err := NewVerifier("another-secret-another-secret-xx", "")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), id.Credential)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		v, err := NewVerifier(testSecret, "someone-else")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), id.Credential)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("expired", func(t *testing.T) {
		old, err := NewAuthenticator(Config{Principal: "dev-user", Secret: testSecret})
		require.NoError(t, err)
		old.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
		stale, err := old.Authenticate(context.Background())
		require.NoError(t, err)

		v, err := NewVerifier(testSecret, "")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), stale.Credential)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("garbage", func(t *testing.T) {
		v, err := NewVerifier(testSecret, "")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), "not-a-jwt")
		assert.True(t, apperrors.IsForbidden(err))
	})
}
