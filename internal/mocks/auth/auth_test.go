package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

func TestMockAuthenticator_Defaults(t *testing.T) {
	m := &MockAuthenticator{}
	id, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainauth.Principal("mock-principal-1"), id.Principal)
	assert.True(t, id.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, m.Calls())
}

func TestMockAuthenticator_CustomFunc(t *testing.T) {
	boom := errors.New("window closed")
	m := &MockAuthenticator{
		AuthenticateFunc: func(context.Context) (domainauth.Identity, error) {
			return domainauth.Identity{}, boom
		},
	}
	_, err := m.Authenticate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNewMockAuthenticator(t *testing.T) {
	id, err := NewMockAuthenticator("alice").Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainauth.Principal("alice"), id.Principal)
	assert.Equal(t, "token-alice", id.Credential)
}

func TestMemorySessionStore_SaveGetDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "default", Principal: "alice", Credential: "tok"}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "default"))
	_, err = store.Get(ctx, "default")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_Errors(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.Save(ctx, domainauth.Session{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")

	_, err = store.Get(ctx, "")
	assert.True(t, apperrors.IsNotFound(err))

	store.DeleteErr = errors.New("disk full")
	assert.Error(t, store.Delete(ctx, "x"))
}
