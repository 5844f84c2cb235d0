package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_IsAnonymous(t *testing.T) {
	assert.True(t, Principal("").IsAnonymous())
	assert.True(t, AnonymousPrincipal.IsAnonymous())
	assert.False(t, Principal("2vxsx-fae").IsAnonymous())
	assert.Equal(t, "anonymous", Principal("").String())
}

func TestParseUserRole(t *testing.T) {
	r, err := ParseUserRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseUserRole("traveler")
	assert.Error(t, err)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}

func TestSession_Identity(t *testing.T) {
	s := Session{ID: "s1", Principal: "p1", Credential: "tok", Email: "e@x"}
	id := s.Identity()
	assert.Equal(t, Principal("p1"), id.Principal)
	assert.Equal(t, "tok", id.Credential)
	assert.False(t, id.IsAnonymous())
	assert.True(t, Anonymous().IsAnonymous())
}
