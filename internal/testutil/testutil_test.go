package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/ports"
)

func TestEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "y"} {
		t.Setenv("TESTUTIL_FLAG", v)
		assert.True(t, envBool("TESTUTIL_FLAG"), v)
	}
	t.Setenv("TESTUTIL_FLAG", "off")
	assert.False(t, envBool("TESTUTIL_FLAG"))
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TESTUTIL_ADDR", "")
	assert.Equal(t, "fallback", getEnvOrDefault("TESTUTIL_ADDR", "fallback"))
	t.Setenv("TESTUTIL_ADDR", "redis:6379")
	assert.Equal(t, "redis:6379", getEnvOrDefault("TESTUTIL_ADDR", "fallback"))
}

func TestTestTimeProvider(t *testing.T) {
	p := NewTestTimeProvider(TestTime())
	p.AddTime(time.Hour)
	assert.Equal(t, TestTime().Add(time.Hour), p.Now())
}

func TestStaticBinding_NotifiesOnChange(t *testing.T) {
	s := NewStaticBinding(ports.Binding{Principal: auth.AnonymousPrincipal})
	unsub, ch := s.Subscribe()
	defer unsub()

	s.StartFetching("alice")
	<-ch
	cur := s.Current()
	assert.True(t, cur.Fetching)
	assert.Equal(t, auth.Principal("alice"), cur.Principal)
	assert.Equal(t, uint64(1), cur.Generation)
}

func TestBuilders_ProduceValidEntities(t *testing.T) {
	require.NoError(t, NewTripDetails().Build().Validate())
	require.NoError(t, NewListing().WithPromoText("10% off").Build().Validate())

	start := TestTime()
	bad := NewTripDetails().WithDates(start, start.Add(-time.Hour)).Build()
	assert.Error(t, bad.Validate())
}

func TestRedisCandidates_PreferEnvironment(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_ADDR", "")
	got := redisCandidates()
	require.NotEmpty(t, got)
	assert.Equal(t, "cache:6380", got[0])
	assert.Contains(t, got, "localhost:6379")
}
