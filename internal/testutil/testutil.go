// Package testutil provides testing utilities and helpers for the tripmate client.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// TestTimeProvider is a settable clock. It is safe for concurrent use.
type TestTimeProvider struct {
	mu          sync.Mutex
	currentTime time.Time
}

// NewTestTimeProvider creates a new test time provider.
func NewTestTimeProvider(startTime time.Time) *TestTimeProvider {
	return &TestTimeProvider{currentTime: startTime}
}

// Now returns the current time.
func (p *TestTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTime
}

// AddTime advances the current time by the given duration.
func (p *TestTimeProvider) AddTime(d time.Duration) {
	p.mu.Lock()
	p.currentTime = p.currentTime.Add(d)
	p.mu.Unlock()
}

// redisCandidates lists where a test Redis may be listening, in preference order.
func redisCandidates() []string {
	var addrs []string
	for _, key := range []string{"TEST_REDIS_ADDR", "REDIS_ADDR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			addrs = append(addrs, v)
		}
	}
	return append(addrs, "localhost:6379", "redis:6379")
}

// testRedisDB is the database tests flush. It defaults to the last of the sixteen
// standard databases so a developer's DB 0 is left alone.
func testRedisDB(t TestingTB) int {
	v := getEnvOrDefault("TEST_REDIS_DB", "15")
	db, err := strconv.Atoi(v)
	if err != nil || db < 0 {
		t.Fatalf("invalid TEST_REDIS_DB=%q", v)
	}
	return db
}

// SetupTestRedis returns a client on an empty test database. The test is skipped when
// no Redis answers, unless TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()
	db := testRedisDB(t)

	var lastErr error
	for _, addr := range redisCandidates() {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(ctx).Err()
		if err == nil {
			err = client.FlushDB(ctx).Err()
		}
		cancel()
		if err == nil {
			t.Logf("using redis at %s db %d", addr, db)
			return client
		}
		lastErr = fmt.Errorf("%s: %w", addr, err)
		_ = client.Close()
	}

	if requireRedis() {
		t.Fatalf("Redis not available for testing: %v", lastErr)
	}
	t.Skipf("Redis not available for testing: %v", lastErr)
	return nil
}
