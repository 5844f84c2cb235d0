package config

import (
	"fmt"
	"strings"
	"time"
)

// RemoteMode selects how the client reaches the remote store.
type RemoteMode string

const (
	// RemoteModeConnect calls a remote store over connect RPC.
	RemoteModeConnect RemoteMode = "connect"
	// RemoteModeMemory runs an in-process store (demos and tests).
	RemoteModeMemory RemoteMode = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for RemoteMode.
func (m *RemoteMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "connect", "memory":
		*m = RemoteMode(v)
		return nil
	default:
		return fmt.Errorf("invalid RemoteMode: %q (valid options: connect, memory)", v)
	}
}

// RemoteConfig controls the remote store transport.
type RemoteConfig struct {
	Mode RemoteMode `env:"REMOTE_MODE" envDefault:"connect"`
	URL  string     `env:"REMOTE_URL"  envDefault:"http://localhost:8090"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
	// BindTimeout bounds one client construction after an identity change.
	BindTimeout time.Duration `env:"REMOTE_BIND_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to remote configuration values.
func (c *RemoteConfig) Sanitize() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.BindTimeout <= 0 {
		c.BindTimeout = 10 * time.Second
	}
}

// QueryConfig tunes the query cache.
type QueryConfig struct {
	CacheSize      int           `env:"QUERY_CACHE_SIZE"       envDefault:"256"`
	StaleTime      time.Duration `env:"QUERY_STALE_TIME"       envDefault:"0s"`
	GCTime         time.Duration `env:"QUERY_GC_TIME"          envDefault:"5m"`
	FetchTimeout   time.Duration `env:"QUERY_FETCH_TIMEOUT"    envDefault:"30s"`
	RetryCount     int           `env:"QUERY_RETRY_COUNT"      envDefault:"3"`
	RetryBaseDelay time.Duration `env:"QUERY_RETRY_BASE_DELAY" envDefault:"1s"`
	RetryMaxDelay  time.Duration `env:"QUERY_RETRY_MAX_DELAY"  envDefault:"30s"`
}

// Sanitize clamps cache settings to workable values.
func (c *QueryConfig) Sanitize() {
	if c.CacheSize <= 0 {
		c.CacheSize = 256
	}
	if c.StaleTime < 0 {
		c.StaleTime = 0
	}
	if c.GCTime <= 0 {
		c.GCTime = 5 * time.Minute
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.RetryCount < 0 {
		c.RetryCount = 0
	}
	if c.RetryCount > 10 {
		c.RetryCount = 10
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.RetryMaxDelay < c.RetryBaseDelay {
		c.RetryMaxDelay = c.RetryBaseDelay
	}
}
