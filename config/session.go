package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where login sessions are persisted.
type SessionStoreKind string

const (
	SessionStoreFile   SessionStoreKind = "file"
	SessionStoreRedis  SessionStoreKind = "redis"
	SessionStoreMemory SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis", "memory":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: file, redis, memory)", v)
	}
}

// SessionConfig controls local session persistence and the login flow.
type SessionConfig struct {
	Store SessionStoreKind `env:"SESSION_STORE" envDefault:"file"`
	// Dir holds session files; empty means the user config dir.
	Dir string `env:"SESSION_DIR"`
	// Name is the key a session is stored under, allowing several profiles side by side.
	Name string `env:"SESSION_NAME" envDefault:"default"`
	// LoginRetryDelay is the pause between clearing a stale session and logging in again.
	LoginRetryDelay time.Duration `env:"LOGIN_RETRY_DELAY" envDefault:"300ms"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	c.Dir = strings.TrimSpace(c.Dir)
	if c.Name = strings.TrimSpace(c.Name); c.Name == "" {
		c.Name = "default"
	}
	if c.LoginRetryDelay < 0 {
		c.LoginRetryDelay = 0
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"tripmate:session:"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
