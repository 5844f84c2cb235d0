package config

import "strings"

// DevStoreConfig configures the development remote store server.
type DevStoreConfig struct {
	// Addr is the address to bind the dev store to.
	Addr string `env:"DEVSTORE_ADDR" envDefault:":8090"`
	// Admins are principals granted the admin role at startup.
	Admins []string `env:"DEVSTORE_ADMINS" envDefault:"dev-user" envSeparator:","`
	// Seed loads demo listings at startup.
	Seed bool `env:"DEVSTORE_SEED" envDefault:"true"`
}

// Sanitize applies guardrails to dev store configuration values.
func (c *DevStoreConfig) Sanitize() {
	if c.Addr = strings.TrimSpace(c.Addr); c.Addr == "" {
		c.Addr = ":8090"
	}
	c.Admins = trimAll(c.Admins)
}
