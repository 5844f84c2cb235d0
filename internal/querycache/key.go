// Package querycache mediates every read and write against the remote store: it
// caches query results per key and identity, deduplicates concurrent fetches,
// gates fetches on binder readiness, and runs mutations with declared invalidations.
package querycache

import (
	"strings"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
)

// Scope says whose data a key addresses.
type Scope string

const (
	// ScopeCaller addresses data owned by the bound identity.
	ScopeCaller Scope = "caller"
	// ScopeAll addresses store-wide data.
	ScopeAll Scope = "all"
)

// Key identifies a cached query. Keys compare by value; a key used as an
// invalidation pattern matches every key with the same entity and scope whose
// params start with the pattern's params.
type Key struct {
	Entity string
	Scope  Scope
	Params []string
}

// NewKey builds a key.
func NewKey(entity string, scope Scope, params ...string) Key {
	return Key{Entity: entity, Scope: scope, Params: params}
}

// String renders the key as entity/scope/param/...
func (k Key) String() string {
	parts := make([]string, 0, 2+len(k.Params))
	parts = append(parts, k.Entity, string(k.Scope))
	parts = append(parts, k.Params...)
	return strings.Join(parts, "/")
}

// Matches reports whether key falls under pattern k.
func (k Key) Matches(key Key) bool {
	if k.Entity != key.Entity || k.Scope != key.Scope || len(k.Params) > len(key.Params) {
		return false
	}
	for i, p := range k.Params {
		if key.Params[i] != p {
			return false
		}
	}
	return true
}

// complete reports whether every param is non-empty. Keys with an empty param
// address nothing and their queries stay disabled.
func (k Key) complete() bool {
	for _, p := range k.Params {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}

// stampedID is the storage identity of a key for one principal.
func stampedID(p auth.Principal, k Key) string {
	return p.String() + "\x1f" + k.String()
}
