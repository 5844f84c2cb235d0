package repository

import (
	"context"
	"errors"

	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/querycache"
)

// Repositories bundles the entity repositories over one cache.
type Repositories struct {
	Profiles *Profiles
	Trips    *Trips
	Listings *Listings
	Admin    *Admin
}

// New constructs every repository over cache.
func New(cache *querycache.Client) *Repositories {
	return &Repositories{
		Profiles: &Profiles{cache: cache},
		Trips:    &Trips{cache: cache},
		Listings: &Listings{cache: cache},
		Admin:    &Admin{cache: cache},
	}
}

// remote maps a remote client error into the application error space once.
// Errors that already carry a code pass through unchanged.
func remote(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if apperrors.GetCode(err) != "" {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.FromContext(err)
	}
	return apperrors.RemoteFailure(err, fallback)
}

type none struct{}
