// Package devseed loads demo business owners and listings into a development store.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// CallerStore hands out the store's view for one principal.
type CallerStore interface {
	ForCaller(p auth.Principal) ports.RemoteClient
}

type ownerSeed struct {
	principal auth.Principal
	name      string
	listings  []model.PromotedListing
}

// Run seeds demo data. It is idempotent: records that already exist are left alone.
func Run(ctx context.Context, store CallerStore, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0
	for _, seed := range defaultOwners() {
		failures += seedOwner(ctx, store.ForCaller(seed.principal), seed, logger)
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedOwner(ctx context.Context, rc ports.RemoteClient, seed ownerSeed, logger *slog.Logger) int {
	failures := 0
	created, err := tolerateExisting(rc.CreateProfile(ctx, string(model.AppRoleBusiness), seed.name))
	if err != nil {
		logger.ErrorContext(ctx, "failed to create profile", "principal", seed.principal.String(), "error", err)
		return 1
	}
	logOutcome(ctx, logger, created, "profile", seed.name)

	for _, l := range seed.listings {
		created, err := tolerateExisting(rc.CreatePromotedListing(ctx, l))
		if err != nil {
			logger.ErrorContext(ctx, "failed to create listing", "id", l.ID, "error", err)
			failures++
			continue
		}
		logOutcome(ctx, logger, created, "listing", l.Name)
	}
	return failures
}

func tolerateExisting(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case apperrors.IsConflict(err):
		return false, nil
	default:
		return false, err
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, created bool, kind, name string) {
	msg := kind + " already exists"
	if created {
		msg = "created " + kind
	}
	logger.InfoContext(ctx, msg, "name", name)
}

func defaultOwners() []ownerSeed {
	return []ownerSeed{
		{
			principal: "seed-lumiere",
			name:      "Lumiere Hospitality",
			listings: []model.PromotedListing{
				{
					ID:          "listing-seed-lumiere",
					Name:        "Hotel Lumiere",
					Category:    "hotel",
					Destination: "Paris",
					Description: "Boutique rooms two streets from the Seine.",
					ContactInfo: "stay@lumiere.example",
					PromoText:   model.Optional("Third night free in winter"),
				},
				{
					ID:          "listing-seed-bistro",
					Name:        "Bistro du Coin",
					Category:    "restaurant",
					Destination: "Paris",
					Description: "Classic French dishes and a long wine list.",
					ContactInfo: "+33 1 00 00 00 00",
				},
			},
		},
		{
			principal: "seed-goa",
			name:      "Coastal Getaways",
			listings: []model.PromotedListing{
				{
					ID:          "listing-seed-palms",
					Name:        "Palm Grove Resort",
					Category:    "resort",
					Destination: "North Goa",
					Description: "Beachfront cottages with a pool and spa.",
					ContactInfo: "hello@palmgrove.example",
					PromoText:   model.Optional("Monsoon special rates"),
				},
				{
					ID:          "listing-seed-fort",
					Name:        "Fort Aguada",
					Category:    "tourist place",
					Destination: "Goa",
					Description: "Seventeenth-century fort and lighthouse.",
					ContactInfo: "tours@aguada.example",
				},
			},
		},
	}
}
