package repository

import (
	"context"

	"github.com/tripmate/tripmate-client/internal/domain/model"
	"github.com/tripmate/tripmate-client/internal/ports"
	"github.com/tripmate/tripmate-client/internal/querycache"
)

// Trips reads and creates the caller's trip plans.
type Trips struct {
	cache *querycache.Client
}

var callerTripsOptions = querycache.QueryOptions{RequireIdentity: true}

func fetchCallerTrips(ctx context.Context, rc ports.RemoteClient) ([]model.TripPlan, error) {
	plans, err := rc.GetCallerTripPlans(ctx)
	if err != nil {
		return nil, remote(err, "Failed to load trip plans")
	}
	return plans, nil
}

// ObserveCaller observes the caller's trip plans.
func (t *Trips) ObserveCaller() *querycache.Observer[[]model.TripPlan] {
	return querycache.Observe(t.cache, CallerTripsKey(), fetchCallerTrips, callerTripsOptions)
}

// Caller reads the caller's trip plans through the cache.
func (t *Trips) Caller(ctx context.Context) ([]model.TripPlan, error) {
	return querycache.Query(ctx, t.cache, CallerTripsKey(), fetchCallerTrips, callerTripsOptions)
}

// Create asks the store to plan a trip. Invalid details are rejected before any
// remote call is made.
func (t *Trips) Create(ctx context.Context, details model.TripDetails) (model.TripPlan, error) {
	if err := t.cache.CheckAvailable(ctx, CreateTripMutation); err != nil {
		return model.TripPlan{}, err
	}
	if err := details.Validate(); err != nil {
		return model.TripPlan{}, err
	}
	return querycache.Mutate(ctx, t.cache, CreateTripMutation,
		func(ctx context.Context, rc ports.RemoteClient, in model.TripDetails) (model.TripPlan, error) {
			plan, err := rc.CreateTrip(ctx, in)
			if err != nil {
				return model.TripPlan{}, remote(err, CreateTripMutation.FallbackError)
			}
			return plan, nil
		}, details)
}
