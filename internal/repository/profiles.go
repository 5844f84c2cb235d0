package repository

import (
	"context"
	"strings"

	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
	"github.com/tripmate/tripmate-client/internal/querycache"
)

// Profiles reads and writes the caller's profile.
type Profiles struct {
	cache *querycache.Client
}

// callerProfileOptions never retries: a missing or failing profile lookup is
// reported straight away so the session can settle.
var callerProfileOptions = querycache.QueryOptions{
	RequireIdentity: true,
	Retry:           querycache.RetryNever,
}

func fetchCallerProfile(ctx context.Context, rc ports.RemoteClient) (*model.UserProfile, error) {
	p, err := rc.GetCallerUserProfile(ctx)
	if err != nil {
		return nil, remote(err, "Failed to load profile")
	}
	return p, nil
}

// ObserveCaller observes the caller's profile. A nil value means the caller has no
// profile yet. The query stays disabled while the identity is anonymous.
func (p *Profiles) ObserveCaller() *querycache.Observer[*model.UserProfile] {
	return querycache.Observe(p.cache, CallerProfileKey(), fetchCallerProfile, callerProfileOptions)
}

// Caller reads the caller's profile through the cache.
func (p *Profiles) Caller(ctx context.Context) (*model.UserProfile, error) {
	return querycache.Query(ctx, p.cache, CallerProfileKey(), fetchCallerProfile, callerProfileOptions)
}

func validateProfile(role model.AppUserRole, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.ValidationField("name", "name is required")
	}
	if !role.Valid() {
		return "", apperrors.ValidationField("appRole", "role must be traveler or business")
	}
	return name, nil
}

// Create registers the caller's profile.
func (p *Profiles) Create(ctx context.Context, role model.AppUserRole, name string) error {
	if err := p.cache.CheckAvailable(ctx, CreateProfileMutation); err != nil {
		return err
	}
	name, err := validateProfile(role, name)
	if err != nil {
		return err
	}
	in := model.UserProfile{AppRole: role, Name: name}
	_, err = querycache.Mutate(ctx, p.cache, CreateProfileMutation,
		func(ctx context.Context, rc ports.RemoteClient, in model.UserProfile) (none, error) {
			return none{}, remote(rc.CreateProfile(ctx, string(in.AppRole), in.Name), CreateProfileMutation.FallbackError)
		}, in)
	return err
}

// Save overwrites the caller's profile.
func (p *Profiles) Save(ctx context.Context, profile model.UserProfile) error {
	if err := p.cache.CheckAvailable(ctx, SaveProfileMutation); err != nil {
		return err
	}
	name, err := validateProfile(profile.AppRole, profile.Name)
	if err != nil {
		return err
	}
	profile.Name = name
	_, err = querycache.Mutate(ctx, p.cache, SaveProfileMutation,
		func(ctx context.Context, rc ports.RemoteClient, in model.UserProfile) (none, error) {
			return none{}, remote(rc.SaveCallerUserProfile(ctx, in), SaveProfileMutation.FallbackError)
		}, profile)
	return err
}
