package repository

import (
	"context"
	"strings"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
	"github.com/tripmate/tripmate-client/internal/querycache"
)

// Admin covers the administrative tier (auth.UserRole). It is independent of the
// profile's app role: nothing here reads or writes model.AppUserRole.
type Admin struct {
	cache *querycache.Client
}

var identityOptions = querycache.QueryOptions{RequireIdentity: true}

func fetchCallerRole(ctx context.Context, rc ports.RemoteClient) (auth.UserRole, error) {
	r, err := rc.GetCallerUserRole(ctx)
	if err != nil {
		return "", remote(err, "Failed to load role")
	}
	return r, nil
}

func fetchIsAdmin(ctx context.Context, rc ports.RemoteClient) (bool, error) {
	ok, err := rc.IsCallerAdmin(ctx)
	if err != nil {
		return false, remote(err, "Failed to load role")
	}
	return ok, nil
}

func fetchAllProfiles(ctx context.Context, rc ports.RemoteClient) ([]model.ProfileEntry, error) {
	all, err := rc.GetAllUserProfiles(ctx)
	if err != nil {
		return nil, remote(err, "Failed to load profiles")
	}
	return all, nil
}

// CallerRole reads the caller's administrative tier.
func (a *Admin) CallerRole(ctx context.Context) (auth.UserRole, error) {
	return querycache.Query(ctx, a.cache, CallerRoleKey(), fetchCallerRole, identityOptions)
}

// IsCallerAdmin reports whether the caller holds the admin tier.
func (a *Admin) IsCallerAdmin(ctx context.Context) (bool, error) {
	return querycache.Query(ctx, a.cache, CallerAdminKey(), fetchIsAdmin, identityOptions)
}

// AllProfiles lists every profile in the store.
func (a *Admin) AllProfiles(ctx context.Context) ([]model.ProfileEntry, error) {
	return querycache.Query(ctx, a.cache, AllProfilesKey(), fetchAllProfiles, identityOptions)
}

// Profile reads the profile of principal; nil means it has none.
func (a *Admin) Profile(ctx context.Context, principal auth.Principal) (*model.UserProfile, error) {
	fetch := func(ctx context.Context, rc ports.RemoteClient) (*model.UserProfile, error) {
		p, err := rc.GetUserProfile(ctx, principal)
		if err != nil {
			return nil, remote(err, "Failed to load profile")
		}
		return p, nil
	}
	return querycache.Query(ctx, a.cache, ProfileKey(principal.String()), fetch, identityOptions)
}

type roleAssignment struct {
	principal auth.Principal
	role      auth.UserRole
}

// AssignRole grants role to principal.
func (a *Admin) AssignRole(ctx context.Context, principal auth.Principal, role auth.UserRole) error {
	if err := a.cache.CheckAvailable(ctx, AssignRoleMutation); err != nil {
		return err
	}
	if strings.TrimSpace(principal.String()) == "" || principal.IsAnonymous() {
		return apperrors.ValidationField("principal", "principal is required")
	}
	if _, err := auth.ParseUserRole(string(role)); err != nil {
		return apperrors.ValidationField("role", err.Error())
	}
	_, err := querycache.Mutate(ctx, a.cache, AssignRoleMutation,
		func(ctx context.Context, rc ports.RemoteClient, in roleAssignment) (none, error) {
			return none{}, remote(rc.AssignCallerUserRole(ctx, in.principal, in.role), AssignRoleMutation.FallbackError)
		}, roleAssignment{principal: principal, role: role})
	return err
}
