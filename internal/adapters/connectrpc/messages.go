package connectrpc

import (
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
)

// Empty is the message of calls that take or return nothing.
type Empty struct{}

type AssignRoleRequest struct {
	User auth.Principal `json:"user"`
	Role auth.UserRole  `json:"role"`
}

type CreateProfileRequest struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type SaveProfileRequest struct {
	Profile model.UserProfile `json:"profile"`
}

type PrincipalRequest struct {
	User auth.Principal `json:"user"`
}

type ListingRequest struct {
	Listing model.PromotedListing `json:"listing"`
}

type UpdateListingRequest struct {
	ID      string                `json:"id"`
	Listing model.PromotedListing `json:"listing"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type CategoryRequest struct {
	Category string `json:"category"`
}

type CreateTripRequest struct {
	Trip model.TripDetails `json:"trip"`
}

// ProfileResponse carries an optional profile; a nil Profile means absent.
type ProfileResponse struct {
	Profile *model.UserProfile `json:"profile,omitempty"`
}

type ProfilesResponse struct {
	Profiles []model.ProfileEntry `json:"profiles"`
}

type ListingsResponse struct {
	Listings []model.PromotedListing `json:"listings"`
}

type TripPlanResponse struct {
	Plan model.TripPlan `json:"plan"`
}

type TripPlansResponse struct {
	Plans []model.TripPlan `json:"plans"`
}

type RoleResponse struct {
	Role auth.UserRole `json:"role"`
}

type BoolResponse struct {
	Value bool `json:"value"`
}
