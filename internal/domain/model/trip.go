package model

import (
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

// KnownTripTypes are the trip types front ends offer. The remote store accepts any string.
var KnownTripTypes = []string{"solo", "group", "bike gang"}

// TripDetails is the traveler-supplied request for a trip plan.
// Interests and Notes are optional: unspecified fields are omitted on the wire.
type TripDetails struct {
	Destination string                    `json:"destination"`
	TripType    string                    `json:"tripType"`
	StartDate   Time                      `json:"startDate"`
	EndDate     Time                      `json:"endDate"`
	Interests   nullable.Nullable[string] `json:"interests,omitempty"`
	Notes       nullable.Nullable[string] `json:"notes,omitempty"`
}

// Validate checks required fields and the date ordering. It runs before any remote call.
func (d TripDetails) Validate() error {
	if strings.TrimSpace(d.Destination) == "" {
		return apperrors.ValidationField("destination", "destination is required")
	}
	if strings.TrimSpace(d.TripType) == "" {
		return apperrors.ValidationField("tripType", "trip type is required")
	}
	if d.StartDate.IsZero() {
		return apperrors.ValidationField("startDate", "start date is required")
	}
	if d.EndDate.IsZero() {
		return apperrors.ValidationField("endDate", "end date is required")
	}
	if d.EndDate < d.StartDate {
		return apperrors.ValidationField("endDate", "end date must not be before start date")
	}
	return nil
}

// OptionalString returns the value of an optional field, or "" when unspecified or null.
func OptionalString(n nullable.Nullable[string]) string {
	if !n.IsSpecified() || n.IsNull() {
		return ""
	}
	v, err := n.Get()
	if err != nil {
		return ""
	}
	return v
}

// Optional wraps s as a specified optional field, or leaves it unspecified when blank.
func Optional(s string) nullable.Nullable[string] {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return nullable.NewNullableWithValue(s)
}

// ItineraryItem is one generated day of a trip plan.
type ItineraryItem struct {
	Day                 int64          `json:"day"`
	RouteDescription    string         `json:"routeDescription"`
	OwnedBy             auth.Principal `json:"ownedBy"`
	FoodRecommendations []string       `json:"foodRecommendations"`
	Activities          []string       `json:"activities"`
	StaySuggestions     []string       `json:"staySuggestions"`
}

// PackingChecklist is the generated packing list of a trip plan.
type PackingChecklist struct {
	OwnedBy auth.Principal `json:"ownedBy"`
	Items   []string       `json:"items"`
}

// TripPlan is the remote store's expansion of TripDetails. Owner is always the
// principal that created it.
type TripPlan struct {
	Owner                auth.Principal    `json:"pType"`
	TripDetails          TripDetails       `json:"tripDetails"`
	Itinerary            []ItineraryItem   `json:"itinerary"`
	PackingChecklist     PackingChecklist  `json:"packingChecklist"`
	SponsoredSuggestions []PromotedListing `json:"sponsoredSuggestions"`
}
