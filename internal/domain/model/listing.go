package model

import (
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

// KnownListingCategories are the categories front ends offer. Category is an
// unenforced tag: the remote store accepts any string.
var KnownListingCategories = []string{"hotel", "resort", "restaurant", "tourist place", "other"}

// CategoryAll is the filter value that matches every category.
const CategoryAll = "all"

// PromotedListing is a business owner's advertisement.
type PromotedListing struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Category    string                    `json:"category"`
	Destination string                    `json:"destination"`
	Description string                    `json:"description"`
	ContactInfo string                    `json:"contactInfo"`
	PromoText   nullable.Nullable[string] `json:"promoText,omitempty"`
	Owner       auth.Principal            `json:"owner"`
}

// Validate checks required-field presence.
func (l PromotedListing) Validate() error {
	required := []struct{ field, value string }{
		{"name", l.Name},
		{"category", l.Category},
		{"destination", l.Destination},
		{"description", l.Description},
		{"contactInfo", l.ContactInfo},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.ValidationField(r.field, r.field+" is required")
		}
	}
	return nil
}

// ProfileEntry pairs a principal with its profile, as returned by admin listing.
type ProfileEntry struct {
	Principal auth.Principal `json:"principal"`
	Profile   UserProfile    `json:"profile"`
}
