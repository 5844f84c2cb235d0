package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleListings() []PromotedListing {
	return []PromotedListing{
		{ID: "1", Name: "Sea Breeze", Category: "hotel", Destination: "Goa"},
		{ID: "2", Name: "Spice Route", Category: "restaurant", Destination: "North Goa"},
		{ID: "3", Name: "Fort View", Category: "tourist place", Destination: "Jaipur"},
	}
}

func ids(ls []PromotedListing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestFilterListings(t *testing.T) {
	tests := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{"no filter", ListingFilter{}, []string{"1", "2", "3"}},
		{"all category", ListingFilter{Category: CategoryAll}, []string{"1", "2", "3"}},
		{"exact category", ListingFilter{Category: "hotel"}, []string{"1"}},
		{"search destination", ListingFilter{Search: "goa"}, []string{"1", "2"}},
		{"search name", ListingFilter{Search: "FORT"}, []string{"3"}},
		{"category and search", ListingFilter{Category: "restaurant", Search: "goa"}, []string{"2"}},
		{"no match", ListingFilter{Category: "resort"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterListings(sampleListings(), tt.filter)))
		})
	}
}

func TestMatchSponsored(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ids(MatchSponsored("goa", sampleListings())))
	// destination containing a listing's destination also matches
	assert.Equal(t, []string{"3"}, ids(MatchSponsored("Jaipur, Rajasthan", sampleListings())))
	assert.Empty(t, MatchSponsored("", sampleListings()))
}

func TestPromotedListing_Validate(t *testing.T) {
	l := PromotedListing{Name: "n", Category: "hotel", Destination: "d", Description: "x", ContactInfo: "c"}
	assert.NoError(t, l.Validate())
	l.ContactInfo = " "
	assert.Error(t, l.Validate())
}
