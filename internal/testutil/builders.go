package testutil

import (
	"time"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
)

// TripDetailsBuilder provides a fluent interface for building TripDetails objects for testing.
type TripDetailsBuilder struct {
	d model.TripDetails
}

// NewTripDetails creates a builder with a valid week-long solo trip to Paris.
func NewTripDetails() *TripDetailsBuilder {
	start := TestTime()
	return &TripDetailsBuilder{d: model.TripDetails{
		Destination: "Paris",
		TripType:    "solo",
		StartDate:   model.TimeFrom(start),
		EndDate:     model.TimeFrom(start.Add(7 * 24 * time.Hour)),
	}}
}

// WithDestination sets the destination.
func (b *TripDetailsBuilder) WithDestination(dest string) *TripDetailsBuilder {
	b.d.Destination = dest
	return b
}

// WithTripType sets the trip type.
func (b *TripDetailsBuilder) WithTripType(tripType string) *TripDetailsBuilder {
	b.d.TripType = tripType
	return b
}

// WithDates sets the start and end instants.
func (b *TripDetailsBuilder) WithDates(start, end time.Time) *TripDetailsBuilder {
	b.d.StartDate = model.TimeFrom(start)
	b.d.EndDate = model.TimeFrom(end)
	return b
}

// WithInterests sets the optional interests.
func (b *TripDetailsBuilder) WithInterests(s string) *TripDetailsBuilder {
	b.d.Interests = model.Optional(s)
	return b
}

// WithNotes sets the optional notes.
func (b *TripDetailsBuilder) WithNotes(s string) *TripDetailsBuilder {
	b.d.Notes = model.Optional(s)
	return b
}

// Build returns the constructed TripDetails.
func (b *TripDetailsBuilder) Build() model.TripDetails {
	return b.d
}

// ListingBuilder provides a fluent interface for building PromotedListing objects for testing.
type ListingBuilder struct {
	l model.PromotedListing
}

// NewListing creates a builder with a valid hotel listing.
func NewListing() *ListingBuilder {
	return &ListingBuilder{l: model.PromotedListing{
		Name:        "Hotel Lumiere",
		Category:    "hotel",
		Destination: "Paris",
		Description: "Boutique rooms near the river",
		ContactInfo: "+33 1 23 45 67 89",
	}}
}

// WithID sets the listing id.
func (b *ListingBuilder) WithID(id string) *ListingBuilder {
	b.l.ID = id
	return b
}

// WithName sets the listing name.
func (b *ListingBuilder) WithName(name string) *ListingBuilder {
	b.l.Name = name
	return b
}

// WithCategory sets the category.
func (b *ListingBuilder) WithCategory(c string) *ListingBuilder {
	b.l.Category = c
	return b
}

// WithDestination sets the destination.
func (b *ListingBuilder) WithDestination(d string) *ListingBuilder {
	b.l.Destination = d
	return b
}

// WithPromoText sets the optional promo text.
func (b *ListingBuilder) WithPromoText(s string) *ListingBuilder {
	b.l.PromoText = model.Optional(s)
	return b
}

// WithOwner sets the owner.
func (b *ListingBuilder) WithOwner(p string) *ListingBuilder {
	b.l.Owner = auth.Principal(p)
	return b
}

// Build returns the constructed PromotedListing.
func (b *ListingBuilder) Build() model.PromotedListing {
	return b.l
}
