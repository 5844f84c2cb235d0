package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

func validTrip() TripDetails {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return TripDetails{
		Destination: "Goa",
		TripType:    "solo",
		StartDate:   TimeFrom(start),
		EndDate:     TimeFrom(start.Add(72 * time.Hour)),
	}
}

func TestTripDetails_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*TripDetails)
		field string
	}{
		{"valid", func(*TripDetails) {}, ""},
		{"same day", func(d *TripDetails) { d.EndDate = d.StartDate }, ""},
		{"missing destination", func(d *TripDetails) { d.Destination = "  " }, "destination"},
		{"missing type", func(d *TripDetails) { d.TripType = "" }, "tripType"},
		{"missing start", func(d *TripDetails) { d.StartDate = 0 }, "startDate"},
		{"end before start", func(d *TripDetails) { d.EndDate = d.StartDate - 1 }, "endDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validTrip()
			tt.edit(&d)
			err := d.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestTripDetails_OptionalFieldsOmittedWhenUnspecified(t *testing.T) {
	d := validTrip()
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "interests")
	assert.NotContains(t, string(raw), "notes")

	d.Interests = Optional("beaches")
	raw, err = json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"interests":"beaches"`)

	var back TripDetails
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "beaches", OptionalString(back.Interests))
	assert.Equal(t, "", OptionalString(back.Notes))
}

func TestTime_RoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
	assert.True(t, TimeFrom(now).Std().Equal(now))
	assert.True(t, Time(0).IsZero())
}

func TestParseAppUserRole(t *testing.T) {
	r, err := ParseAppUserRole(" Business")
	require.NoError(t, err)
	assert.Equal(t, AppRoleBusiness, r)

	_, err = ParseAppUserRole("admin")
	assert.Error(t, err)
}
