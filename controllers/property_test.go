package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePropertyPatchConvertsAvailableFrom(t *testing.T) {
	patch := map[string]interface{}{"availableFrom": "2026-12-31"}
	require.NoError(t, validatePropertyPatch(patch))

	// The raw string must be gone; only a real time may be persisted.
	got, ok := patch["availableFrom"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestValidatePropertyPatchRejections(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]interface{}
	}{
		{"unparseable availableFrom", map[string]interface{}{"availableFrom": "31/12/2026"}},
		{"non-string availableFrom", map[string]interface{}{"availableFrom": 20261231}},
		{"zero rent", map[string]interface{}{"rent": float64(0)}},
		{"string rent", map[string]interface{}{"rent": "25000"}},
		{"negative deposit", map[string]interface{}{"deposit": float64(-1)}},
		{"zero area", map[string]interface{}{"area": float64(0)}},
		{"bhk too large", map[string]interface{}{"bhk": float64(11)}},
		{"fractional bhk", map[string]interface{}{"bhk": 2.5}},
		{"unknown furnishing", map[string]interface{}{"furnishing": "Partly Furnished"}},
		{"unknown property type", map[string]interface{}{"propertyType": "Castle"}},
		{"five digit pincode", map[string]interface{}{"location": map[string]interface{}{
			"address": "12 Hill Road",
			"city":    "Mumbai",
			"state":   "Maharashtra",
			"pincode": "40005",
			"coordinates": map[string]interface{}{
				"lat": 19.076,
				"lng": 72.877,
			},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePropertyPatch(tt.patch)
			require.Error(t, err)
			assert.True(t, errors.Is(err, access.ErrValidationFailed))
		})
	}
}

func TestValidatePropertyPatchAccepted(t *testing.T) {
	patch := map[string]interface{}{
		"title":      "2BHK near station, renovated",
		"rent":       float64(27000),
		"bhk":        float64(3),
		"furnishing": "Fully Furnished",
		"location": map[string]interface{}{
			"address": "12 Hill Road",
			"city":    "Mumbai",
			"state":   "Maharashtra",
			"pincode": "400050",
			"coordinates": map[string]interface{}{
				"lat": 19.076,
				"lng": 72.877,
			},
		},
	}
	assert.NoError(t, validatePropertyPatch(patch))
}
