package utils

import (
	"errors"
	"testing"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPropertyInput() models.PropertyInput {
	return models.PropertyInput{
		Title:        "2BHK near station",
		Description:  "Bright, airy flat",
		Rent:         25000,
		Deposit:      50000,
		BHK:          2,
		Furnishing:   "Semi Furnished",
		PropertyType: "Apartment",
		Area:         780,
		Location: models.Location{
			Address: "12 Hill Road",
			City:    "Mumbai",
			State:   "Maharashtra",
			Pincode: "400050",
			Coordinates: models.Coordinates{
				Lat: 19.076,
				Lng: 72.877,
			},
		},
		Images:        []string{"https://cdn.example.com/p1.webp"},
		AvailableFrom: "2026-09-01",
	}
}

func TestValidatePropertyInputAccepted(t *testing.T) {
	assert.NoError(t, ValidateStruct(validPropertyInput()))
}

func TestValidatePropertyInputRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.PropertyInput)
	}{
		{"five digit pincode", func(p *models.PropertyInput) { p.Location.Pincode = "40005" }},
		{"seven digit pincode", func(p *models.PropertyInput) { p.Location.Pincode = "4000501" }},
		{"non-numeric pincode", func(p *models.PropertyInput) { p.Location.Pincode = "40005a" }},
		{"latitude out of range", func(p *models.PropertyInput) { p.Location.Coordinates.Lat = 95 }},
		{"longitude out of range", func(p *models.PropertyInput) { p.Location.Coordinates.Lng = -200 }},
		{"unknown furnishing", func(p *models.PropertyInput) { p.Furnishing = "Partly Furnished" }},
		{"unknown property type", func(p *models.PropertyInput) { p.PropertyType = "Castle" }},
		{"zero rent", func(p *models.PropertyInput) { p.Rent = 0 }},
		{"negative deposit", func(p *models.PropertyInput) { p.Deposit = -1 }},
		{"bhk too large", func(p *models.PropertyInput) { p.BHK = 11 }},
		{"no images", func(p *models.PropertyInput) { p.Images = nil }},
		{"missing title", func(p *models.PropertyInput) { p.Title = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validPropertyInput()
			tt.mutate(&input)
			err := ValidateStruct(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, access.ErrValidationFailed))
		})
	}
}

func TestValidateBoundaryCoordinates(t *testing.T) {
	input := validPropertyInput()
	input.Location.Coordinates.Lat = 90
	input.Location.Coordinates.Lng = -180
	assert.NoError(t, ValidateStruct(input))
}

func TestValidateLoginInput(t *testing.T) {
	good := models.LoginInput{Email: "ravi@example.com", Password: "hunter22"}
	assert.NoError(t, ValidateStruct(good))

	assert.Error(t, ValidateStruct(models.LoginInput{Email: "not-an-email", Password: "hunter22"}))
	assert.Error(t, ValidateStruct(models.LoginInput{Email: "ravi@example.com"}))
}

func TestValidateSignupInput(t *testing.T) {
	good := models.SignupInput{Name: "Ravi", Email: "ravi@example.com", Password: "hunter22", Role: models.RoleTenant}
	assert.NoError(t, ValidateStruct(good))

	bad := good
	bad.Role = models.RoleAdmin
	assert.Error(t, ValidateStruct(bad), "admin accounts cannot be self-registered")

	bad = good
	bad.Password = "short"
	assert.Error(t, ValidateStruct(bad))

	bad = good
	bad.Email = "not-an-email"
	assert.Error(t, ValidateStruct(bad))
}
