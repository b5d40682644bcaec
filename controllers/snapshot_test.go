package controllers

import (
	"testing"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListingOwnerSnapshotStaysStale(t *testing.T) {
	owner := access.Identity{ID: "o1", Name: "Asha", Email: "asha@example.com", Role: models.RoleOwner}

	var listing models.Property
	snapshotListingOwner(&listing, owner, "9820012345")

	// The owner renames their account afterwards; the listing keeps the
	// contact details it was posted with.
	owner.Name = "Asha Rao"
	owner.Email = "asha.rao@example.com"

	assert.Equal(t, "o1", listing.OwnerID)
	assert.Equal(t, "Asha", listing.OwnerName)
	assert.Equal(t, "asha@example.com", listing.OwnerEmail)
	assert.Equal(t, "9820012345", listing.OwnerPhone)
}

func TestInquiryPartySnapshotsStayStale(t *testing.T) {
	property := models.Property{
		ID:         primitive.NewObjectID(),
		Title:      "2BHK near station",
		OwnerID:    "o1",
		OwnerName:  "Asha",
		OwnerEmail: "asha@example.com",
	}
	tenant := access.Identity{ID: "t1", Name: "Ravi", Email: "ravi@example.com", Role: models.RoleTenant}

	var inquiry models.Inquiry
	snapshotInquiryParties(&inquiry, property, tenant, "9876543210")

	assert.Equal(t, property.ID.Hex(), inquiry.PropertyID)

	// Both sides edit their records after the inquiry opened.
	property.Title = "2BHK near station (renovated)"
	property.OwnerName = "Asha Rao"
	tenant.Name = "Ravi K"
	tenant.Email = "ravi.k@example.com"

	assert.Equal(t, "2BHK near station", inquiry.PropertyTitle)
	assert.Equal(t, "o1", inquiry.OwnerID)
	assert.Equal(t, "Asha", inquiry.OwnerName)
	assert.Equal(t, "asha@example.com", inquiry.OwnerEmail)
	assert.Equal(t, "t1", inquiry.TenantID)
	assert.Equal(t, "Ravi", inquiry.TenantName)
	assert.Equal(t, "ravi@example.com", inquiry.TenantEmail)
	assert.Equal(t, "9876543210", inquiry.TenantPhone)
}
