package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequirementLocation struct {
	City           string   `bson:"city" json:"city" validate:"required"`
	State          string   `bson:"state" json:"state" validate:"required"`
	PreferredAreas []string `bson:"preferredAreas" json:"preferredAreas"`
}

type Requirement struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	MaxRent      float64             `bson:"maxRent" json:"maxRent"`
	BHK          int                 `bson:"bhk" json:"bhk"`
	Furnishing   string              `bson:"furnishing" json:"furnishing"`
	PropertyType string              `bson:"propertyType" json:"propertyType"`
	Location     RequirementLocation `bson:"location" json:"location"`
	Amenities    []string            `bson:"amenities" json:"amenities"`
	TenantID     string              `bson:"tenantId" json:"tenantId"`
	TenantName   string              `bson:"tenantName" json:"tenantName"`
	TenantEmail  string              `bson:"tenantEmail" json:"tenantEmail"`
	TenantPhone  string              `bson:"tenantPhone" json:"tenantPhone"`
	MoveInDate   time.Time           `bson:"moveInDate" json:"moveInDate"`
	IsActive     bool                `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type RequirementInput struct {
	Title        string              `json:"title" validate:"required"`
	Description  string              `json:"description" validate:"required"`
	MaxRent      float64             `json:"maxRent" validate:"required,gt=0"`
	BHK          int                 `json:"bhk" validate:"required,gte=1,lte=10"`
	Furnishing   string              `json:"furnishing" validate:"required,oneof='Fully Furnished' 'Semi Furnished' 'Unfurnished' 'Any'"`
	PropertyType string              `json:"propertyType" validate:"required,oneof=Apartment House Villa Studio PG Any"`
	Location     RequirementLocation `json:"location" validate:"required"`
	Amenities    []string            `json:"amenities"`
	MoveInDate   string              `json:"moveInDate" validate:"required"`
}
