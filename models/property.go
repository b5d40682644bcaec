package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `bson:"lng" json:"lng" validate:"gte=-180,lte=180"`
}

type Location struct {
	Address     string      `bson:"address" json:"address" validate:"required"`
	City        string      `bson:"city" json:"city" validate:"required"`
	State       string      `bson:"state" json:"state" validate:"required"`
	Pincode     string      `bson:"pincode" json:"pincode" validate:"required,len=6,numeric"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates" validate:"required"`
}

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Rent         float64            `bson:"rent" json:"rent"`
	Deposit      float64            `bson:"deposit" json:"deposit"`
	BHK          int                `bson:"bhk" json:"bhk"`
	Furnishing   string             `bson:"furnishing" json:"furnishing"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Area         float64            `bson:"area" json:"area"`
	Location     Location           `bson:"location" json:"location"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	Images       []string           `bson:"images" json:"images"`

	// Owner snapshot, denormalized at creation time. Stays stale on
	// purpose if the owner later edits their profile.
	OwnerID    string `bson:"ownerId" json:"ownerId"`
	OwnerName  string `bson:"ownerName" json:"ownerName"`
	OwnerEmail string `bson:"ownerEmail" json:"ownerEmail"`
	OwnerPhone string `bson:"ownerPhone" json:"ownerPhone"`

	IsVerified    bool      `bson:"isVerified" json:"isVerified"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	AvailableFrom time.Time `bson:"availableFrom" json:"availableFrom"`
	ViewCount     int64     `bson:"viewCount" json:"viewCount"`
	InquiryCount  int64     `bson:"inquiryCount" json:"inquiryCount"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

type PropertyInput struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Rent          float64  `json:"rent" validate:"required,gt=0"`
	Deposit       float64  `json:"deposit" validate:"gte=0"`
	BHK           int      `json:"bhk" validate:"required,gte=1,lte=10"`
	Furnishing    string   `json:"furnishing" validate:"required,oneof='Fully Furnished' 'Semi Furnished' 'Unfurnished'"`
	PropertyType  string   `json:"propertyType" validate:"required,oneof=Apartment House Villa Studio PG"`
	Area          float64  `json:"area" validate:"required,gt=0"`
	Location      Location `json:"location" validate:"required"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images" validate:"required,min=1"`
	AvailableFrom string   `json:"availableFrom" validate:"required"`
}
