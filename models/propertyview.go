package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyView is an append-only event record; it is never updated.
type PropertyView struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID string             `bson:"propertyId" json:"propertyId"`
	UserID     string             `bson:"userId,omitempty" json:"userId,omitempty"`
	UserAgent  string             `bson:"userAgent" json:"userAgent"`
	IP         string             `bson:"ip" json:"ip"`
	ViewedAt   time.Time          `bson:"viewedAt" json:"viewedAt"`
}
