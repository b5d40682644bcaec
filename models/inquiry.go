package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryStatus string

const (
	InquiryPending       InquiryStatus = "pending"
	InquiryReplied       InquiryStatus = "replied"
	InquiryInterested    InquiryStatus = "interested"
	InquiryNotInterested InquiryStatus = "not_interested"
	InquiryClosed        InquiryStatus = "closed"
)

type InquiryReply struct {
	SenderID   string    `bson:"senderId" json:"senderId"`
	SenderName string    `bson:"senderName" json:"senderName"`
	SenderRole Role      `bson:"senderRole" json:"senderRole"`
	Message    string    `bson:"message" json:"message"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

type Inquiry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID    string             `bson:"propertyId" json:"propertyId"`
	PropertyTitle string             `bson:"propertyTitle" json:"propertyTitle"`

	OwnerID    string `bson:"ownerId" json:"ownerId"`
	OwnerName  string `bson:"ownerName" json:"ownerName"`
	OwnerEmail string `bson:"ownerEmail" json:"ownerEmail"`

	// Tenant snapshot taken at creation, not refreshed afterwards.
	TenantID    string `bson:"tenantId" json:"tenantId"`
	TenantName  string `bson:"tenantName" json:"tenantName"`
	TenantEmail string `bson:"tenantEmail" json:"tenantEmail"`
	TenantPhone string `bson:"tenantPhone" json:"tenantPhone"`

	Message    string         `bson:"message" json:"message"`
	MoveInDate *time.Time     `bson:"moveInDate,omitempty" json:"moveInDate,omitempty"`
	Budget     *float64       `bson:"budget,omitempty" json:"budget,omitempty"`
	Status     InquiryStatus  `bson:"status" json:"status"`
	Replies    []InquiryReply `bson:"replies" json:"replies"`
	IsRead     bool           `bson:"isRead" json:"isRead"`
	ReadAt     *time.Time     `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type InquiryInput struct {
	PropertyID string   `json:"propertyId" validate:"required"`
	Message    string   `json:"message" validate:"required"`
	Phone      string   `json:"phone" validate:"required"`
	MoveInDate string   `json:"moveInDate"`
	Budget     *float64 `json:"budget"`
}

type ReplyInput struct {
	Message string `json:"message" validate:"required"`
}

type InquiryStatusInput struct {
	Status InquiryStatus `json:"status" validate:"required"`
}
