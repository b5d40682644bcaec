package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/lifecycle"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stayease-dev/stayease/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetInquiries lists inquiries scoped by role: tenants see the ones they
// sent, owners the ones on their listings, admins everything.
func GetInquiries(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, _, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		filter := rc.InquiryFilter()
		if status := r.URL.Query().Get("status"); status != "" && status != "all" {
			filter["status"] = status
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := config.InquiryCollection.Find(r.Context(), filter, findOptions)
		if err != nil {
			log.Printf("Error fetching inquiries: %v", err)
			http.Error(w, "Error fetching inquiries", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		inquiries := []models.Inquiry{}
		if err := cursor.All(r.Context(), &inquiries); err != nil {
			log.Printf("Error decoding inquiries: %v", err)
			http.Error(w, "Error decoding inquiries", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"inquiries": inquiries})
	}
}

// CreateInquiry opens a tenant-to-owner contact request. At most one
// active (pending/replied) inquiry may exist per tenant/property pair.
func CreateInquiry(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		if rc.Role() != models.RoleTenant {
			access.WriteError(w, fmt.Errorf("%w: only tenants can send inquiries", access.ErrForbidden))
			return
		}

		var input models.InquiryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Invalid inquiry payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(input); err != nil {
			access.WriteError(w, err)
			return
		}

		propObjID, err := primitive.ObjectIDFromHex(input.PropertyID)
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid property id", access.ErrValidationFailed))
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propObjID}).Decode(&property)
		if err == mongo.ErrNoDocuments {
			access.WriteError(w, fmt.Errorf("%w: property", access.ErrNotFound))
			return
		}
		if err != nil {
			log.Printf("Error fetching property %s: %v", input.PropertyID, err)
			http.Error(w, "Error fetching property", http.StatusInternalServerError)
			return
		}

		dup := config.InquiryCollection.FindOne(r.Context(), bson.M{
			"propertyId": input.PropertyID,
			"tenantId":   identity.ID,
			"status":     bson.M{"$in": []models.InquiryStatus{models.InquiryPending, models.InquiryReplied}},
		})
		if dup.Err() == nil {
			access.WriteError(w, access.ErrDuplicateInquiry)
			return
		}
		if dup.Err() != mongo.ErrNoDocuments {
			log.Printf("Failed duplicate-inquiry check: %v", dup.Err())
			http.Error(w, "Error checking inquiries", http.StatusInternalServerError)
			return
		}

		var moveIn *time.Time
		if input.MoveInDate != "" {
			if t, err := parseDate(input.MoveInDate); err == nil {
				moveIn = &t
			} else {
				access.WriteError(w, fmt.Errorf("%w: invalid moveInDate", access.ErrValidationFailed))
				return
			}
		}

		now := time.Now()
		inquiry := models.Inquiry{
			ID:         primitive.NewObjectID(),
			Message:    input.Message,
			MoveInDate: moveIn,
			Budget:     input.Budget,
			Status:     models.InquiryPending,
			Replies:    []models.InquiryReply{},
			IsRead:     false,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		snapshotInquiryParties(&inquiry, property, identity, input.Phone)

		if _, err := config.InquiryCollection.InsertOne(r.Context(), inquiry); err != nil {
			log.Printf("Failed to create inquiry: %v", err)
			http.Error(w, "Failed to create inquiry", http.StatusInternalServerError)
			return
		}

		if _, err := config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": propObjID},
			bson.M{"$inc": bson.M{"inquiryCount": 1}},
		); err != nil {
			log.Printf("Failed to increment inquiry count for property %s: %v", input.PropertyID, err)
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Inquiry sent successfully",
			"inquiry": map[string]interface{}{
				"id":     inquiry.ID.Hex(),
				"status": inquiry.Status,
			},
		})
	}
}

// snapshotInquiryParties denormalizes both sides onto the inquiry at
// creation time. The copies stay stale on later profile or listing
// edits; the conversation keeps the names it started with.
func snapshotInquiryParties(inq *models.Inquiry, property models.Property, tenant access.Identity, tenantPhone string) {
	inq.PropertyID = property.ID.Hex()
	inq.PropertyTitle = property.Title
	inq.OwnerID = property.OwnerID
	inq.OwnerName = property.OwnerName
	inq.OwnerEmail = property.OwnerEmail
	inq.TenantID = tenant.ID
	inq.TenantName = tenant.Name
	inq.TenantEmail = tenant.Email
	inq.TenantPhone = tenantPhone
}

func loadInquiry(r *http.Request) (*models.Inquiry, error) {
	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid inquiry id", access.ErrValidationFailed)
	}
	var inquiry models.Inquiry
	err = config.InquiryCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&inquiry)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: inquiry", access.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", access.ErrStoreUnavailable, err)
	}
	return &inquiry, nil
}

// ReplyToInquiry appends a message from either participant. Status is
// forced back to replied; the reopen flag decides whether that also
// applies to inquiries already in a sink state.
func ReplyToInquiry(settings config.Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		var input models.ReplyInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Invalid reply payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(input); err != nil {
			access.WriteError(w, err)
			return
		}

		inquiry, err := loadInquiry(r)
		if err != nil {
			access.WriteError(w, err)
			return
		}

		reply, err := lifecycle.ApplyReply(inquiry, identity, input.Message, settings.ReplyReopens)
		if err != nil {
			access.WriteError(w, err)
			return
		}

		update := bson.M{
			"$push": bson.M{"replies": reply},
			"$set": bson.M{
				"status":    models.InquiryReplied,
				"isRead":    false,
				"updatedAt": time.Now(),
			},
			"$unset": bson.M{"readAt": ""},
		}
		if _, err := config.InquiryCollection.UpdateOne(r.Context(), bson.M{"_id": inquiry.ID}, update); err != nil {
			log.Printf("Failed to append reply to inquiry %s: %v", inquiry.ID.Hex(), err)
			http.Error(w, "Failed to send reply", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Reply sent successfully",
			"reply":   reply,
		})
	}
}

func MarkInquiryRead(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		inquiry, err := loadInquiry(r)
		if err != nil {
			access.WriteError(w, err)
			return
		}

		now := time.Now()
		if err := lifecycle.MarkRead(inquiry, identity.ID, now); err != nil {
			access.WriteError(w, err)
			return
		}

		if _, err := config.InquiryCollection.UpdateOne(r.Context(),
			bson.M{"_id": inquiry.ID},
			bson.M{"$set": bson.M{"isRead": true, "readAt": now}},
		); err != nil {
			log.Printf("Failed to mark inquiry %s read: %v", inquiry.ID.Hex(), err)
			http.Error(w, "Failed to mark as read", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Marked as read"})
	}
}

func UpdateInquiryStatus(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		var input models.InquiryStatusInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Invalid status payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		inquiry, err := loadInquiry(r)
		if err != nil {
			access.WriteError(w, err)
			return
		}

		if err := lifecycle.SetStatus(inquiry, identity.ID, input.Status); err != nil {
			access.WriteError(w, err)
			return
		}

		if _, err := config.InquiryCollection.UpdateOne(r.Context(),
			bson.M{"_id": inquiry.ID},
			bson.M{"$set": bson.M{"status": input.Status, "updatedAt": time.Now()}},
		); err != nil {
			log.Printf("Failed to update inquiry %s status: %v", inquiry.ID.Hex(), err)
			http.Error(w, "Failed to update inquiry", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Inquiry updated successfully"})
	}
}
