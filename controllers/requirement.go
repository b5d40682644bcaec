package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stayease-dev/stayease/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetRequirements lists active tenant requirements, newest first. Public:
// any owner browsing for tenants can read them.
func GetRequirements(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := config.RequirementCollection.Find(r.Context(), bson.M{"isActive": true}, findOptions)
		if err != nil {
			log.Printf("Error fetching requirements: %v", err)
			http.Error(w, "Failed to fetch requirements", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		requirements := []models.Requirement{}
		if err := cursor.All(r.Context(), &requirements); err != nil {
			log.Printf("Error decoding requirements: %v", err)
			http.Error(w, "Failed to decode requirements", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, requirements)
	}
}

func CreateRequirement(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		if rc.Role() != models.RoleTenant {
			access.WriteError(w, fmt.Errorf("%w: only tenants can post requirements", access.ErrForbidden))
			return
		}

		var input models.RequirementInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Invalid requirement payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(input); err != nil {
			access.WriteError(w, err)
			return
		}

		moveIn, err := parseDate(input.MoveInDate)
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid moveInDate", access.ErrValidationFailed))
			return
		}

		// Tenant phone comes from the stored profile; the token does not
		// carry it.
		phone := ""
		if objID, idErr := primitive.ObjectIDFromHex(identity.ID); idErr == nil {
			var tenant models.User
			if err := config.UserCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&tenant); err == nil {
				phone = tenant.Phone
			}
		}

		now := time.Now()
		requirement := models.Requirement{
			ID:           primitive.NewObjectID(),
			Title:        input.Title,
			Description:  input.Description,
			MaxRent:      input.MaxRent,
			BHK:          input.BHK,
			Furnishing:   input.Furnishing,
			PropertyType: input.PropertyType,
			Location:     input.Location,
			Amenities:    input.Amenities,
			TenantID:     identity.ID,
			TenantName:   identity.Name,
			TenantEmail:  identity.Email,
			TenantPhone:  phone,
			MoveInDate:   moveIn,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := config.RequirementCollection.InsertOne(r.Context(), requirement); err != nil {
			log.Printf("Failed to create requirement: %v", err)
			http.Error(w, "Failed to create requirement", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"message": "Requirement posted successfully"})
	}
}
