package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListAllProperties gives admins the full inventory, active or not.
func ListAllProperties(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := config.PropertyCollection.Find(r.Context(), bson.M{}, findOptions)
		if err != nil {
			log.Printf("Error fetching properties: %v", err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"properties": properties})
	}
}

// ModerateProperty applies the admin moderation actions. Reject both
// unverifies and deactivates the listing.
func ModerateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid property id", access.ErrValidationFailed))
			return
		}

		var body struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Action == "" {
			access.WriteError(w, fmt.Errorf("%w: action is required", access.ErrValidationFailed))
			return
		}

		exists := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID})
		if exists.Err() == mongo.ErrNoDocuments {
			access.WriteError(w, fmt.Errorf("%w: property", access.ErrNotFound))
			return
		}

		var updates bson.M
		var message string
		switch body.Action {
		case "verify":
			updates = bson.M{"isVerified": true}
			message = "Property verified successfully"
		case "reject":
			updates = bson.M{"isVerified": false, "isActive": false}
			message = "Property rejected and deactivated"
		case "activate":
			updates = bson.M{"isActive": true}
			message = "Property activated successfully"
		case "deactivate":
			updates = bson.M{"isActive": false}
			message = "Property deactivated successfully"
		default:
			access.WriteError(w, fmt.Errorf("%w: invalid action %q", access.ErrValidationFailed, body.Action))
			return
		}
		updates["updatedAt"] = time.Now()

		if _, err := config.PropertyCollection.UpdateOne(r.Context(), bson.M{"_id": objID}, bson.M{"$set": updates}); err != nil {
			log.Printf("Failed to moderate property %s: %v", objID.Hex(), err)
			http.Error(w, "Failed to update property", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}
