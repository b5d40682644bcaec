package controllers

import (
	"context"
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

type userWithStats struct {
	models.User   `bson:",inline"`
	PropertyCount int64 `json:"propertyCount"`
	InquiryCount  int64 `json:"inquiryCount"`
	BookmarkCount int64 `json:"bookmarkCount,omitempty"`
}

// ListUsers returns every account with per-owner listing/inquiry counts.
func ListUsers(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetProjection(bson.M{"password": 0})

		cursor, err := config.UserCollection.Find(r.Context(), bson.M{}, findOptions)
		if err != nil {
			log.Printf("Error fetching users: %v", err)
			http.Error(w, "Error fetching users", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var users []models.User
		if err := cursor.All(r.Context(), &users); err != nil {
			log.Printf("Error decoding users: %v", err)
			http.Error(w, "Error decoding users", http.StatusInternalServerError)
			return
		}

		out := make([]userWithStats, 0, len(users))
		for _, u := range users {
			stats := userWithStats{User: u}
			if u.Role == models.RoleOwner {
				id := u.ID.Hex()
				stats.PropertyCount, _ = countDocs(r.Context(), config.PropertyCollection, bson.M{"ownerId": id})
				stats.InquiryCount, _ = countDocs(r.Context(), config.InquiryCollection, bson.M{"ownerId": id})
			}
			out = append(out, stats)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"users": out})
	}
}

func GetUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid user id", access.ErrValidationFailed))
			return
		}

		var user models.User
		err = config.UserCollection.FindOne(r.Context(), bson.M{"_id": objID},
			options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&user)
		if err == mongo.ErrNoDocuments {
			access.WriteError(w, fmt.Errorf("%w: user", access.ErrNotFound))
			return
		}
		if err != nil {
			log.Printf("Error fetching user %s: %v", objID.Hex(), err)
			http.Error(w, "Error fetching user", http.StatusInternalServerError)
			return
		}

		id := user.ID.Hex()
		stats := userWithStats{User: user}
		inquiryField := "tenantId"
		if user.Role == models.RoleOwner {
			inquiryField = "ownerId"
			stats.PropertyCount, _ = countDocs(r.Context(), config.PropertyCollection, bson.M{"ownerId": id})
		}
		stats.InquiryCount, _ = countDocs(r.Context(), config.InquiryCollection, bson.M{inquiryField: id})
		if user.Role == models.RoleTenant {
			stats.BookmarkCount, _ = countDocs(r.Context(), config.BookmarkCollection, bson.M{"userId": id})
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// UpdateUser applies one of the admin account actions. Deactivate,
// demote, and delete refuse the admin's own account.
func UpdateUser(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, _, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		adminCtx, ok := rc.(access.AdminContext)
		if !ok {
			access.WriteError(w, access.ErrForbidden)
			return
		}

		targetID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(targetID)
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid user id", access.ErrValidationFailed))
			return
		}

		var body struct {
			Action access.AdminAction `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Action == "" {
			access.WriteError(w, fmt.Errorf("%w: action is required", access.ErrValidationFailed))
			return
		}

		if err := adminCtx.CanTarget(targetID, body.Action); err != nil {
			access.WriteError(w, err)
			return
		}

		var user models.User
		err = config.UserCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			access.WriteError(w, fmt.Errorf("%w: user", access.ErrNotFound))
			return
		}
		if err != nil {
			log.Printf("Error fetching user %s: %v", targetID, err)
			http.Error(w, "Error fetching user", http.StatusInternalServerError)
			return
		}

		updateData := bson.M{}
		var message string

		switch body.Action {
		case access.ActionActivate:
			updateData["isActive"] = true
			message = fmt.Sprintf("User %s has been activated", user.Name)
		case access.ActionDeactivate:
			updateData["isActive"] = false
			message = fmt.Sprintf("User %s has been deactivated", user.Name)
		case access.ActionPromote:
			if user.Role == models.RoleAdmin {
				access.WriteError(w, fmt.Errorf("%w: user is already an admin", access.ErrValidationFailed))
				return
			}
			updateData["role"] = models.RoleAdmin
			message = fmt.Sprintf("User %s has been promoted to admin", user.Name)
		case access.ActionDemote:
			if user.Role != models.RoleAdmin {
				access.WriteError(w, fmt.Errorf("%w: user is not an admin", access.ErrValidationFailed))
				return
			}
			updateData["role"] = models.RoleOwner
			message = fmt.Sprintf("User %s has been demoted from admin", user.Name)
		case access.ActionDelete:
			if err := deleteUserCascade(r.Context(), targetID, objID); err != nil {
				log.Printf("Cascade delete failed for user %s: %v", targetID, err)
				http.Error(w, "Failed to delete user", http.StatusInternalServerError)
				return
			}
			go func() {
				deletePropertyCache(redisClient)
			}()
			writeJSON(w, http.StatusOK, map[string]string{
				"message": fmt.Sprintf("User %s and all related data have been deleted", user.Name),
			})
			return
		default:
			access.WriteError(w, fmt.Errorf("%w: invalid action %q", access.ErrValidationFailed, body.Action))
			return
		}

		updateData["updatedAt"] = time.Now()
		if _, err := config.UserCollection.UpdateOne(r.Context(), bson.M{"_id": objID}, bson.M{"$set": updateData}); err != nil {
			log.Printf("Failed to update user %s: %v", targetID, err)
			http.Error(w, "Failed to update user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

// deleteUserCascade removes the account and everything hanging off it:
// owned properties (plus their bookmarks and view events), inquiries on
// either side, the user's bookmarks, and their requirements.
func deleteUserCascade(ctx context.Context, userID string, objID primitive.ObjectID) error {
	// Collect owned property ids first so their bookmarks/views can go too.
	cursor, err := config.PropertyCollection.Find(ctx, bson.M{"ownerId": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	var owned []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &owned); err != nil {
		return err
	}
	ownedIDs := make([]string, 0, len(owned))
	for _, p := range owned {
		ownedIDs = append(ownedIDs, p.ID.Hex())
	}

	if _, err := config.PropertyCollection.DeleteMany(ctx, bson.M{"ownerId": userID}); err != nil {
		return err
	}
	if _, err := config.InquiryCollection.DeleteMany(ctx, bson.M{
		"$or": []bson.M{{"ownerId": userID}, {"tenantId": userID}},
	}); err != nil {
		return err
	}
	if _, err := config.BookmarkCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return err
	}
	if _, err := config.RequirementCollection.DeleteMany(ctx, bson.M{"tenantId": userID}); err != nil {
		return err
	}
	if len(ownedIDs) > 0 {
		if _, err := config.BookmarkCollection.DeleteMany(ctx, bson.M{"propertyId": bson.M{"$in": ownedIDs}}); err != nil {
			return err
		}
		if _, err := config.ViewCollection.DeleteMany(ctx, bson.M{"propertyId": bson.M{"$in": ownedIDs}}); err != nil {
			return err
		}
	}

	_, err = config.UserCollection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
