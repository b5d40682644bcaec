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
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stayease-dev/stayease/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func AddBookmark(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		var input models.BookmarkInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Println("Invalid request data ", err)
			http.Error(w, "Invalid request data", http.StatusBadRequest)
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

		exists := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propObjID})
		if exists.Err() == mongo.ErrNoDocuments {
			access.WriteError(w, fmt.Errorf("%w: property", access.ErrNotFound))
			return
		}

		var existing models.Bookmark
		err = config.BookmarkCollection.FindOne(r.Context(), bson.M{
			"userId":     identity.ID,
			"propertyId": input.PropertyID,
		}).Decode(&existing)
		if err == nil {
			access.WriteError(w, access.ErrAlreadyBookmarked)
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Println("Failed to check bookmarks ", err)
			http.Error(w, "Failed to check bookmarks", http.StatusInternalServerError)
			return
		}

		bookmark := models.Bookmark{
			ID:         primitive.NewObjectID(),
			UserID:     identity.ID,
			PropertyID: input.PropertyID,
			CreatedAt:  time.Now(),
		}

		if _, err := config.BookmarkCollection.InsertOne(r.Context(), bookmark); err != nil {
			// The unique index is the real arbiter under concurrent
			// creates; the pre-check above only covers the common path.
			if mongo.IsDuplicateKeyError(err) {
				access.WriteError(w, access.ErrAlreadyBookmarked)
				return
			}
			log.Println("Failed to add bookmark ", err)
			http.Error(w, "Failed to add bookmark", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Bookmark added successfully",
			Data:    bookmark,
		})
	}
}

// GetBookmarks returns the caller's bookmarked properties that are still
// active.
func GetBookmarks(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := config.BookmarkCollection.Find(r.Context(), bson.M{"userId": identity.ID}, findOptions)
		if err != nil {
			log.Println("Failed to fetch bookmarks ", err)
			http.Error(w, "Failed to fetch bookmarks", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var bookmarks []models.Bookmark
		if err := cursor.All(r.Context(), &bookmarks); err != nil {
			log.Println("Failed to decode bookmarks ", err)
			http.Error(w, "Failed to decode bookmarks", http.StatusInternalServerError)
			return
		}

		propertyIDs := make([]primitive.ObjectID, 0, len(bookmarks))
		for _, b := range bookmarks {
			if objID, err := primitive.ObjectIDFromHex(b.PropertyID); err == nil {
				propertyIDs = append(propertyIDs, objID)
			}
		}

		properties := []models.Property{}
		if len(propertyIDs) > 0 {
			propCursor, err := config.PropertyCollection.Find(r.Context(), bson.M{
				"_id":      bson.M{"$in": propertyIDs},
				"isActive": true,
			})
			if err != nil {
				log.Println("Failed to fetch bookmarked properties ", err)
				http.Error(w, "Failed to fetch bookmarked properties", http.StatusInternalServerError)
				return
			}
			defer propCursor.Close(r.Context())

			if err := propCursor.All(r.Context(), &properties); err != nil {
				log.Println("Failed to decode bookmarked properties ", err)
				http.Error(w, "Failed to decode bookmarked properties", http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched bookmarked properties",
			Data:    properties,
		})
	}
}

// GetBookmarkIDs returns just the property ids the caller has bookmarked,
// for cheap bookmark-state checks.
func GetBookmarkIDs(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		cursor, err := config.BookmarkCollection.Find(r.Context(), bson.M{"userId": identity.ID})
		if err != nil {
			log.Println("Failed to fetch bookmarks ", err)
			http.Error(w, "Failed to fetch bookmarks", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var bookmarks []models.Bookmark
		if err := cursor.All(r.Context(), &bookmarks); err != nil {
			log.Println("Failed to decode bookmarks ", err)
			http.Error(w, "Failed to decode bookmarks", http.StatusInternalServerError)
			return
		}

		ids := make([]string, 0, len(bookmarks))
		for _, b := range bookmarks {
			ids = append(ids, b.PropertyID)
		}

		writeJSON(w, http.StatusOK, ids)
	}
}

func RemoveBookmark(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		propertyID := mux.Vars(r)["propertyId"]

		res, err := config.BookmarkCollection.DeleteOne(r.Context(), bson.M{
			"userId":     identity.ID,
			"propertyId": propertyID,
		})
		if err != nil {
			log.Println("Failed to remove bookmark ", err)
			http.Error(w, "Failed to remove bookmark", http.StatusInternalServerError)
			return
		}

		if res.DeletedCount == 0 {
			access.WriteError(w, fmt.Errorf("%w: bookmark", access.ErrNotFound))
			return
		}

		writeJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Bookmark removed successfully",
		})
	}
}
