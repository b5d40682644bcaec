package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stayease-dev/stayease/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllProperties is the public listing: active properties only, newest
// first, paginated, served from redis when possible.
func GetAllProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheKey := listingCacheKey(r.URL.Query())

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cachedData))
			return
		}
		if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		page, limit := parsePagination(r)
		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := config.PropertyCollection.Find(r.Context(), bson.M{"isActive": true}, findOptions)
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

		resultBytes, err := json.Marshal(properties)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

func GetPropertyByID(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid property id", access.ErrValidationFailed))
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&property)
		if err == mongo.ErrNoDocuments {
			access.WriteError(w, fmt.Errorf("%w: property", access.ErrNotFound))
			return
		}
		if err != nil {
			log.Printf("Error fetching property %s: %v", objID.Hex(), err)
			http.Error(w, "Error fetching property", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, property)
	}
}

// GetMyProperties lists the caller's own listings. Owner only.
func GetMyProperties(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, _, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		if rc.Role() != models.RoleOwner {
			access.WriteError(w, fmt.Errorf("%w: owner account required", access.ErrForbidden))
			return
		}

		filter, _ := rc.PropertyFilter()
		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := config.PropertyCollection.Find(r.Context(), filter, findOptions)
		if err != nil {
			log.Printf("Error fetching owner properties: %v", err)
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

		writeJSON(w, http.StatusOK, properties)
	}
}

func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		if rc.Role() != models.RoleOwner {
			access.WriteError(w, fmt.Errorf("%w: only owners can list properties", access.ErrForbidden))
			return
		}

		var input models.PropertyInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Invalid request body: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := utils.ValidateStruct(input); err != nil {
			access.WriteError(w, err)
			return
		}

		availableFrom, err := parseDate(input.AvailableFrom)
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid availableFrom date", access.ErrValidationFailed))
			return
		}

		// Snapshot the owner's contact details onto the listing. Phone
		// comes from the stored profile, the rest from the token.
		var owner models.User
		ownerPhone := ""
		ownerObjID, idErr := primitive.ObjectIDFromHex(identity.ID)
		if idErr == nil {
			if err := config.UserCollection.FindOne(r.Context(), bson.M{"_id": ownerObjID}).Decode(&owner); err == nil {
				ownerPhone = owner.Phone
			}
		}

		now := time.Now()
		property := models.Property{
			ID:            primitive.NewObjectID(),
			Title:         input.Title,
			Description:   input.Description,
			Rent:          input.Rent,
			Deposit:       input.Deposit,
			BHK:           input.BHK,
			Furnishing:    input.Furnishing,
			PropertyType:  input.PropertyType,
			Area:          input.Area,
			Location:      input.Location,
			Amenities:     input.Amenities,
			Images:        input.Images,
			IsVerified:    false,
			IsActive:      true,
			AvailableFrom: availableFrom,
			ViewCount:     0,
			InquiryCount:  0,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		snapshotListingOwner(&property, identity, ownerPhone)

		if _, err := config.PropertyCollection.InsertOne(r.Context(), property); err != nil {
			log.Printf("Insert failed: %v", err)
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		writeJSON(w, http.StatusCreated, property)
	}
}

func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		if rc.Role() != models.RoleOwner {
			access.WriteError(w, fmt.Errorf("%w: only owners can edit properties", access.ErrForbidden))
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid property id", access.ErrValidationFailed))
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		// Protected fields: identity, snapshot, and counters never change
		// through the edit endpoint.
		for _, k := range []string{"_id", "ownerId", "ownerName", "ownerEmail", "ownerPhone",
			"viewCount", "inquiryCount", "isVerified", "createdAt"} {
			delete(updateData, k)
		}

		// A patched field that would not pass creation must not land in
		// the document either; a malformed availableFrom in particular
		// breaks every later decode of the record.
		if err := validatePropertyPatch(updateData); err != nil {
			access.WriteError(w, err)
			return
		}
		updateData["updatedAt"] = time.Now()

		filter := bson.M{"_id": objID, "ownerId": identity.ID}
		res, err := config.PropertyCollection.UpdateOne(r.Context(), filter, bson.M{"$set": updateData})
		if err != nil {
			log.Printf("Update failed for property %s: %v", propertyID, err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		if res.MatchedCount == 0 {
			access.WriteError(w, ownershipFailure(r.Context(), objID))
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		writeJSON(w, http.StatusOK, map[string]string{"message": "Property updated successfully"})
	}
}

func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}
		if rc.Role() != models.RoleOwner {
			access.WriteError(w, fmt.Errorf("%w: only owners can delete properties", access.ErrForbidden))
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			access.WriteError(w, fmt.Errorf("%w: invalid property id", access.ErrValidationFailed))
			return
		}

		filter := bson.M{"_id": objID, "ownerId": identity.ID}
		res, err := config.PropertyCollection.DeleteOne(r.Context(), filter)
		if err != nil {
			log.Printf("Delete failed for property %s: %v", propertyID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}

		if res.DeletedCount == 0 {
			access.WriteError(w, ownershipFailure(r.Context(), objID))
			return
		}

		// Bookmarks and view events referencing the listing go with it.
		// Inquiries stay; only account deletion removes those.
		if _, err := config.BookmarkCollection.DeleteMany(r.Context(), bson.M{"propertyId": propertyID}); err != nil {
			log.Printf("Failed to cascade bookmark delete for property %s: %v", propertyID, err)
		}
		if _, err := config.ViewCollection.DeleteMany(r.Context(), bson.M{"propertyId": propertyID}); err != nil {
			log.Printf("Failed to cascade view delete for property %s: %v", propertyID, err)
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		writeJSON(w, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
	}
}

// snapshotListingOwner copies the owner's contact details onto the
// listing at creation time. Copies, not references: the listing must
// keep showing what the owner looked like when it was posted, even
// after later profile edits.
func snapshotListingOwner(p *models.Property, owner access.Identity, phone string) {
	p.OwnerID = owner.ID
	p.OwnerName = owner.Name
	p.OwnerEmail = owner.Email
	p.OwnerPhone = phone
}

// ownershipFailure distinguishes a missing record from someone else's
// record after a scoped update matched nothing.
func ownershipFailure(ctx context.Context, objID primitive.ObjectID) error {
	n, err := config.PropertyCollection.CountDocuments(ctx, bson.M{"_id": objID})
	if err == nil && n == 0 {
		return fmt.Errorf("%w: property", access.ErrNotFound)
	}
	return fmt.Errorf("%w: not the owner of this property", access.ErrForbidden)
}

// validatePropertyPatch checks patched fields against the same rules the
// create path enforces. availableFrom is converted to a real time in
// place so the raw string never reaches the document.
func validatePropertyPatch(updateData map[string]interface{}) error {
	if v, ok := updateData["availableFrom"]; ok {
		s, isString := v.(string)
		if !isString {
			return fmt.Errorf("%w: invalid availableFrom date", access.ErrValidationFailed)
		}
		t, err := parseDate(s)
		if err != nil {
			return fmt.Errorf("%w: invalid availableFrom date", access.ErrValidationFailed)
		}
		updateData["availableFrom"] = t
	}

	// JSON numbers decode as float64.
	if v, ok := updateData["rent"]; ok {
		if n, isNum := v.(float64); !isNum || n <= 0 {
			return fmt.Errorf("%w: invalid rent", access.ErrValidationFailed)
		}
	}
	if v, ok := updateData["deposit"]; ok {
		if n, isNum := v.(float64); !isNum || n < 0 {
			return fmt.Errorf("%w: invalid deposit", access.ErrValidationFailed)
		}
	}
	if v, ok := updateData["area"]; ok {
		if n, isNum := v.(float64); !isNum || n <= 0 {
			return fmt.Errorf("%w: invalid area", access.ErrValidationFailed)
		}
	}
	if v, ok := updateData["bhk"]; ok {
		if n, isNum := v.(float64); !isNum || n < 1 || n > 10 || n != math.Trunc(n) {
			return fmt.Errorf("%w: invalid bhk", access.ErrValidationFailed)
		}
	}

	if v, ok := updateData["furnishing"]; ok {
		switch v {
		case "Fully Furnished", "Semi Furnished", "Unfurnished":
		default:
			return fmt.Errorf("%w: invalid furnishing", access.ErrValidationFailed)
		}
	}
	if v, ok := updateData["propertyType"]; ok {
		switch v {
		case "Apartment", "House", "Villa", "Studio", "PG":
		default:
			return fmt.Errorf("%w: invalid propertyType", access.ErrValidationFailed)
		}
	}

	if v, ok := updateData["location"]; ok {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: invalid location", access.ErrValidationFailed)
		}
		var loc models.Location
		if err := json.Unmarshal(raw, &loc); err != nil {
			return fmt.Errorf("%w: invalid location", access.ErrValidationFailed)
		}
		if err := utils.ValidateStruct(loc); err != nil {
			return err
		}
	}

	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func listingCacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "property:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		log.Printf("Error deleting %d property cache keys: %v", len(keysToDelete), execErr)
	} else {
		log.Printf("Property cache invalidated: %d keys removed", len(keysToDelete))
	}
}
