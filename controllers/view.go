package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TrackPropertyView records a view event and bumps the listing's counter.
// Deliberately unguarded: anonymous, no rate limit, no auth.
func TrackPropertyView(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			access.WriteError(w, access.ErrValidationFailed)
			return
		}

		var body struct {
			UserAgent string `json:"userAgent"`
			IP        string `json:"ip"`
		}
		// Body is optional; fall back to request metadata.
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.UserAgent == "" {
			body.UserAgent = r.UserAgent()
		}
		if body.IP == "" {
			body.IP = clientIP(r)
		}

		view := models.PropertyView{
			PropertyID: propertyID,
			UserAgent:  body.UserAgent,
			IP:         body.IP,
			ViewedAt:   time.Now(),
		}
		if id, ok := access.FromContext(r.Context()); ok {
			view.UserID = id.ID
		}

		if _, err := config.ViewCollection.InsertOne(r.Context(), view); err != nil {
			log.Printf("Failed to record view for property %s: %v", propertyID, err)
			http.Error(w, "Failed to track view", http.StatusInternalServerError)
			return
		}

		if _, err := config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": objID},
			bson.M{"$inc": bson.M{"viewCount": 1}},
		); err != nil {
			log.Printf("Failed to increment view count for property %s: %v", propertyID, err)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
