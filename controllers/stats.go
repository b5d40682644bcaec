package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/analytics"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// groupCount runs a group-and-count aggregation over a single field,
// descending by count.
func groupCount(ctx context.Context, coll *mongo.Collection, field string, limit int) ([]analytics.GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []analytics.GroupCount{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// periodWindows returns the [now-P, now] window start and the preceding
// same-length window for growth comparisons.
func periodWindows(days int) (start, prevStart, prevEnd time.Time) {
	now := time.Now()
	start = now.AddDate(0, 0, -days)
	prevStart = now.AddDate(0, 0, -2*days)
	prevEnd = start
	return start, prevStart, prevEnd
}

func monthStart() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// AdminStats serves the admin dashboard header: totals, monthly counts,
// role/city distributions, and the latest signups and listings.
func AdminStats(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		month := monthStart()

		totalUsers, _ := countDocs(ctx, config.UserCollection, bson.M{})
		totalProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{})
		totalViews, _ := countDocs(ctx, config.ViewCollection, bson.M{})
		totalInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{})
		activeProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{"isActive": true})
		verifiedProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{"isVerified": true})
		pendingVerifications, _ := countDocs(ctx, config.PropertyCollection, bson.M{"isVerified": false, "isActive": true})
		monthlyUsers, _ := countDocs(ctx, config.UserCollection, bson.M{"createdAt": bson.M{"$gte": month}})
		monthlyProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{"createdAt": bson.M{"$gte": month}})

		usersByRole, err := groupCount(ctx, config.UserCollection, "role", 0)
		if err != nil {
			log.Printf("Error aggregating users by role: %v", err)
			http.Error(w, "Error computing stats", http.StatusInternalServerError)
			return
		}
		topCities, err := groupCount(ctx, config.PropertyCollection, "location.city", 10)
		if err != nil {
			log.Printf("Error aggregating top cities: %v", err)
			http.Error(w, "Error computing stats", http.StatusInternalServerError)
			return
		}

		recentUsers := []models.User{}
		userCursor, err := config.UserCollection.Find(ctx, bson.M{}, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(10).
			SetProjection(bson.M{"name": 1, "email": 1, "role": 1, "createdAt": 1}))
		if err == nil {
			defer userCursor.Close(ctx)
			if err := userCursor.All(ctx, &recentUsers); err != nil {
				log.Printf("Error decoding recent users: %v", err)
			}
		}

		recentProperties := []models.Property{}
		propCursor, err := config.PropertyCollection.Find(ctx, bson.M{}, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(10))
		if err == nil {
			defer propCursor.Close(ctx)
			if err := propCursor.All(ctx, &recentProperties); err != nil {
				log.Printf("Error decoding recent properties: %v", err)
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"totalUsers":           totalUsers,
			"totalProperties":      totalProperties,
			"totalViews":           totalViews,
			"totalInquiries":       totalInquiries,
			"activeProperties":     activeProperties,
			"verifiedProperties":   verifiedProperties,
			"pendingVerifications": pendingVerifications,
			"monthlyUsers":         monthlyUsers,
			"monthlyProperties":    monthlyProperties,
			"usersByRole":          usersByRole,
			"topCities":            topCities,
			"recentUsers":          recentUsers,
			"recentProperties":     recentProperties,
		})
	}
}

type activityItem struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// AdminAnalytics composes the platform analytics view: overview with
// conversion rate, growth against the previous same-length period, and
// distribution shares. Cached for five minutes per period.
func AdminAnalytics(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		period := parsePeriodDays(r)

		cacheKey := fmt.Sprintf("analytics:admin:%d", period)
		if cached, err := redisClient.Get(ctx, cacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		} else if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		start, prevStart, prevEnd := periodWindows(period)

		totalUsers, _ := countDocs(ctx, config.UserCollection, bson.M{})
		totalProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{})
		totalViews, _ := countDocs(ctx, config.ViewCollection, bson.M{})
		totalInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{})

		curUsers, _ := countDocs(ctx, config.UserCollection, bson.M{"createdAt": bson.M{"$gte": start}})
		prevUsers, _ := countDocs(ctx, config.UserCollection, bson.M{"createdAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
		curProps, _ := countDocs(ctx, config.PropertyCollection, bson.M{"createdAt": bson.M{"$gte": start}})
		prevProps, _ := countDocs(ctx, config.PropertyCollection, bson.M{"createdAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
		curViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"viewedAt": bson.M{"$gte": start}})
		prevViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"viewedAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
		curInqs, _ := countDocs(ctx, config.InquiryCollection, bson.M{"createdAt": bson.M{"$gte": start}})
		prevInqs, _ := countDocs(ctx, config.InquiryCollection, bson.M{"createdAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})

		topCities, err := groupCount(ctx, config.PropertyCollection, "location.city", 10)
		if err != nil {
			log.Printf("Error aggregating top cities: %v", err)
			http.Error(w, "Error computing analytics", http.StatusInternalServerError)
			return
		}
		propertyTypes, err := groupCount(ctx, config.PropertyCollection, "propertyType", 0)
		if err != nil {
			log.Printf("Error aggregating property types: %v", err)
			http.Error(w, "Error computing analytics", http.StatusInternalServerError)
			return
		}

		recentActivity := recentActivityFeed(ctx)

		payload := map[string]interface{}{
			"overview": map[string]interface{}{
				"totalUsers":      totalUsers,
				"totalProperties": totalProperties,
				"totalViews":      totalViews,
				"totalInquiries":  totalInquiries,
				"conversionRate":  analytics.ConversionRate(totalInquiries, totalViews),
			},
			"growth": map[string]interface{}{
				"userGrowth":     analytics.Growth(curUsers, prevUsers),
				"propertyGrowth": analytics.Growth(curProps, prevProps),
				"viewGrowth":     analytics.Growth(curViews, prevViews),
				"inquiryGrowth":  analytics.Growth(curInqs, prevInqs),
			},
			"topCities":      analytics.WithShare(topCities, totalProperties),
			"propertyTypes":  analytics.WithShare(propertyTypes, totalProperties),
			"recentActivity": recentActivity,
		}

		resultBytes, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to serialize analytics: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		if err := redisClient.Set(ctx, cacheKey, resultBytes, 5*time.Minute).Err(); err != nil {
			log.Printf("Failed to cache analytics for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

func recentActivityFeed(ctx context.Context) []activityItem {
	feed := []activityItem{}

	users := []models.User{}
	uc, err := config.UserCollection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5).
		SetProjection(bson.M{"name": 1, "role": 1, "createdAt": 1}))
	if err == nil {
		defer uc.Close(ctx)
		_ = uc.All(ctx, &users)
	}
	for _, u := range users {
		feed = append(feed, activityItem{
			Type:        "user_signup",
			Description: fmt.Sprintf("New user %s signed up as %s", u.Name, u.Role),
			Timestamp:   u.CreatedAt,
		})
	}

	props := []models.Property{}
	pc, err := config.PropertyCollection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5))
	if err == nil {
		defer pc.Close(ctx)
		_ = pc.All(ctx, &props)
	}
	for _, p := range props {
		feed = append(feed, activityItem{
			Type:        "property_listed",
			Description: fmt.Sprintf("New property %q listed in %s", p.Title, p.Location.City),
			Timestamp:   p.CreatedAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	return feed
}

// DashboardStats is the role-dependent dashboard: owners get aggregates
// over their own listings, admins the platform-wide version, tenants
// their activity summary.
func DashboardStats(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, identity, err := access.ContextFor(r.Context())
		if err != nil {
			access.WriteError(w, err)
			return
		}

		period := parsePeriodDays(r)

		var stats map[string]interface{}
		switch rc.(type) {
		case access.OwnerContext:
			stats, err = ownerStats(r.Context(), identity.ID, period)
		case access.AdminContext:
			stats, err = adminDashboardStats(r.Context(), period)
		default:
			stats, err = tenantStats(r.Context(), identity.ID)
		}
		if err != nil {
			log.Printf("Error computing dashboard stats for %s: %v", identity.ID, err)
			http.Error(w, "Error computing stats", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// ownerStats mirrors the admin shapes but pre-filtered to the owner's
// own properties.
func ownerStats(ctx context.Context, ownerID string, period int) (map[string]interface{}, error) {
	start, prevStart, prevEnd := periodWindows(period)
	month := monthStart()

	cursor, err := config.PropertyCollection.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}

	propertyIDs := make([]string, 0, len(properties))
	active, verified := 0, 0
	totalRent := 0.0
	for _, p := range properties {
		propertyIDs = append(propertyIDs, p.ID.Hex())
		if p.IsActive {
			active++
		}
		if p.IsVerified {
			verified++
		}
		totalRent += p.Rent
	}
	avgRent := 0.0
	if len(properties) > 0 {
		avgRent = totalRent / float64(len(properties))
	}

	viewScope := bson.M{"propertyId": bson.M{"$in": propertyIDs}}

	totalViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"propertyId": bson.M{"$in": propertyIDs}, "viewedAt": bson.M{"$gte": start}})
	totalInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{"ownerId": ownerID, "createdAt": bson.M{"$gte": start}})
	previousViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"propertyId": bson.M{"$in": propertyIDs}, "viewedAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
	previousInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{"ownerId": ownerID, "createdAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
	monthlyViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"propertyId": bson.M{"$in": propertyIDs}, "viewedAt": bson.M{"$gte": month}})
	monthlyInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{"ownerId": ownerID, "createdAt": bson.M{"$gte": month}})

	// Top viewed properties in the window.
	perfPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"propertyId": viewScope["propertyId"], "viewedAt": bson.M{"$gte": start}}}},
		{{Key: "$group", Value: bson.M{"_id": "$propertyId", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 10}},
	}
	perfCursor, err := config.ViewCollection.Aggregate(ctx, perfPipeline)
	if err != nil {
		return nil, err
	}
	defer perfCursor.Close(ctx)

	topViewed := []analytics.GroupCount{}
	if err := perfCursor.All(ctx, &topViewed); err != nil {
		return nil, err
	}

	titleByID := make(map[string]string, len(properties))
	for _, p := range properties {
		titleByID[p.ID.Hex()] = p.Title
	}
	performance := make([]map[string]interface{}, 0, len(topViewed))
	for _, tv := range topViewed {
		inquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{
			"propertyId": tv.ID,
			"ownerId":    ownerID,
			"createdAt":  bson.M{"$gte": start},
		})
		performance = append(performance, map[string]interface{}{
			"propertyId":   tv.ID,
			"title":        titleByID[tv.ID],
			"viewCount":    tv.Count,
			"inquiryCount": inquiries,
		})
	}

	recentInquiries := []models.Inquiry{}
	inqCursor, err := config.InquiryCollection.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(10))
	if err == nil {
		defer inqCursor.Close(ctx)
		_ = inqCursor.All(ctx, &recentInquiries)
	}

	return map[string]interface{}{
		"totalProperties":     len(properties),
		"activeProperties":    active,
		"verifiedProperties":  verified,
		"totalViews":          totalViews,
		"totalInquiries":      totalInquiries,
		"monthlyViews":        monthlyViews,
		"monthlyInquiries":    monthlyInquiries,
		"totalRent":           totalRent,
		"avgRent":             avgRent,
		"conversionRate":      analytics.ConversionRate(totalInquiries, totalViews),
		"viewGrowth":          analytics.Growth(totalViews, previousViews),
		"inquiryGrowth":       analytics.Growth(totalInquiries, previousInquiries),
		"propertyPerformance": performance,
		"recentInquiries":     recentInquiries,
	}, nil
}

func adminDashboardStats(ctx context.Context, period int) (map[string]interface{}, error) {
	start, prevStart, prevEnd := periodWindows(period)
	month := monthStart()

	totalUsers, _ := countDocs(ctx, config.UserCollection, bson.M{})
	totalProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{})
	totalBookmarks, _ := countDocs(ctx, config.BookmarkCollection, bson.M{})
	totalRequirements, _ := countDocs(ctx, config.RequirementCollection, bson.M{})
	totalViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"viewedAt": bson.M{"$gte": start}})
	totalInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{"createdAt": bson.M{"$gte": start}})
	previousViews, _ := countDocs(ctx, config.ViewCollection, bson.M{"viewedAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
	previousInquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{"createdAt": bson.M{"$gte": prevStart, "$lt": prevEnd}})
	monthlyUsers, _ := countDocs(ctx, config.UserCollection, bson.M{"createdAt": bson.M{"$gte": month}})
	monthlyProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{"createdAt": bson.M{"$gte": month}})
	activeProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{"isActive": true})
	verifiedProperties, _ := countDocs(ctx, config.PropertyCollection, bson.M{"isVerified": true})
	pendingVerifications, _ := countDocs(ctx, config.PropertyCollection, bson.M{"isVerified": false})

	usersByRole, err := groupCount(ctx, config.UserCollection, "role", 0)
	if err != nil {
		return nil, err
	}
	topCities, err := groupCount(ctx, config.PropertyCollection, "location.city", 10)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"totalUsers":           totalUsers,
		"totalProperties":      totalProperties,
		"totalViews":           totalViews,
		"totalInquiries":       totalInquiries,
		"totalBookmarks":       totalBookmarks,
		"totalRequirements":    totalRequirements,
		"monthlyUsers":         monthlyUsers,
		"monthlyProperties":    monthlyProperties,
		"activeProperties":     activeProperties,
		"verifiedProperties":   verifiedProperties,
		"pendingVerifications": pendingVerifications,
		"usersByRole":          usersByRole,
		"topCities":            topCities,
		"conversionRate":       analytics.ConversionRate(totalInquiries, totalViews),
		"viewGrowth":           analytics.Growth(totalViews, previousViews),
		"inquiryGrowth":        analytics.Growth(totalInquiries, previousInquiries),
	}, nil
}

func tenantStats(ctx context.Context, tenantID string) (map[string]interface{}, error) {
	bookmarks, _ := countDocs(ctx, config.BookmarkCollection, bson.M{"userId": tenantID})
	requirements, _ := countDocs(ctx, config.RequirementCollection, bson.M{"tenantId": tenantID})
	inquiries, _ := countDocs(ctx, config.InquiryCollection, bson.M{"tenantId": tenantID})

	// Market average rent over active listings.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avgRent": bson.M{"$avg": "$rent"}}}},
	}
	cursor, err := config.PropertyCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	avgRent := 0.0
	var rows []struct {
		AvgRent float64 `bson:"avgRent"`
	}
	if err := cursor.All(ctx, &rows); err == nil && len(rows) > 0 {
		avgRent = rows[0].AvgRent
	}

	return map[string]interface{}{
		"totalBookmarks":    bookmarks,
		"totalRequirements": requirements,
		"totalInquiries":    inquiries,
		"marketAvgRent":     avgRent,
	}, nil
}
