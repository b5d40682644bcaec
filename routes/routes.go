package routes

import (
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/controllers"
	"github.com/stayease-dev/stayease/backend/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

func Routes(router *mux.Router, client *mongo.Client, redisClient *redis.Client, settings config.Settings) {
	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser(client)).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser(client)).Methods("POST")

	// Public routes
	router.HandleFunc("/properties", controllers.GetAllProperties(redisClient)).Methods("GET")
	router.HandleFunc("/properties/{id}", controllers.GetPropertyByID(client)).Methods("GET")
	router.HandleFunc("/properties/{id}/view", controllers.TrackPropertyView(client)).Methods("POST")
	router.HandleFunc("/requirements", controllers.GetRequirements(client)).Methods("GET")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// Property routes
	authenticated.HandleFunc("/properties", controllers.CreateProperty(redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(redisClient)).Methods("DELETE")
	authenticated.HandleFunc("/my-properties", controllers.GetMyProperties(client)).Methods("GET")

	// Inquiry routes
	authenticated.HandleFunc("/inquiries", controllers.GetInquiries(client)).Methods("GET")
	authenticated.HandleFunc("/inquiries", controllers.CreateInquiry(client)).Methods("POST")
	authenticated.HandleFunc("/inquiries/{id}", controllers.UpdateInquiryStatus(client)).Methods("PUT")
	authenticated.HandleFunc("/inquiries/{id}/reply", controllers.ReplyToInquiry(settings)).Methods("POST")
	authenticated.HandleFunc("/inquiries/{id}/read", controllers.MarkInquiryRead(client)).Methods("PUT")

	// Bookmark routes
	authenticated.HandleFunc("/bookmarks", controllers.GetBookmarks(client)).Methods("GET")
	authenticated.HandleFunc("/bookmarks", controllers.AddBookmark(client)).Methods("POST")
	authenticated.HandleFunc("/bookmarks/ids", controllers.GetBookmarkIDs(client)).Methods("GET")
	authenticated.HandleFunc("/bookmarks/{propertyId}", controllers.RemoveBookmark(client)).Methods("DELETE")

	// Requirement routes
	authenticated.HandleFunc("/requirements", controllers.CreateRequirement(client)).Methods("POST")

	// Dashboard
	authenticated.HandleFunc("/dashboard/stats", controllers.DashboardStats(client)).Methods("GET")

	// Admin routes
	admin := authenticated.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", controllers.ListUsers(client)).Methods("GET")
	admin.HandleFunc("/users/{id}", controllers.GetUser(client)).Methods("GET")
	admin.HandleFunc("/users/{id}", controllers.UpdateUser(redisClient)).Methods("PUT")
	admin.HandleFunc("/properties", controllers.ListAllProperties(client)).Methods("GET")
	admin.HandleFunc("/properties/{id}", controllers.ModerateProperty(redisClient)).Methods("PUT")
	admin.HandleFunc("/stats", controllers.AdminStats(client)).Methods("GET")
	admin.HandleFunc("/analytics", controllers.AdminAnalytics(redisClient)).Methods("GET")
}
