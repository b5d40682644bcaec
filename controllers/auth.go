package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/stayease-dev/stayease/backend/access"
	"github.com/stayease-dev/stayease/backend/config"
	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stayease-dev/stayease/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Response struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func RegisterUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.SignupInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Error decoding signup data: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if err := utils.ValidateStruct(input); err != nil {
			access.WriteError(w, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		exists := config.UserCollection.FindOne(context.TODO(), bson.M{"email": email})
		if exists.Err() == nil {
			log.Printf("User email already exists: %s", email)
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}

		hashedPwd, err := utils.HashPassword(input.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		user := models.User{
			Name:      strings.TrimSpace(input.Name),
			Email:     email,
			Password:  hashedPwd,
			Role:      input.Role,
			Phone:     strings.TrimSpace(input.Phone),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = config.UserCollection.InsertOne(context.TODO(), user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				log.Printf("Duplicate email on insert: %s", email)
				http.Error(w, "Email already exists", http.StatusConflict)
				return
			}
			log.Printf("Error inserting user into the database: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, Response{Message: "User registered successfully"})
	}
}

func LoginUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials models.LoginInput
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if err := utils.ValidateStruct(credentials); err != nil {
			access.WriteError(w, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(credentials.Email))

		var dbUser models.User
		// Accounts created before the isActive flag existed count as active.
		err := config.UserCollection.FindOne(context.TODO(), bson.M{
			"email":    email,
			"isActive": bson.M{"$ne": false},
		}).Decode(&dbUser)
		if err != nil {
			log.Printf("User not found or deactivated: %s", email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(credentials.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := utils.GenerateJWT(dbUser)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, Response{Message: "Login successful", Token: token})
	}
}
