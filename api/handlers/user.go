package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medipulse/medipulse-api/api"
	"github.com/medipulse/medipulse-api/config"
	"github.com/medipulse/medipulse-api/databases"
	"github.com/medipulse/medipulse-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type registerRequest struct {
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Name     string             `json:"name"`
	Role     string             `json:"role"`
	Profile  models.UserProfile `json:"profile"`
}

// UserCreateHandler registers a new account
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		config.ErrorStatus("email, password and name are required", http.StatusBadRequest, w,
			fmt.Errorf("missing required field"))
		return
	}
	// emails are stored lowercase; the login path queries lowercase too
	req.Email = strings.ToLower(req.Email)
	if req.Role == "" {
		req.Role = models.RolePatient
	}
	if !models.ValidRole(req.Role) {
		config.ErrorStatus("invalid role", http.StatusBadRequest, w, fmt.Errorf("unknown role %q", req.Role))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := u.DB.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		config.ErrorStatus("failed to check for existing email", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("email already registered", http.StatusConflict, w,
			fmt.Errorf("duplicate email: %s", req.Email))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Password:  string(hash),
		Name:      req.Name,
		Role:      req.Role,
		Profile:   req.Profile,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("user registered", "email", user.Email, "role", user.Role)

	b, err := json.Marshal(user.Sanitized())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// MeHandler returns the authenticated user's own record
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := api.CallerFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated caller", http.StatusUnauthorized, w,
			fmt.Errorf("no caller in request context"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp.Sanitized())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateProfileHandler updates a user's profile. Users may edit themselves;
// admins may edit anyone.
func (u User) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	zap.S().Debugf("user_id: %v", userID)

	caller, ok := api.CallerFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated caller", http.StatusUnauthorized, w,
			fmt.Errorf("no caller in request context"))
		return
	}
	if caller.ID != userID && caller.Role != models.RoleAdmin {
		config.ErrorStatus("not allowed to edit this user", http.StatusForbidden, w,
			fmt.Errorf("caller %s may not edit user %s", caller.ID, userID))
		return
	}

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req struct {
		Name    *string             `json:"name"`
		Profile *models.UserProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Profile != nil {
		set["profile"] = *req.Profile
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp.Sanitized())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
