package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/medipulse/medipulse-api/api"
	"github.com/medipulse/medipulse-api/config"
	"github.com/medipulse/medipulse-api/databases"
	"github.com/medipulse/medipulse-api/models"
)

// Patient exported for testing purposes
type Patient struct {
	DB databases.UserDatabase
}

// requireResponder rejects callers that are not doctors or admins. Patient
// records carry medical details, so the roster is staff-only.
func requireResponder(w http.ResponseWriter, r *http.Request) bool {
	caller, ok := api.CallerFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated caller", http.StatusUnauthorized, w,
			fmt.Errorf("no caller in request context"))
		return false
	}
	if !caller.IsResponder() {
		config.ErrorStatus("caller role may not view patient records", http.StatusForbidden, w,
			fmt.Errorf("role %q denied", caller.Role))
		return false
	}
	return true
}

// PatientsHandler returns all active patients
func (p Patient) PatientsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireResponder(w, r) {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.Find(ctx, bson.M{"role": models.RolePatient, "isActive": true})
	if err != nil {
		config.ErrorStatus("failed to get patients", http.StatusNotFound, w, err)
		return
	}
	sanitized := []models.User{}
	for _, u := range dbResp {
		sanitized = append(sanitized, u.Sanitized())
	}

	b, err := json.Marshal(sanitized)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PatientByIDHandler returns a single patient given a user_id
func (p Patient) PatientByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !requireResponder(w, r) {
		return
	}

	patientID := mux.Vars(r)["patient_id"]

	zap.S().Debugf("patient_id: %v", patientID)

	pID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.FindOne(ctx, bson.M{"_id": pID, "role": models.RolePatient})
	if err != nil {
		config.ErrorStatus("failed to get patient by ID", http.StatusNotFound, w, err)
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

// PatientSearchHandler searches patients by name or email, case-insensitive
func (p Patient) PatientSearchHandler(w http.ResponseWriter, r *http.Request) {
	if !requireResponder(w, r) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		config.ErrorStatus("query param q is required", http.StatusBadRequest, w,
			fmt.Errorf("empty search query"))
		return
	}

	zap.S().Debugf("patient search: %v", query)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.Find(ctx, bson.M{
		"role":     models.RolePatient,
		"isActive": true,
		"$or": []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"email": bson.M{"$regex": query, "$options": "i"}},
		},
	})
	if err != nil {
		config.ErrorStatus("failed to search patients", http.StatusNotFound, w, err)
		return
	}
	sanitized := []models.User{}
	for _, u := range dbResp {
		sanitized = append(sanitized, u.Sanitized())
	}

	b, err := json.Marshal(sanitized)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
