package handlers

import (
	"encoding/json"
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

// Doctor exported for testing purposes
type Doctor struct {
	DB databases.UserDatabase
}

// DoctorsHandler returns the public directory of active doctors
func (d Doctor) DoctorsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := d.DB.Find(ctx, bson.M{"role": models.RoleDoctor, "isActive": true})
	if err != nil {
		config.ErrorStatus("failed to get doctors", http.StatusNotFound, w, err)
		return
	}
	// Because the frontend requires that the data elements exist, if
	// len == 0 then we will just return an empty data object
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

// DoctorByIDHandler returns a single doctor given a user_id
func (d Doctor) DoctorByIDHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctor_id"]

	zap.S().Debugf("doctor_id: %v", doctorID)

	dID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := d.DB.FindOne(ctx, bson.M{"_id": dID, "role": models.RoleDoctor})
	if err != nil {
		config.ErrorStatus("failed to get doctor by ID", http.StatusNotFound, w, err)
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
