package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/medipulse/medipulse-api/api"
	"github.com/medipulse/medipulse-api/config"
	"github.com/medipulse/medipulse-api/emergency"
	"github.com/medipulse/medipulse-api/models"
)

// Emergency exported for testing purposes
type Emergency struct {
	Svc *emergency.Service
	Hub *EmergencyHub
}

// CreateEmergencyHandler reports a new emergency case attributed to the
// calling patient
func (e Emergency) CreateEmergencyHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := api.CallerFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing caller identity", http.StatusUnauthorized, w, fmt.Errorf("unauthenticated request"))
		return
	}

	var requestBody models.EmergencyReport
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	created, err := e.Svc.Report(caller, requestBody)
	if err != nil {
		emergencyErrorStatus("failed to create emergency", w, err)
		return
	}

	zap.S().Infow("emergency reported",
		"id", created.ID,
		"severity", created.Severity,
		"patientId", created.PatientID,
	)
	e.Hub.Broadcast("emergency_created", created)

	b, err := json.Marshal(created)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// EmergenciesHandler returns all emergency cases in report order
func (e Emergency) EmergenciesHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := api.CallerFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing caller identity", http.StatusUnauthorized, w, fmt.Errorf("unauthenticated request"))
		return
	}

	dbResp, err := e.Svc.List(caller)
	if err != nil {
		emergencyErrorStatus("failed to get emergencies", w, err)
		return
	}
	// Because the frontend requires that the data elements exist, if
	// len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.Emergency{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateEmergencyHandler applies a partial status/responder update to a case
func (e Emergency) UpdateEmergencyHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := api.CallerFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing caller identity", http.StatusUnauthorized, w, fmt.Errorf("unauthenticated request"))
		return
	}

	emergencyID := mux.Vars(r)["emergency_id"]
	zap.S().Debugf("emergency_id: %v", emergencyID)

	id, err := strconv.Atoi(emergencyID)
	if err != nil {
		config.ErrorStatus("invalid emergency ID", http.StatusBadRequest, w, err)
		return
	}

	var requestBody models.EmergencyUpdate
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	updated, err := e.Svc.UpdateStatus(caller, id, requestBody)
	if err != nil {
		emergencyErrorStatus("failed to update emergency", w, err)
		return
	}

	e.Hub.Broadcast("emergency_updated", updated)

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// emergencyErrorStatus maps the lifecycle error taxonomy onto HTTP statuses:
// validation 400, forbidden 403, unknown case 404, illegal transition 409.
func emergencyErrorStatus(message string, w http.ResponseWriter, err error) {
	var vErr *emergency.ValidationError
	switch {
	case errors.As(err, &vErr):
		config.ErrorStatus(message, http.StatusBadRequest, w, err)
	case errors.Is(err, emergency.ErrForbidden):
		config.ErrorStatus(message, http.StatusForbidden, w, err)
	case errors.Is(err, emergency.ErrNotFound):
		config.ErrorStatus(message, http.StatusNotFound, w, err)
	case errors.Is(err, emergency.ErrInvalidTransition):
		config.ErrorStatus(message, http.StatusConflict, w, err)
	default:
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}
