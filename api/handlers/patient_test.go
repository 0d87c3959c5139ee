package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medipulse/medipulse-api/api/handlers"
	"github.com/medipulse/medipulse-api/databases/mocks"
	"github.com/medipulse/medipulse-api/models"
)

func TestPatient_PatientsHandlerForbiddenForPatients(t *testing.T) {
	p := handlers.Patient{DB: &mocks.UserDatabase{}}

	req := callerRequest(t, "GET", "/api/v1/patients", "", testPatient)
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PatientsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPatient_PatientsHandlerMissingCaller(t *testing.T) {
	p := handlers.Patient{DB: &mocks.UserDatabase{}}

	req, err := http.NewRequest("GET", "/api/v1/patients", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PatientsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPatient_PatientsHandler(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("Find", mock.Anything, mock.Anything).Return([]models.User{
		{ID: primitive.NewObjectID(), Name: "Pat Doe", Role: models.RolePatient, Password: "secret-hash"},
	}, nil)

	p := handlers.Patient{DB: userDB}

	req := callerRequest(t, "GET", "/api/v1/patients", "", testDoctor)
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PatientsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Empty(t, got[0].Password)
}

func TestPatient_PatientByIDHandler(t *testing.T) {
	pID := primitive.NewObjectID()
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID:   pID,
		Name: "Pat Doe",
		Role: models.RolePatient,
	}, nil)

	p := handlers.Patient{DB: userDB}

	req := callerRequest(t, "GET", "/api/v1/patient/"+pID.Hex(), "", testAdmin)
	req = mux.SetURLVars(req, map[string]string{"patient_id": pID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PatientByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Pat Doe", got.Name)
}

func TestPatient_PatientSearchHandler(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("Find", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		m, ok := filter.(bson.M)
		if !ok {
			return false
		}
		_, hasOr := m["$or"]
		return m["role"] == models.RolePatient && hasOr
	})).Return([]models.User{
		{ID: primitive.NewObjectID(), Name: "Pat Doe", Email: "pat@example.com", Role: models.RolePatient},
	}, nil)

	p := handlers.Patient{DB: userDB}

	req := callerRequest(t, "GET", "/api/v1/patients/search?q=pat", "", testDoctor)
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PatientSearchHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "pat@example.com", got[0].Email)
}

func TestPatient_PatientSearchHandlerMissingQuery(t *testing.T) {
	p := handlers.Patient{DB: &mocks.UserDatabase{}}

	req := callerRequest(t, "GET", "/api/v1/patients/search", "", testDoctor)
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PatientSearchHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "query param q is required")
}
