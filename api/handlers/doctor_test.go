package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medipulse/medipulse-api/api/handlers"
	"github.com/medipulse/medipulse-api/databases/mocks"
	"github.com/medipulse/medipulse-api/models"
)

func TestDoctor_DoctorsHandler(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("Find", mock.Anything, mock.Anything).Return([]models.User{
		{ID: primitive.NewObjectID(), Name: "Dr. Reyes", Role: models.RoleDoctor, Password: "secret-hash"},
		{ID: primitive.NewObjectID(), Name: "Dr. Okafor", Role: models.RoleDoctor, Password: "secret-hash"},
	}, nil)

	d := handlers.Doctor{DB: userDB}

	req, err := http.NewRequest("GET", "/api/v1/doctors", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DoctorsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	for _, u := range got {
		assert.Empty(t, u.Password)
	}
}

func TestDoctor_DoctorsHandlerEmpty(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("Find", mock.Anything, mock.Anything).Return([]models.User{}, nil)

	d := handlers.Doctor{DB: userDB}

	req, err := http.NewRequest("GET", "/api/v1/doctors", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DoctorsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestDoctor_DoctorsHandlerUsesQueryTimeout(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("Find", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return([]models.User{}, nil)

	d := handlers.Doctor{DB: userDB}

	req, err := http.NewRequest("GET", "/api/v1/doctors", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DoctorsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	userDB.AssertExpectations(t)
}

func TestDoctor_DoctorByIDHandler(t *testing.T) {
	dID := primitive.NewObjectID()
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID:   dID,
		Name: "Dr. Reyes",
		Role: models.RoleDoctor,
	}, nil)

	d := handlers.Doctor{DB: userDB}

	req, err := http.NewRequest("GET", "/api/v1/doctor/"+dID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"doctor_id": dID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DoctorByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Dr. Reyes", got.Name)
}

func TestDoctor_DoctorByIDHandlerBadHex(t *testing.T) {
	d := handlers.Doctor{DB: &mocks.UserDatabase{}}

	req, err := http.NewRequest("GET", "/api/v1/doctor/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"doctor_id": "1234"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DoctorByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	expected := `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`
	assert.Equal(t, expected, rr.Body.String())
}

func TestDoctor_DoctorByIDHandlerNotFound(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("mongo: no documents in result"))

	d := handlers.Doctor{DB: userDB}

	dID := primitive.NewObjectID().Hex()
	req, err := http.NewRequest("GET", "/api/v1/doctor/"+dID, nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"doctor_id": dID})

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DoctorByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
