package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/medipulse/medipulse-api/databases/mocks"
	"github.com/medipulse/medipulse-api/models"
)

func newTestUser(t *testing.T, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return models.User{
		ID:       primitive.NewObjectID(),
		Email:    "pat@example.com",
		Password: string(hash),
		Name:     "Pat Doe",
		Role:     role,
		IsActive: true,
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	m := MiddlewareDB{DB: &mocks.UserDatabase{}}
	m.SetupGoGuardian("test-secret")

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req, _ := http.NewRequest("GET", "/api/v1/emergencies", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareAcceptsSignedToken(t *testing.T) {
	m := MiddlewareDB{DB: &mocks.UserDatabase{}}
	m.SetupGoGuardian("test-secret")

	user := newTestUser(t, models.RoleDoctor)
	token, err := signToken(user)
	assert.NoError(t, err)

	var got models.Caller
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		assert.True(t, ok)
		got = caller
	}))

	req, _ := http.NewRequest("GET", "/api/v1/emergencies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID.Hex(), got.ID)
	assert.Equal(t, user.Name, got.Name)
	assert.Equal(t, models.RoleDoctor, got.Role)
	assert.True(t, got.IsResponder())
}

func TestMiddlewareRejectsTokenSignedWithWrongSecret(t *testing.T) {
	m := MiddlewareDB{DB: &mocks.UserDatabase{}}

	m.SetupGoGuardian("first-secret")
	token, err := signToken(newTestUser(t, models.RolePatient))
	assert.NoError(t, err)

	// rotate the secret, the old token must stop working
	m.SetupGoGuardian("second-secret")

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req, _ := http.NewRequest("GET", "/api/v1/emergencies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateToken(t *testing.T) {
	user := newTestUser(t, models.RolePatient)

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&user, nil)
	userDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	m := MiddlewareDB{DB: userDB}
	m.SetupGoGuardian("test-secret")

	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth(user.Email, "hunter22")
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateToken).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"token"`)
	assert.NotContains(t, rr.Body.String(), user.Password)
}

func TestCreateTokenWrongPassword(t *testing.T) {
	user := newTestUser(t, models.RolePatient)

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&user, nil)

	m := MiddlewareDB{DB: userDB}
	m.SetupGoGuardian("test-secret")

	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth(user.Email, "wrong-password")
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateToken).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
