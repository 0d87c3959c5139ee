package handlers_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medipulse/medipulse-api/api/handlers"
	"github.com/medipulse/medipulse-api/config"
)

func TestCloudinary_GenerateSignature(t *testing.T) {
	c := handlers.CloudinaryHandler{Config: config.Config{
		CloudinaryUploadPreset: "avatars",
		CloudinaryAPISecret:    "test-secret",
	}}

	req, err := http.NewRequest("POST", "/api/v1/generate-signature", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.GenerateSignature).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.NotEmpty(t, got["timestamp"])

	// recompute the signature the way the upload widget verifies it
	h := hmac.New(sha1.New, []byte("test-secret"))
	h.Write([]byte("timestamp=" + got["timestamp"] + "&upload_preset=avatars"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), got["signature"])
}
