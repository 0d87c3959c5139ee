package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medipulse/medipulse-api/databases"
	"github.com/medipulse/medipulse-api/models"
)

// MiddlewareDB is a struct that holds the database
type MiddlewareDB struct {
	DB databases.UserDatabase
}

var authenticator auth.Authenticator
var cache store.Cache
var jwtSecret []byte

// Middleware authenticates the request and attaches the caller identity to
// the request context. Tokens issued by CreateToken are served from the
// go-guardian cache; tokens that outlived the cache (process restart) are
// re-verified as JWTs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			user, err = authenticateJWT(r)
		}
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), callerFromInfo(user))))
	})
}

// CreateToken verifies basic-auth credentials and returns a signed JWT plus
// the sanitized user record
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	email, password, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	user, err := m.DB.FindOne(r.Context(), bson.M{"email": strings.ToLower(email), "isActive": true})
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := signToken(*user)
	if err != nil {
		http.Error(w, "token generation failed", http.StatusInternalServerError)
		return
	}

	authUser := infoFromUser(*user)
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, authUser, r)

	_, err = m.DB.UpdateOne(r.Context(), bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"lastLogin": primitive.NewDateTimeFromTime(time.Now())}})
	if err != nil {
		zap.S().Warnw("failed to record last login", "userId", user.ID.Hex(), "error", err)
	}

	responseBody, err := json.Marshal(map[string]interface{}{
		"token": token,
		"user":  user.Sanitized(),
	})
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Write(responseBody)
}

// RevokeToken revokes a token
func RevokeToken(w http.ResponseWriter, r *http.Request) {
	reqToken := r.Header.Get("Authorization")
	splitToken := strings.Split(reqToken, "Bearer ")
	if len(splitToken) != 2 {
		http.Error(w, "missing bearer token", http.StatusBadRequest)
		return
	}
	reqToken = splitToken[1]

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, reqToken, r)
	body := fmt.Sprintf(`{"revoked token": "%s"}`, reqToken)
	w.Write([]byte(body))
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareDB) SetupGoGuardian(secret string) {
	jwtSecret = []byte(secret)
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), 24*time.Hour)
	basicStrategy := basic.New(m.ValidateUser, cache)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, cache)

	authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateUser validates a user's basic-auth credentials against the user collection
func (m MiddlewareDB) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	user, err := m.DB.FindOne(ctx, bson.M{"email": strings.ToLower(email), "isActive": true})
	if err != nil {
		return nil, fmt.Errorf("no matching email found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	return infoFromUser(*user), nil
}

// signToken builds the HS256 JWT carrying the caller identity claims.
func signToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"jti":   uuid.New().String(),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// authenticateJWT verifies a bearer JWT that is no longer in the token cache
// and re-caches it on success.
func authenticateJWT(r *http.Request) (auth.Info, error) {
	header := r.Header.Get("Authorization")
	splitToken := strings.Split(header, "Bearer ")
	if len(splitToken) != 2 {
		return nil, fmt.Errorf("missing bearer token")
	}
	raw := splitToken[1]

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid token claims")
	}

	info := auth.NewDefaultUser(email, sub, []string{role}, map[string][]string{"name": {name}})
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, raw, info, r)
	return info, nil
}

func infoFromUser(user models.User) auth.Info {
	return auth.NewDefaultUser(user.Email, user.ID.Hex(), []string{user.Role}, map[string][]string{"name": {user.Name}})
}

func callerFromInfo(info auth.Info) models.Caller {
	caller := models.Caller{ID: info.ID()}
	if groups := info.Groups(); len(groups) > 0 {
		caller.Role = groups[0]
	}
	if ext := info.Extensions(); ext != nil && len(ext["name"]) > 0 {
		caller.Name = ext["name"][0]
	}
	return caller
}
