package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforge-backend/internal/config"
	"appforge-backend/internal/middleware"
	"appforge-backend/internal/models"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newAuthRouter(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(&config.Config{SupabaseJWTSecret: testSecret}))
	router.GET("/test", handler)
	return router
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func signed(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func do(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	w := do(newAuthRouter(t, ok), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "missing authorization header", body.Error)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := newAuthRouter(t, ok)

	assert.Equal(t, http.StatusUnauthorized, do(router, "Bearer invalid-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, "Bearer ").Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token := signed(t, jwt.MapClaims{"sub": uuid.NewString()}, "some-other-secret")
	assert.Equal(t, http.StatusUnauthorized, do(newAuthRouter(t, ok), "Bearer "+token).Code)
}

func TestAuthMiddleware_Expired(t *testing.T) {
	token := signed(t, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, testSecret)

	w := do(newAuthRouter(t, ok), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestAuthMiddleware_SubjectMustBeUUID(t *testing.T) {
	token := signed(t, jwt.MapClaims{"sub": "user-123"}, testSecret)
	assert.Equal(t, http.StatusUnauthorized, do(newAuthRouter(t, ok), "Bearer "+token).Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signed(t, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "dev@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	var gotID uuid.UUID
	var gotEmail string
	router := newAuthRouter(t, func(c *gin.Context) {
		gotID, _ = middleware.UserID(c)
		gotEmail = middleware.UserEmail(c)
		ok(c)
	})

	w := do(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "dev@example.com", gotEmail)
}
