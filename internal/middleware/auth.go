package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"appforge-backend/internal/config"
	"appforge-backend/internal/models"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// AuthMiddleware verifies a Supabase access token (HS256, signed with the
// project JWT secret) and stores the subject and email on the context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, msg := bearerToken(c.GetHeader("Authorization"))
		if msg != "" {
			abortUnauthorized(c, msg, "")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			if cfg.SupabaseJWTSecret == "" {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.SupabaseJWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			abortUnauthorized(c, "invalid token", tokenErrorMessage(err))
			return
		}
		if !token.Valid {
			abortUnauthorized(c, "invalid token", "")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims", "")
			return
		}

		sub, _ := claims["sub"].(string)
		if _, err := uuid.Parse(sub); err != nil {
			abortUnauthorized(c, "missing user id in token", "")
			return
		}
		email, _ := claims["email"].(string)

		c.Set(UserIDKey, sub)
		c.Set(UserEmailKey, email)
		c.Next()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func UserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "invalid authorization header format"
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", "empty token"
	}
	// Some clients URL-encode the token.
	if decoded, err := url.QueryUnescape(token); err == nil {
		token = decoded
	}
	return token, ""
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return "token signature is invalid - check JWT secret"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed - ensure you're using a valid Supabase JWT token"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token must use HS256 algorithm"
	default:
		return err.Error()
	}
}

func abortUnauthorized(c *gin.Context, errMsg, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: errMsg, Message: message})
}
