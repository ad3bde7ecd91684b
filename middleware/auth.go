package middleware

import (
	"context"
	"net/http"
	"strings"

	"blogapi/logger"
	"blogapi/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

// TokenValidator resolves an access token to a user id.
type TokenValidator interface {
	ValidateJWT(tokenString string) (uint, error)
}

// UserLoader fetches the account behind an authenticated request.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

func AuthRequired(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		userID, err := tokens.ValidateJWT(token)
		if err != nil {
			logger.WarnWithFields("token validation failed", logger.Fields{
				"error":      err.Error(),
				"request_id": RequestID(c),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if userID, err := tokens.ValidateJWT(token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// StaffRequired must run after AuthRequired. It loads the account, rejects
// inactive and non-staff users, and stores the user under UserKey.
func StaffRequired(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get(UserIDKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID.(uint))
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, or from
// the token query parameter on websocket upgrades where browsers cannot set
// headers.
func extractToken(c *gin.Context) string {
	if websocket.IsWebSocketUpgrade(c.Request) {
		if token := c.Query("token"); token != "" {
			return token
		}
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}
