package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/pkg/jwt"
	"github.com/ctecg/score-api/pkg/logger"
)

const (
	// SessionTokenHeader carries the session JWT on authenticated requests
	SessionTokenHeader = "X-Token"

	// SessionContextKey is the key used to store session claims in context
	SessionContextKey = "session"
)

var ErrSessionNotFound = errors.New("session not found in context")

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success":     false,
		"status_code": http.StatusUnauthorized,
		"message":     message,
		"data":        nil,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
	c.Abort()
}

// SessionMiddleware validates the X-Token JWT and stores the claims in the
// request context. An expired token gets a distinct message so clients can
// route the user back to login.
func SessionMiddleware(tokenManager *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionTokenHeader)
		if token == "" {
			unauthorized(c, "Missing session token")
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Session token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				unauthorized(c, "Session expired")
			} else {
				unauthorized(c, "Invalid session token")
			}
			return
		}

		c.Set(SessionContextKey, claims)
		c.Next()
	}
}

// RequireUserType gates a route group to one user type. Must run after
// SessionMiddleware.
func RequireUserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetSession(c)
		if err != nil || claims.UserType != userType {
			c.JSON(http.StatusForbidden, gin.H{
				"success":     false,
				"status_code": http.StatusForbidden,
				"message":     "Access denied",
				"data":        nil,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates a route group to admin sessions
func RequireAdmin() gin.HandlerFunc {
	return RequireUserType(models.UserTypeAdmin)
}

// RequireTechnician gates a route group to technician sessions
func RequireTechnician() gin.HandlerFunc {
	return RequireUserType(models.UserTypeTechnician)
}

// GetSession retrieves the validated session claims from the context
func GetSession(c *gin.Context) (*jwt.SessionClaims, error) {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}
	claims, ok := value.(*jwt.SessionClaims)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return claims, nil
}
