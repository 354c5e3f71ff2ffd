package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

const sessionContextKey = "session_user"

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

// SessionClaims are the JWT claims carried by a session token. The
// embedded identity projection is exactly what the permission layer
// consumes; the password hash never leaves the queries layer.
type SessionClaims struct {
	User queries.SessionUser `json:"user"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for an authenticated user.
func IssueToken(cfg *config.Config, user queries.SessionUser) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a session token and returns the embedded identity.
func ParseToken(cfg *config.Config, tokenString string) (*queries.SessionUser, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims.User, nil
}

// EnsureAuthenticated is a middleware that validates the bearer token
// and stores the session identity in the Gin context.
func EnsureAuthenticated(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_TOKEN",
					"message": "Authorization header with bearer token is required",
				},
			})
			return
		}

		user, err := ParseToken(cfg, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate session token",
				},
			})
			return
		}

		c.Set(sessionContextKey, *user)
		c.Next()
	}
}

// CurrentUser extracts the session identity from the Gin context.
func CurrentUser(c *gin.Context) (queries.SessionUser, error) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return queries.SessionUser{}, &AuthError{Code: "MISSING_SESSION", Message: "No session in context"}
	}

	user, ok := value.(queries.SessionUser)
	if !ok {
		return queries.SessionUser{}, &AuthError{Code: "INVALID_SESSION", Message: "Session is not in the expected format"}
	}
	return user, nil
}

// SetSessionForTesting stores a session identity in the Gin context
// without a token (primarily for testing handlers in isolation).
func SetSessionForTesting(c *gin.Context, user queries.SessionUser) {
	c.Set(sessionContextKey, user)
}

// RequireRole is a middleware that rejects sessions whose role is not
// in the allowed set. Fine-grained, ownership-aware checks stay in the
// permissions package; this is only the coarse route-level gate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Could not retrieve session",
				},
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
