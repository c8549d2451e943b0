package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"auction-engine/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxBidderIDKey = "bidder_id"
	ctxRoleKey     = "bidder_role"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
}

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxBidderIDKey, claims.BidderID)
		c.Set(ctxRoleKey, jwt.Role(claims.Role))
		c.Set("jwt_claims", map[string]any{
			"bidder_id": claims.BidderID.String(),
			"role":      claims.Role,
		})
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			// Should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if role != jwt.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetBidderID(c *gin.Context) (uuid.UUID, bool) {
	bidderID, exists := c.Get(ctxBidderIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := bidderID.(uuid.UUID)
	return id, ok
}

func GetRole(c *gin.Context) (jwt.Role, bool) {
	role, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}

	r, ok := role.(jwt.Role)
	return r, ok
}
