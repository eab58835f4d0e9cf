package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/services"
)

const (
	// ContextUserID holds the authenticated user's id (string).
	ContextUserID = "userID"
	// ContextUser holds the authenticated models.Identity.
	ContextUser = "user"
)

// TokenValidator verifies a bearer token and returns its user id.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// UserResolver loads the account behind a token subject.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (*models.User, error)
}

// AuthMiddleware is the security guard for protected routes. It accepts
// "Authorization: Bearer <token>" and stores the caller's identity in the context.
func AuthMiddleware(tokens TokenValidator, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		// 2. --- Validate Token ---
		userID, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 3. --- Resolve User ---
		user, err := users.Resolve(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
			slog.ErrorContext(c.Request.Context(), "resolve token user", slog.String("request_id", GetRequestID(c)), slog.Any("err", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// 4. --- Success ---
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user.Identity())
		c.Next()
	}
}

// CurrentUser returns the identity attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
