package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/middleware"
	"github.com/01moynul/cartify-golang/internal/services"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Accounts *services.AccountService
	Catalog  *services.CatalogService
	Carts    *services.CartService
	Log      *slog.Logger
}

// Health is the handler for GET /api/health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// respondError maps service errors to a status code. Unexpected errors are
// logged and answered with a generic 500.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	}

	var svcErr *services.Error
	if status != http.StatusInternalServerError && errors.As(err, &svcErr) {
		c.JSON(status, gin.H{"error": svcErr.Message})
		return
	}

	h.Log.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.Any("err", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// currentUserID reads the id stored by AuthMiddleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
