package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/middleware"
)

// SignupInput is the JSON body of POST /api/auth/signup.
type SignupInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginInput is the JSON body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup is the handler for POST /api/auth/signup.
func (h *Handlers) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	session, err := h.Accounts.Signup(c.Request.Context(), input.Email, input.Name, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Login is the handler for POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	session, err := h.Accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me is the handler for GET /api/auth/me.
func (h *Handlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
