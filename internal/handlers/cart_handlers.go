package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/services"
)

//
// --- Cart Handlers (login required) ---
//

// AddToCartInput defines the JSON for adding an item to the cart.
// Quantity is loosely typed: anything that is not a positive integer counts as 1.
type AddToCartInput struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity any    `json:"quantity"`
}

// UpdateCartItemInput defines the JSON for setting a line's quantity.
// A quantity of 0 or less removes the line.
type UpdateCartItemInput struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity any    `json:"quantity"`
}

// RemoveCartItemInput defines the JSON for removing a line.
type RemoveCartItemInput struct {
	ItemID string `json:"itemId" binding:"required"`
}

// GetCart is the handler for GET /api/cart.
func (h *Handlers) GetCart(c *gin.Context) {
	view, err := h.Carts.View(c.Request.Context(), currentUserID(c), c.GetHeader("Accept-Language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddToCart is the handler for POST /api/cart/add.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	quantity := services.ParseAddQuantity(input.Quantity)
	if err := h.Carts.AddItem(c.Request.Context(), currentUserID(c), input.ItemID, quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateCartItem is the handler for POST /api/cart/update.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if input.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}

	quantity, err := services.ParseQuantity(input.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Carts.UpdateQuantity(c.Request.Context(), currentUserID(c), input.ItemID, quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveCartItem is the handler for POST /api/cart/remove.
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	var input RemoveCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := h.Carts.RemoveItem(c.Request.Context(), currentUserID(c), input.ItemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearCart is the handler for POST /api/cart/clear.
func (h *Handlers) ClearCart(c *gin.Context) {
	if err := h.Carts.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
