package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/services"
)

// CreateItemInput is the JSON body of POST /api/items.
type CreateItemInput struct {
	Title        string                          `json:"title" binding:"required"`
	Description  string                          `json:"description"`
	Price        *float64                        `json:"price" binding:"required"`
	Category     string                          `json:"category"`
	ImageURL     string                          `json:"imageUrl"`
	Translations map[string]models.LocalizedText `json:"translations"`
}

// UpdateItemInput is the JSON body of PUT /api/items/:id. Omitted fields are left unchanged.
type UpdateItemInput struct {
	Title        *string                         `json:"title"`
	Description  *string                         `json:"description"`
	Price        *float64                        `json:"price"`
	Category     *string                         `json:"category"`
	ImageURL     *string                         `json:"imageUrl"`
	Translations map[string]models.LocalizedText `json:"translations"`
}

// ListItems is the handler for GET /api/items.
func (h *Handlers) ListItems(c *gin.Context) {
	filter := models.ParseItemFilter(c.Request.URL.Query())

	page, err := h.Catalog.List(c.Request.Context(), filter, c.GetHeader("Accept-Language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetItem is the handler for GET /api/items/:id.
func (h *Handlers) GetItem(c *gin.Context) {
	item, err := h.Catalog.Get(c.Request.Context(), c.Param("id"), c.GetHeader("Accept-Language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem is the handler for POST /api/items.
func (h *Handlers) CreateItem(c *gin.Context) {
	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	item, err := h.Catalog.Create(c.Request.Context(), services.ItemInput{
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		ImageURL:     input.ImageURL,
		Translations: input.Translations,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem is the handler for PUT /api/items/:id.
func (h *Handlers) UpdateItem(c *gin.Context) {
	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	item, err := h.Catalog.Update(c.Request.Context(), c.Param("id"), services.ItemPatch{
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		ImageURL:     input.ImageURL,
		Translations: input.Translations,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem is the handler for DELETE /api/items/:id.
func (h *Handlers) DeleteItem(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
