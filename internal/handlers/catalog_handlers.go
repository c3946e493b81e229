package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/catalog"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
)

//
// --- Staff: Catalog Management Handlers ---
//

// GetCatalog is the handler for GET /v1/staff/catalog: every listing,
// active or not, newest first.
func (h *Handlers) GetCatalog(c *gin.Context) {
	items, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateCatalogItemInput creates a listing directly, without going
// through submission review.
type CreateCatalogItemInput struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Condition     string   `json:"condition"`
	Size          string   `json:"size"`
	Images        []string `json:"images"`
	Price         float64  `json:"price" binding:"gte=0"`
	SKU           string   `json:"sku"`
	StockQuantity int      `json:"stockQuantity" binding:"gte=0"`
}

// CreateCatalogItem is the handler for POST /v1/staff/catalog.
func (h *Handlers) CreateCatalogItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Catalog.Create(c.Request.Context(), catalog.CreateInput{
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Condition:     input.Condition,
		Size:          input.Size,
		Images:        input.Images,
		OwnerUserID:   userID,
		Price:         input.Price,
		SKU:           input.SKU,
		StockQuantity: input.StockQuantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Catalog item created",
		"item":    item,
	})
}

// UpdateCatalogItemInput is a partial update; nil fields are untouched.
type UpdateCatalogItemInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Condition   *string   `json:"condition"`
	Size        *string   `json:"size"`
	Images      *[]string `json:"images"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
}

// UpdateCatalogItem is the handler for PUT /v1/staff/catalog/:id.
func (h *Handlers) UpdateCatalogItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input UpdateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.Catalog.Update(c.Request.Context(), itemID, itemstore.Patch{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Condition:   input.Condition,
		Size:        input.Size,
		Images:      input.Images,
		Price:       input.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catalog item updated"})
}

// AdjustStockInput overwrites the stock count.
type AdjustStockInput struct {
	StockQuantity *int `json:"stockQuantity" binding:"required"`
}

// AdjustStock is the handler for PATCH /v1/staff/catalog/:id/stock.
// Negative quantities answer 400.
func (h *Handlers) AdjustStock(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Catalog.AdjustStock(c.Request.Context(), itemID, *input.StockQuantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}

// SetActiveInput toggles listing visibility.
type SetActiveInput struct {
	Active *bool `json:"active" binding:"required"`
}

// SetCatalogItemActive is the handler for PATCH /v1/staff/catalog/:id/active.
func (h *Handlers) SetCatalogItemActive(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input SetActiveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Catalog.SetActive(c.Request.Context(), itemID, *input.Active); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catalog item visibility updated"})
}

// DeleteCatalogItem is the handler for DELETE /v1/staff/catalog/:id.
func (h *Handlers) DeleteCatalogItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Catalog.Delete(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catalog item deleted"})
}
