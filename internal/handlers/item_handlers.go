package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/submissions"
)

// CreateSubmissionInput is the intake form payload. Images are public
// URLs returned by the upload endpoint.
type CreateSubmissionInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Condition   string   `json:"condition"`
	Size        string   `json:"size"`
	Images      []string `json:"images"`
}

// CreateSubmission is the handler for POST /v1/items. It stores a new
// submission awaiting staff review.
func (h *Handlers) CreateSubmission(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Submissions.Create(c.Request.Context(), submissions.CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Condition:   input.Condition,
		Size:        input.Size,
		Images:      input.Images,
		OwnerUserID: userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item submitted for review",
		"item":    item,
	})
}

// GetMyItems is the handler for GET /v1/items/me.
func (h *Handlers) GetMyItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.Submissions.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// DeleteMyItem is the handler for DELETE /v1/items/:id. Members can
// withdraw their own submissions; reviewed history stays unless the
// owner removes it.
func (h *Handlers) DeleteMyItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	item, err := h.Submissions.Get(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	if item.OwnerUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this item"})
		return
	}

	if err := h.Submissions.Delete(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GetShop is the handler for GET /v1/shop: the active catalog with
// derived stock statuses, for browsing.
func (h *Handlers) GetShop(c *gin.Context) {
	items, err := h.Catalog.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// parseItemID is shared by the staff handlers; an unparseable id is a
// validation problem, not a lookup miss.
func parseItemID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("id", "must be an integer")
	}
	return id, nil
}
