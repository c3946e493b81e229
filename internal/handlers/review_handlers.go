package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/workflow"
)

//
// --- Staff: Submission Review Handlers ---
//

// GetSubmissions is the handler for GET /v1/staff/submissions.
// An optional ?status=pending|approved|rejected partitions the queue.
func (h *Handlers) GetSubmissions(c *gin.Context) {
	items, err := h.Submissions.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetSubmission is the handler for GET /v1/staff/submissions/:id.
func (h *Handlers) GetSubmission(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := h.Submissions.Get(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ApproveSubmissionInput carries the reviewer's decision.
type ApproveSubmissionInput struct {
	Notes            string   `json:"notes"`
	SwapcoinsAwarded int      `json:"swapcoinsAwarded" binding:"gte=0"`
	Convertible      bool     `json:"convertible"`
	EstimatedValue   *float64 `json:"estimatedValue" binding:"omitempty,gte=0"`
}

// ApproveSubmission is the handler for PATCH /v1/staff/submissions/:id/approve.
// Approving a reviewed item or a catalog item answers 409.
func (h *Handlers) ApproveSubmission(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input ApproveSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Workflow.Approve(c.Request.Context(), itemID, reviewerID, workflow.ApproveParams{
		Notes:          input.Notes,
		SwapCoins:      input.SwapcoinsAwarded,
		Convertible:    input.Convertible,
		EstimatedValue: input.EstimatedValue,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission approved",
		"item":    item,
	})
}

// RejectSubmissionInput requires a reason so the owner learns why.
type RejectSubmissionInput struct {
	Notes string `json:"notes" binding:"required"`
}

// RejectSubmission is the handler for PATCH /v1/staff/submissions/:id/reject.
func (h *Handlers) RejectSubmission(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input RejectSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Workflow.Reject(c.Request.Context(), itemID, reviewerID, workflow.RejectParams{
		Notes: input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission rejected",
		"item":    item,
	})
}

// BatchApproveInput approves several submissions with a flat award.
type BatchApproveInput struct {
	ItemIDs          []int64 `json:"itemIds" binding:"required,min=1"`
	SwapcoinsPerItem int     `json:"swapcoinsPerItem" binding:"gte=0"`
}

// BatchApproveSubmissions is the handler for POST /v1/staff/submissions/batch-approve.
// Per-item failures are reported in the body; the response is 200 even
// when some items fail, because the batch itself completed.
func (h *Handlers) BatchApproveSubmissions(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input BatchApproveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Workflow.BatchApprove(c.Request.Context(), input.ItemIDs, input.SwapcoinsPerItem, reviewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ConvertSubmission is the handler for POST /v1/staff/submissions/:id/convert.
// It promotes an approved, convertible submission into the catalog.
func (h *Handlers) ConvertSubmission(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := h.Workflow.ConvertToInventory(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission converted to catalog inventory",
		"item":    item,
	})
}
