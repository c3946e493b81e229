package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Wallet Handlers ---
//

// GetMyWallet is the handler for GET /v1/wallet. It returns the user's
// current SwapCoins balance.
func (h *Handlers) GetMyWallet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.Ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"swapcoins": balance})
}

// ManualTopUp is the handler for POST /v1/wallet/topup. It is the
// payment placeholder: no money moves, the balance just goes up. The
// reference is a fresh uuid because each top-up is its own event.
func (h *Handlers) ManualTopUp(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Amount int `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	reference := "topup:" + uuid.New().String()
	balance, err := h.Ledger.Credit(c.Request.Context(), userID, input.Amount, reference, "topup", "Manual top-up placeholder")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Top-up successful",
		"swapcoins": balance,
	})
}
