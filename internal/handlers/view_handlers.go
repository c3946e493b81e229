package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLiveView is the handler for GET /v1/staff/views/:name. It serves
// the in-memory snapshot a view synchronizer maintains off the change
// feed, so the dashboard reads never touch the database.
func (h *Handlers) GetLiveView(c *gin.Context) {
	name := c.Param("name")
	view, ok := h.Views[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown view: " + name})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view":  name,
		"items": view.Items(),
	})
}
