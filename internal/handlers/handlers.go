package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/catalog"
	"github.com/swapcloset/swapcloset-golang/internal/ledger"
	"github.com/swapcloset/swapcloset-golang/internal/media"
	"github.com/swapcloset/swapcloset-golang/internal/notify"
	"github.com/swapcloset/swapcloset-golang/internal/submissions"
	"github.com/swapcloset/swapcloset-golang/internal/viewsync"
	"github.com/swapcloset/swapcloset-golang/internal/workflow"
)

// Handlers holds all dependencies for the HTTP layer. Everything is
// injected so tests can run the handlers against in-memory fakes.
type Handlers struct {
	DB            *sql.DB
	Catalog       *catalog.Repository
	Submissions   *submissions.Repository
	Workflow      *workflow.Engine
	Ledger        ledger.Ledger
	Media         media.Store
	Notifications *notify.Log
	Views         map[string]*viewsync.View
}

// respondError maps the error taxonomy onto HTTP status codes. Expected
// failure modes come back as typed errors from the repositories and the
// workflow engine; anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	var validationErr *apperr.ValidationError
	var notFoundErr *apperr.NotFoundError
	var conflictErr *apperr.StateConflictError
	var persistenceErr *apperr.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &persistenceErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// currentUserID pulls the authenticated user out of the context.
func currentUserID(c *gin.Context) (int64, bool) {
	userID_raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return 0, false
	}
	return userID_raw.(int64), true
}
