package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/auth"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// AuthMiddleware validates the Bearer token and puts the user ID on the
// context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

func queryUserRole(db *sql.DB, userID int64) (string, error) {
	var role string
	err := db.QueryRow("SELECT role FROM users WHERE id = ?", userID).Scan(&role)
	return role, err
}

// StaffMiddleware runs after AuthMiddleware and only lets staff and
// administrators through. The role is added to the context.
func StaffMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID_raw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		userID := userID_raw.(int64)

		role, err := queryUserRole(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			c.Abort()
			return
		}

		if role != models.RoleStaff && role != models.RoleAdministrator {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: staff role required"})
			c.Abort()
			return
		}

		c.Set("userRole", role)
		c.Next()
	}
}

// AdminMiddleware restricts a group to administrators.
func AdminMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID_raw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		userID := userID_raw.(int64)

		role, err := queryUserRole(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			c.Abort()
			return
		}

		if role != models.RoleAdministrator {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: administrator role required"})
			c.Abort()
			return
		}

		c.Set("userRole", role)
		c.Next()
	}
}
