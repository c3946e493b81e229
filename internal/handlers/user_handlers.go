package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/auth"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// RegisterUserInput is separate from models.User so clients cannot
// smuggle in an id or a role.
type RegisterUserInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handlers) registerWithRole(c *gin.Context, role string) {
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := &models.User{
		Role:      role,
		Email:     input.Email,
		FullName:  input.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.PasswordHash = password.Hash

	query := `
		INSERT INTO users (role, email, password_hash, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query, user.Role, user.Email, user.PasswordHash, user.FullName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Could not create user (email may already be registered)"})
		return
	}
	user.ID, _ = result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
	})
}

// Register is the handler for POST /v1/register. New accounts are members.
func (h *Handlers) Register(c *gin.Context) {
	h.registerWithRole(c, models.RoleMember)
}

// CreateStaff is the handler for POST /v1/admin/create-staff.
func (h *Handlers) CreateStaff(c *gin.Context) {
	h.registerWithRole(c, models.RoleStaff)
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := "SELECT id, role, email, password_hash, full_name FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(
		&user.ID, &user.Role, &user.Email, &user.PasswordHash, &user.FullName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error during login"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil || !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
