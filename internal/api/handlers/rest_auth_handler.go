package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/auth"
	"github.com/ihsaan797/InvoiceME/internal/config"
	"github.com/ihsaan797/InvoiceME/internal/services"
)

// RestAuthHandler handles login and operator account creation.
type RestAuthHandler struct {
	users services.IUserService
	cfg   *config.Config
}

// NewRestAuthHandler creates a new RestAuthHandler.
func NewRestAuthHandler(users services.IUserService, cfg *config.Config) *RestAuthHandler {
	return &RestAuthHandler{users: users, cfg: cfg}
}

// Login handles POST /v1/auth/login.
func (h *RestAuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.IsAdmin, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Register handles POST /v1/admin/users. Only admins reach this route; the
// middleware chain enforces that.
func (h *RestAuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Name     string `json:"name"`
		Password string `json:"password" binding:"required"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.Name, req.Password, req.IsAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /v1/admin/users.
func (h *RestAuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
