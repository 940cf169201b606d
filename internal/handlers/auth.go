package handlers

import (
	"errors"
	"net/http"

	"crm-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves /login and /me
type AuthHandler struct {
	manager *auth.Manager
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(manager *auth.Manager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin credentials for a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.manager.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "Usuario o contraseña inválidos")
		return
	}
	if err != nil {
		respondStoreError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the username carried by the token
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": c.GetString(auth.UserKey)})
}
