package handlers

import (
	"net/http"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,notblank,max=100"`
	LastName  string `json:"lastName" binding:"required,notblank,max=100"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72,maxbytes=72"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both register and login
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthHandler serves the public authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an identity and returns a token for it.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	token, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(token))
}

// Login verifies credentials and returns a token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	token, err := h.auth.Authenticate(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(token))
}

func newAuthResponse(token auth.Token) AuthResponse {
	return AuthResponse{
		Token:     token.Value,
		TokenType: "Bearer",
		ExpiresAt: token.ExpiresAt,
	}
}
