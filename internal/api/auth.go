package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts /login for every verb so non-POST requests get an Allow header.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.Any("/login", h.Login)
}

// Login exchanges an email and password for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, types.MessageResponse{Message: "Method " + c.Request.Method + " Not Allowed"})
		return
	}

	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.MessageResponse{Message: "Invalid request body"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{Token: token})
}
