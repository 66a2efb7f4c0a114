package handlers

import (
	"net/http"

	"foodgram-backend/models"
	"foodgram-backend/services"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Users  *services.UserService
	Tokens *utils.TokenManager
}

func NewAuthHandler(users *services.UserService, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{Token: token})
}

// Logout exists for client compatibility. Tokens are stateless and simply
// expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
