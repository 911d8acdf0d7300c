package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/config"
	"arteideas-backend/internal/middleware"
	"arteideas-backend/internal/models"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// GuestToken issues an anonymous shopper token. The storefront calls
// this once per browser session before touching the API.
func (h *AuthHandler) GuestToken(c *gin.Context) {
	token, userID, err := middleware.IssueGuestToken(h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to issue token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		Token:  token,
		UserID: userID.String(),
	})
}
