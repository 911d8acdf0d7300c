package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"arteideas-backend/internal/customizer"
	"arteideas-backend/internal/middleware"
	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

// userIDFrom extracts the authenticated shopper id set by the auth
// middleware. On failure it writes the response and reports false.
func userIDFrom(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// sessionFrom resolves the customizer session named in the URL for the
// authenticated shopper.
func sessionFrom(c *gin.Context, st *store.Store) (*customizer.Session, bool) {
	userID, ok := userIDFrom(c)
	if !ok {
		return nil, false
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return nil, false
	}

	sess, err := st.GetSession(sessionID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session not found",
			Message: err.Error(),
		})
		return nil, false
	}
	return sess, true
}

// writeSessionError maps customizer errors onto HTTP statuses.
func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customizer.ErrInvalidMode):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "invalid mode",
			Message: err.Error(),
		})
	case errors.Is(err, customizer.ErrRequestBusy):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "request in flight",
			Message: err.Error(),
		})
	case errors.Is(err, customizer.ErrNoImage):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no image uploaded"})
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "request failed",
			Message: err.Error(),
		})
	}
}
