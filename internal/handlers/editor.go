package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/filters"
	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

// EditorHandler drives the color-adjustment editor sub-view.
type EditorHandler struct {
	store *store.Store
}

func NewEditorHandler(st *store.Store) *EditorHandler {
	return &EditorHandler{store: st}
}

// Enter opens the editor on the cropped working image with default
// slider values.
func (h *EditorHandler) Enter(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.EnterFilterEditor(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FilterPreviewResponse{
		Filter: filters.FilterString(filters.Defaults()),
	})
}

// Preview stores the live slider values and returns the pipeline
// expression the client applies for its non-destructive preview.
func (h *EditorHandler) Preview(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	var values filters.Settings
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	filter, err := sess.UpdateFilter(values)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FilterPreviewResponse{Filter: filter})
}

// Reset restores the default settings without touching the buffer.
func (h *EditorHandler) Reset(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	values, err := sess.ResetFilter()
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": values,
		"filter":   filters.FilterString(values),
	})
}

// Save bakes the adjustments into a new working image and returns to
// the customizer.
func (h *EditorHandler) Save(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.SaveFilter(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

// Cancel discards the adjustments.
func (h *EditorHandler) Cancel(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.CancelFilter(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}
