package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/aiedit"
	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

// AIEditorHandler drives the conversational AI edit sub-view.
type AIEditorHandler struct {
	store *store.Store
}

func NewAIEditorHandler(st *store.Store) *AIEditorHandler {
	return &AIEditorHandler{store: st}
}

// Enter starts an AI edit conversation seeded with the cropped
// working image.
func (h *AIEditorHandler) Enter(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.EnterAIEditor(); err != nil {
		writeSessionError(c, err)
		return
	}

	ai, err := sess.AI()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, aiStateResponse(ai))
}

// GetState returns the transcript and history position.
func (h *AIEditorHandler) GetState(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	ai, err := sess.AI()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, aiStateResponse(ai))
}

// SendMessage runs one edit turn. The call blocks until the
// generation resolves; a second message while one is in flight is
// rejected without side effects.
func (h *AIEditorHandler) SendMessage(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	ai, err := sess.AI()
	if err != nil {
		writeSessionError(c, err)
		return
	}

	var req models.AIMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if accepted := ai.Send(c.Request.Context(), req.Text); !accepted {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "message rejected",
			Message: "instruction is blank or a request is already in flight",
		})
		return
	}

	c.JSON(http.StatusOK, aiStateResponse(ai))
}

// SelectHistory makes an earlier result the active image. History is
// never truncated; any entry, including the original, can be chosen.
func (h *AIEditorHandler) SelectHistory(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	ai, err := sess.AI()
	if err != nil {
		writeSessionError(c, err)
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := ai.SelectHistory(req.Index); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid history index",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, aiStateResponse(ai))
}

// Save commits the active image back into the customizer.
func (h *AIEditorHandler) Save(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.SaveAI(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

// Cancel abandons the conversation, leaving the image unchanged.
func (h *AIEditorHandler) Cancel(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.CancelAI(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

func aiStateResponse(ai *aiedit.Session) models.AISessionResponse {
	transcript := ai.Transcript()
	entries := make([]models.TranscriptEntry, len(transcript))
	for i, msg := range transcript {
		entries[i] = models.TranscriptEntry{Role: msg.Role, Text: msg.Text}
	}

	return models.AISessionResponse{
		State:        string(ai.State()),
		Transcript:   entries,
		HistorySize:  ai.HistorySize(),
		CurrentIndex: ai.CurrentIndex(),
	}
}
