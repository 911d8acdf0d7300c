package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arteideas-backend/internal/aiedit"
	"arteideas-backend/internal/catalog"
	"arteideas-backend/internal/config"
	"arteideas-backend/internal/customizer"
	"arteideas-backend/internal/models"
	"arteideas-backend/internal/store"
)

type CustomizerHandler struct {
	store       *store.Store
	imageEditor aiedit.ImageEditor
	sessionCfg  customizer.Config
	maxUpload   int64
}

func NewCustomizerHandler(st *store.Store, imageEditor aiedit.ImageEditor, cfg *config.Config) *CustomizerHandler {
	return &CustomizerHandler{
		store:       st,
		imageEditor: imageEditor,
		sessionCfg: customizer.Config{
			MaxUploadBytes:       cfg.MaxUploadBytes,
			MaxCustomDimensionCm: cfg.MaxCustomDimensionCm,
			AITimeout:            cfg.AIRequestTimeout,
		},
		maxUpload: cfg.MaxUploadBytes,
	}
}

// CreateSession opens a customization session for a catalog product.
func (h *CustomizerHandler) CreateSession(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if _, err := catalog.ByID(req.ProductID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "product not found",
			Message: err.Error(),
		})
		return
	}

	sess := customizer.NewSession(userID, req.ProductID, h.imageEditor, h.sessionCfg)
	h.store.PutSession(sess)

	c.JSON(http.StatusCreated, sess.Snapshot())
}

func (h *CustomizerHandler) GetSession(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// DeleteSession abandons a customization without producing a line item.
func (h *CustomizerHandler) DeleteSession(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	sessionID, err := uuidParam(c, "session_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return
	}

	if err := h.store.DeleteSession(sessionID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session not found",
			Message: err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// Upload receives the photo to customize. The optional display_width
// and display_height form fields report the client's rendered size so
// later crop coordinates can be mapped back to natural pixels.
func (h *CustomizerHandler) Upload(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	file := firstUploadedFile(c.Request.MultipartForm)
	if file == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: "provide the photo in an \"image\", \"file\" or \"photo\" form field",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}

	displayWidth, _ := strconv.ParseFloat(c.PostForm("display_width"), 64)
	displayHeight, _ := strconv.ParseFloat(c.PostForm("display_height"), 64)

	if err := sess.Upload(data, displayWidth, displayHeight); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

func (h *CustomizerHandler) SelectFormat(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	var req models.SelectFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := sess.SelectFormat(req.FormatID, req.CustomWidth, req.CustomHeight); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

// DragRect translates the crop rectangle by the given deltas. Outside
// rectangle-select mode this is a no-op, mirroring a disabled overlay.
func (h *CustomizerHandler) DragRect(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	var req models.DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	sess.Drag(req.DeltaX, req.DeltaY)
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (h *CustomizerHandler) ApplyCrop(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	if err := sess.ApplyCrop(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

// NewCrop re-enters rectangle selection after a crop has been applied.
func (h *CustomizerHandler) NewCrop(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	var req struct {
		DisplayWidth  float64 `json:"display_width"`
		DisplayHeight float64 `json:"display_height"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := sess.NewCrop(req.DisplayWidth, req.DisplayHeight); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

// GetImage streams the current working image.
func (h *CustomizerHandler) GetImage(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	img, err := sess.Image()
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.Data(http.StatusOK, img.MimeType, img.Data)
}

// UpdateFields stages the paper type and project name ahead of submit.
// Setting a field clears its validation flag, like typing in the form.
func (h *CustomizerHandler) UpdateFields(c *gin.Context) {
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	var req struct {
		PaperType   *string `json:"paper_type"`
		ProjectName *string `json:"project_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	sess.SetFields(req.PaperType, req.ProjectName)
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Submit validates the form and, on success, hands the finished line
// item to the cart. Validation failures come back as the per-field
// flags with no cart side effect.
func (h *CustomizerHandler) Submit(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	sess, ok := sessionFrom(c, h.store)
	if !ok {
		return
	}

	var req models.SubmitRequest
	_ = c.ShouldBindJSON(&req)

	item, err := sess.Submit(req.PaperType, req.ProjectName)
	if err != nil {
		if errors.Is(err, customizer.ErrSubmitFailed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation failed",
				"errors": sess.Snapshot().Errors,
			})
			return
		}
		writeSessionError(c, err)
		return
	}

	items := h.store.AddCartItem(userID, *item)

	c.JSON(http.StatusOK, models.SubmitResponse{
		Item: *item,
		Cart: cartResponse(items),
	})
}

func firstUploadedFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, fieldName := range []string{"image", "file", "photo"} {
		if files := form.File[fieldName]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}
