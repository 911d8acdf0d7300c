// Package customizer orchestrates one photo customization session:
// upload, crop, color adjustment, AI editing and final submission as a
// cart line item.
package customizer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"arteideas-backend/internal/aiedit"
	"arteideas-backend/internal/cropper"
	"arteideas-backend/internal/filters"
	"arteideas-backend/internal/models"
	"arteideas-backend/internal/photo"
)

// Mode is the customizer's view state. Exactly one mode is active at a
// time; the editor sub-views are full-screen alternates entered from
// Cropped.
type Mode string

const (
	ModeBrowsing  Mode = "browsing"
	ModeCropping  Mode = "cropping"
	ModeCropped   Mode = "cropped"
	ModeEditing   Mode = "editing"
	ModeAIEditing Mode = "ai_editing"
	ModeSubmitted Mode = "submitted"
)

var (
	ErrInvalidMode  = errors.New("operation not valid in current mode")
	ErrNoImage      = errors.New("no image uploaded")
	ErrRequestBusy  = errors.New("an AI request is in flight")
	ErrSubmitFailed = errors.New("validation failed")
)

type Config struct {
	MaxUploadBytes       int64
	MaxCustomDimensionCm float64
	AITimeout            time.Duration
}

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Session owns the working image and the form state for one
// customization. All methods are safe for concurrent use.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID int

	mu           sync.Mutex
	cfg          Config
	imageEditor  aiedit.ImageEditor
	mode         Mode
	formatID     string
	customWidth  *float64
	customHeight *float64
	paperType    string
	projectName  string
	fieldErrors  models.FieldErrors

	img           photo.Image
	displayWidth  float64
	displayHeight float64
	rect          cropper.Rect

	ai           *aiedit.Session
	filterValues filters.Settings

	createdAt    time.Time
	lastActivity time.Time
}

func NewSession(userID uuid.UUID, productID int, imageEditor aiedit.ImageEditor, cfg Config) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New(),
		UserID:       userID,
		ProductID:    productID,
		cfg:          cfg,
		imageEditor:  imageEditor,
		mode:         ModeBrowsing,
		formatID:     "11x15",
		createdAt:    now,
		lastActivity: now,
	}
}

// Upload replaces the working image with a freshly decoded file and
// enters Cropping. displayWidth/displayHeight are the client's
// rendered size of the image; zero means display equals natural.
func (s *Session) Upload(data []byte, displayWidth, displayHeight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	switch s.mode {
	case ModeBrowsing, ModeCropping, ModeCropped:
	default:
		return ErrInvalidMode
	}

	if s.cfg.MaxUploadBytes > 0 && int64(len(data)) > s.cfg.MaxUploadBytes {
		return fmt.Errorf("file exceeds %d bytes", s.cfg.MaxUploadBytes)
	}
	if mime := photo.Sniff(data); !allowedUploadTypes[mime] {
		return fmt.Errorf("unsupported media type %s", mime)
	}

	img, err := photo.FromBytes(data)
	if err != nil {
		return err
	}

	s.img = img
	if displayWidth > 0 && displayHeight > 0 {
		s.displayWidth = displayWidth
		s.displayHeight = displayHeight
	} else {
		s.displayWidth = float64(img.Width)
		s.displayHeight = float64(img.Height)
	}
	s.mode = ModeCropping
	s.fieldErrors.Image = false
	s.recomputeRectLocked()
	return nil
}

// SelectFormat changes the target print size. Switching while Cropped
// reverts to Cropping: the applied crop stands, but a new one must be
// made for the new aspect ratio.
func (s *Session) SelectFormat(id string, customWidth, customHeight *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if _, ok := FormatByID(id); !ok {
		return fmt.Errorf("unknown format %q", id)
	}
	switch s.mode {
	case ModeBrowsing, ModeCropping, ModeCropped:
	default:
		return ErrInvalidMode
	}

	s.formatID = id
	if id == customFormatID {
		s.customWidth = customWidth
		s.customHeight = customHeight
	}
	if s.mode == ModeCropped {
		s.mode = ModeCropping
	}
	s.recomputeRectLocked()
	return nil
}

// Drag moves the crop rectangle. Outside Cropping, or before a
// rectangle exists, it is a silent no-op.
func (s *Session) Drag(deltaX, deltaY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeCropping || s.rect.Empty() {
		return
	}
	s.rect = cropper.Drag(s.rect, deltaX, deltaY, s.displayWidth, s.displayHeight)
}

// ApplyCrop bakes the current rectangle into a new working image and
// enters Cropped. When preconditions are not met (no image yet, empty
// rectangle, invalid custom dimensions) it no-ops: the affordance is
// expected to be disabled, not to raise.
func (s *Session) ApplyCrop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeCropping {
		return nil
	}
	if s.img.IsZero() || s.rect.Empty() {
		return nil
	}
	if s.formatID == customFormatID && !s.customDimensionsValidLocked() {
		return nil
	}
	if s.displayWidth <= 0 || s.displayHeight <= 0 {
		return nil
	}

	scaleX := float64(s.img.Width) / s.displayWidth
	scaleY := float64(s.img.Height) / s.displayHeight

	cropped, err := cropper.Apply(s.img, s.rect, scaleX, scaleY)
	if err != nil {
		return fmt.Errorf("apply crop: %w", err)
	}

	s.img = cropped
	s.displayWidth = float64(cropped.Width)
	s.displayHeight = float64(cropped.Height)
	s.rect = cropper.Rect{}
	s.mode = ModeCropped
	return nil
}

// NewCrop re-enters rectangle selection against the current working
// image. An applied crop is not undone.
func (s *Session) NewCrop(displayWidth, displayHeight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeCropped {
		return ErrInvalidMode
	}
	if displayWidth > 0 && displayHeight > 0 {
		s.displayWidth = displayWidth
		s.displayHeight = displayHeight
	} else {
		s.displayWidth = float64(s.img.Width)
		s.displayHeight = float64(s.img.Height)
	}
	s.mode = ModeCropping
	s.recomputeRectLocked()
	return nil
}

// EnterFilterEditor suspends the customizer and opens the adjustment
// editor with default settings.
func (s *Session) EnterFilterEditor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeCropped {
		return ErrInvalidMode
	}
	s.mode = ModeEditing
	s.filterValues = filters.Defaults()
	return nil
}

// UpdateFilter stores the live slider values and returns the preview
// pipeline expression.
func (s *Session) UpdateFilter(values filters.Settings) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeEditing {
		return "", ErrInvalidMode
	}
	s.filterValues = values.Clamped()
	return filters.FilterString(s.filterValues), nil
}

// ResetFilter restores default settings without touching the buffer.
func (s *Session) ResetFilter() (filters.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeEditing {
		return filters.Settings{}, ErrInvalidMode
	}
	s.filterValues = filters.Defaults()
	return s.filterValues, nil
}

// SaveFilter bakes the current settings into a new working image,
// discards them, and returns to Cropped.
func (s *Session) SaveFilter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeEditing {
		return ErrInvalidMode
	}

	baked, err := filters.Bake(s.img, s.filterValues)
	if err != nil {
		return fmt.Errorf("bake filters: %w", err)
	}
	s.img = baked
	s.displayWidth = float64(baked.Width)
	s.displayHeight = float64(baked.Height)
	s.filterValues = filters.Settings{}
	s.mode = ModeCropped
	return nil
}

// CancelFilter returns to Cropped with the image unchanged.
func (s *Session) CancelFilter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeEditing {
		return ErrInvalidMode
	}
	s.filterValues = filters.Settings{}
	s.mode = ModeCropped
	return nil
}

// EnterAIEditor hands the working image to a fresh AI edit session.
func (s *Session) EnterAIEditor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeCropped {
		return ErrInvalidMode
	}
	if s.imageEditor == nil {
		return errors.New("image editor not configured")
	}
	s.ai = aiedit.NewSession(s.imageEditor, s.img, s.cfg.AITimeout)
	s.mode = ModeAIEditing
	return nil
}

// AI exposes the active edit conversation. Callers interact with it
// directly so a long-running generation does not hold the customizer
// lock.
func (s *Session) AI() (*aiedit.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeAIEditing || s.ai == nil {
		return nil, ErrInvalidMode
	}
	return s.ai, nil
}

// SaveAI commits the AI session's active image as the working image
// and returns to Cropped.
func (s *Session) SaveAI() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeAIEditing || s.ai == nil {
		return ErrInvalidMode
	}
	if s.ai.State() == aiedit.StateSending {
		return ErrRequestBusy
	}
	s.img = s.ai.Commit()
	s.displayWidth = float64(s.img.Width)
	s.displayHeight = float64(s.img.Height)
	s.ai = nil
	s.mode = ModeCropped
	return nil
}

// CancelAI discards the AI session, leaving the image unchanged.
func (s *Session) CancelAI() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode != ModeAIEditing || s.ai == nil {
		return ErrInvalidMode
	}
	if s.ai.State() == aiedit.StateSending {
		return ErrRequestBusy
	}
	s.ai = nil
	s.mode = ModeCropped
	return nil
}

// Submit validates the required fields and, on success, produces the
// line item and terminates the customizer. On failure it only marks
// the per-field flags; no side effects.
func (s *Session) Submit(paperType, projectName string) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	switch s.mode {
	case ModeCropping, ModeCropped:
	default:
		return nil, ErrInvalidMode
	}

	if paperType != "" {
		s.paperType = paperType
	}
	if projectName != "" {
		s.projectName = projectName
	}

	s.fieldErrors = models.FieldErrors{
		Image:   s.img.IsZero(),
		Paper:   s.paperType == "",
		Project: isBlank(s.projectName),
	}
	if s.formatID == customFormatID {
		s.fieldErrors.Dimensions = !s.customDimensionsValidLocked()
	}

	if s.fieldErrors.Image || s.fieldErrors.Paper || s.fieldErrors.Project || s.fieldErrors.Dimensions {
		return nil, ErrSubmitFailed
	}

	format, _ := FormatByID(s.formatID)
	label := format.Label
	if s.formatID == customFormatID {
		label = customLabel(*s.customWidth, *s.customHeight)
	}

	item := models.CartItem{
		ID:          uuid.New(),
		ProductID:   s.ProductID,
		ImgSrc:      s.img.DataURI(),
		ProjectName: s.projectName,
		Format:      label,
		PaperType:   s.paperType,
		UnitPrice:   format.UnitPrice,
		Quantity:    1,
		CreatedAt:   time.Now(),
	}

	s.mode = ModeSubmitted
	return &item, nil
}

// SetFields updates paper type and project name without submitting,
// clearing their error flags the way typing does in the form.
func (s *Session) SetFields(paperType, projectName *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if paperType != nil {
		s.paperType = *paperType
		s.fieldErrors.Paper = false
	}
	if projectName != nil {
		s.projectName = *projectName
		s.fieldErrors.Project = false
	}
}

// Image returns the current working image.
func (s *Session) Image() (photo.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.img.IsZero() {
		return photo.Image{}, ErrNoImage
	}
	return s.img, nil
}

// Snapshot renders the session state for the API.
func (s *Session) Snapshot() models.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	format, _ := FormatByID(s.formatID)
	label := format.Label
	if s.formatID == customFormatID && s.customDimensionsValidLocked() {
		label = customLabel(*s.customWidth, *s.customHeight)
	}

	resp := models.SessionResponse{
		SessionID:     s.ID.String(),
		ProductID:     s.ProductID,
		Mode:          string(s.mode),
		FormatID:      s.formatID,
		FormatLabel:   label,
		UnitPrice:     format.UnitPrice,
		CustomWidth:   s.customWidth,
		CustomHeight:  s.customHeight,
		PaperType:     s.paperType,
		ProjectName:   s.projectName,
		HasImage:      !s.img.IsZero(),
		DisplayWidth:  s.displayWidth,
		DisplayHeight: s.displayHeight,
		Errors:        s.fieldErrors,
	}
	if s.mode == ModeCropping && !s.rect.Empty() {
		resp.CropRect = &models.CropRect{
			X:      s.rect.X,
			Y:      s.rect.Y,
			Width:  s.rect.Width,
			Height: s.rect.Height,
		}
	}
	return resp
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Rect() cropper.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rect
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// targetRatioLocked resolves the active aspect ratio, or false while
// the custom dimensions are not yet usable.
func (s *Session) targetRatioLocked() (float64, bool) {
	if s.formatID == customFormatID {
		if !s.customDimensionsValidLocked() {
			return 0, false
		}
		return *s.customWidth / *s.customHeight, true
	}
	return fixedAspectRatio(s.formatID)
}

func (s *Session) customDimensionsValidLocked() bool {
	if s.customWidth == nil || s.customHeight == nil {
		return false
	}
	w, h := *s.customWidth, *s.customHeight
	if w <= 0 || h <= 0 {
		return false
	}
	if limit := s.cfg.MaxCustomDimensionCm; limit > 0 && (w > limit || h > limit) {
		return false
	}
	return true
}

func (s *Session) recomputeRectLocked() {
	if s.mode != ModeCropping || s.img.IsZero() {
		s.rect = cropper.Rect{}
		return
	}
	ratio, ok := s.targetRatioLocked()
	if !ok {
		s.rect = cropper.Rect{}
		return
	}
	s.rect = cropper.InitialRect(s.displayWidth, s.displayHeight, ratio)
}

func (s *Session) touchLocked() {
	s.lastActivity = time.Now()
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
