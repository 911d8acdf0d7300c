package customizer_test

import (
	"context"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arteideas-backend/internal/customizer"
	"arteideas-backend/internal/filters"
	"arteideas-backend/internal/photo"
)

type passthroughEditor struct{}

func (passthroughEditor) EditImage(ctx context.Context, img photo.Image, instruction string) (*photo.Image, error) {
	out := img
	return &out, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img, err := photo.EncodePNG(imaging.New(w, h, color.NRGBA{R: 90, G: 120, B: 150, A: 255}))
	require.NoError(t, err)
	return img.Data
}

func newSession(t *testing.T) *customizer.Session {
	t.Helper()
	return customizer.NewSession(uuid.New(), 1, passthroughEditor{}, customizer.Config{
		MaxUploadBytes:       15 << 20,
		MaxCustomDimensionCm: 100,
	})
}

func float(v float64) *float64 { return &v }

func filtersWithSepia(v float64) filters.Settings {
	s := filters.Defaults()
	s.Sepia = v
	return s
}

func TestNewSession_StartsBrowsingWithDefaultFormat(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, customizer.ModeBrowsing, s.Mode())

	snap := s.Snapshot()
	assert.Equal(t, "11x15", snap.FormatID)
	assert.Equal(t, 0.80, snap.UnitPrice)
	assert.False(t, snap.HasImage)
	assert.Nil(t, snap.CropRect)
}

func TestUpload_EntersCroppingWithCenteredRect(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 800, 600))

	assert.Equal(t, customizer.ModeCropping, s.Mode())
	r := s.Rect()
	require.False(t, r.Empty())
	assert.InDelta(t, 11.0/15.0, r.Width/r.Height, 1e-3)
	assert.LessOrEqual(t, r.X+r.Width, 800.0+1e-9)
	assert.LessOrEqual(t, r.Y+r.Height, 600.0+1e-9)
}

func TestUpload_RejectsNonImageData(t *testing.T) {
	s := newSession(t)

	err := s.Upload([]byte("definitely not a picture"), 0, 0)
	assert.Error(t, err)
	assert.Equal(t, customizer.ModeBrowsing, s.Mode())
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	s := customizer.NewSession(uuid.New(), 1, nil, customizer.Config{MaxUploadBytes: 64})

	err := s.Upload(pngBytes(t, 50, 50), 0, 0)
	assert.Error(t, err)
}

func TestSelectFormat_RecomputesRect(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 800, 600))

	require.NoError(t, s.SelectFormat("15x15", nil, nil))
	r := s.Rect()
	assert.InDelta(t, 1.0, r.Width/r.Height, 1e-3)
}

func TestSelectFormat_UnknownID(t *testing.T) {
	s := newSession(t)
	assert.Error(t, s.SelectFormat("4x6", nil, nil))
}

func TestSelectFormat_WhileCroppedRevertsToCropping(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())
	require.Equal(t, customizer.ModeCropped, s.Mode())

	require.NoError(t, s.SelectFormat("13x18", nil, nil))
	assert.Equal(t, customizer.ModeCropping, s.Mode())
	assert.False(t, s.Rect().Empty())
}

func TestDrag_NoOpOutsideCropping(t *testing.T) {
	s := newSession(t)
	s.Drag(10, 10)
	assert.True(t, s.Rect().Empty())
}

func TestApplyCrop_ReplacesWorkingImage(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))

	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, customizer.ModeCropped, s.Mode())

	img, err := s.Image()
	require.NoError(t, err)
	assert.InDelta(t, 11.0/15.0, float64(img.Width)/float64(img.Height), 1e-2)
	assert.True(t, s.Rect().Empty())
}

func TestApplyCrop_NoOpWithoutImage(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, customizer.ModeBrowsing, s.Mode())
}

func TestApplyCrop_CustomFormatNeedsBothDimensions(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))

	// Only a width entered: no rect exists, apply must not fire
	require.NoError(t, s.SelectFormat("custom", float(15), nil))
	assert.True(t, s.Rect().Empty())
	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, customizer.ModeCropping, s.Mode())

	// A zero height is just as unusable
	require.NoError(t, s.SelectFormat("custom", float(15), float(0)))
	assert.True(t, s.Rect().Empty())
	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, customizer.ModeCropping, s.Mode())

	// Height arrives: rect appears and apply works
	require.NoError(t, s.SelectFormat("custom", float(15), float(10)))
	require.False(t, s.Rect().Empty())
	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, customizer.ModeCropped, s.Mode())
}

func TestApplyCrop_CustomDimensionsCapped(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))

	require.NoError(t, s.SelectFormat("custom", float(15), float(250)))
	assert.True(t, s.Rect().Empty())
	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, customizer.ModeCropping, s.Mode())
}

func TestNewCrop_ReentersSelection(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	require.NoError(t, s.NewCrop(0, 0))
	assert.Equal(t, customizer.ModeCropping, s.Mode())
	assert.False(t, s.Rect().Empty())
}

func TestFilterEditor_SaveBakesAndReturns(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	require.NoError(t, s.EnterFilterEditor())
	assert.Equal(t, customizer.ModeEditing, s.Mode())

	before, err := s.Image()
	require.NoError(t, err)

	expr, err := s.UpdateFilter(filtersWithSepia(60))
	require.NoError(t, err)
	assert.Contains(t, expr, "sepia(60%)")

	require.NoError(t, s.SaveFilter())
	assert.Equal(t, customizer.ModeCropped, s.Mode())

	after, err := s.Image()
	require.NoError(t, err)
	assert.Equal(t, before.Width, after.Width)
	assert.Equal(t, before.Height, after.Height)
	assert.NotEqual(t, before.Data, after.Data)
}

func TestFilterEditor_CancelLeavesImageUntouched(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	before, err := s.Image()
	require.NoError(t, err)

	require.NoError(t, s.EnterFilterEditor())
	_, err = s.UpdateFilter(filtersWithSepia(90))
	require.NoError(t, err)
	require.NoError(t, s.CancelFilter())

	after, err := s.Image()
	require.NoError(t, err)
	assert.Equal(t, before.Data, after.Data)
}

func TestFilterEditor_RequiresCroppedMode(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, s.EnterFilterEditor(), customizer.ErrInvalidMode)
}

func TestAIEditor_SaveCommitsActiveImage(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	require.NoError(t, s.EnterAIEditor())
	assert.Equal(t, customizer.ModeAIEditing, s.Mode())

	ai, err := s.AI()
	require.NoError(t, err)
	require.True(t, ai.Send(context.Background(), "Ponle un sombrero"))
	assert.Equal(t, 2, ai.HistorySize())

	require.NoError(t, s.SaveAI())
	assert.Equal(t, customizer.ModeCropped, s.Mode())

	_, err = s.AI()
	assert.ErrorIs(t, err, customizer.ErrInvalidMode)
}

func TestAIEditor_CancelDiscardsSession(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	before, err := s.Image()
	require.NoError(t, err)

	require.NoError(t, s.EnterAIEditor())
	ai, err := s.AI()
	require.NoError(t, err)
	require.True(t, ai.Send(context.Background(), "algo"))

	require.NoError(t, s.CancelAI())
	after, err := s.Image()
	require.NoError(t, err)
	assert.Equal(t, before.Data, after.Data)
}

func TestSubmit_FlagsMissingFields(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	item, err := s.Submit("", "Mi proyecto")
	assert.ErrorIs(t, err, customizer.ErrSubmitFailed)
	assert.Nil(t, item)

	snap := s.Snapshot()
	assert.True(t, snap.Errors.Paper)
	assert.False(t, snap.Errors.Image)
	assert.False(t, snap.Errors.Project)
	assert.Equal(t, string(customizer.ModeCropped), snap.Mode)
}

func TestSubmit_FlagsMissingImage(t *testing.T) {
	s := newSession(t)

	item, err := s.Submit("Brillante", "Mi proyecto")
	assert.ErrorIs(t, err, customizer.ErrSubmitFailed)
	assert.Nil(t, item)
	assert.True(t, s.Snapshot().Errors.Image)
}

func TestSubmit_ProducesCartItem(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	item, err := s.Submit("Mate", "Cumpleaños")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, 1, item.ProductID)
	assert.Equal(t, "11x15 cm", item.Format)
	assert.Equal(t, 0.80, item.UnitPrice)
	assert.Equal(t, "Mate", item.PaperType)
	assert.Equal(t, "Cumpleaños", item.ProjectName)
	assert.Equal(t, 1, item.Quantity)
	assert.Contains(t, item.ImgSrc, "data:image/png;base64,")

	assert.Equal(t, customizer.ModeSubmitted, s.Mode())
}

func TestSubmit_CustomFormatLabelAndPrice(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.SelectFormat("custom", float(12), float(18)))
	require.NoError(t, s.ApplyCrop())

	item, err := s.Submit("Brillante", "Retrato")
	require.NoError(t, err)
	assert.Equal(t, "Personalizado (12x18 cm)", item.Format)
	assert.Equal(t, 1.50, item.UnitPrice)
}

func TestSubmit_AfterSubmittedIsInvalid(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Upload(pngBytes(t, 400, 300), 400, 300))
	require.NoError(t, s.ApplyCrop())

	_, err := s.Submit("Mate", "Uno")
	require.NoError(t, err)

	_, err = s.Submit("Mate", "Dos")
	assert.ErrorIs(t, err, customizer.ErrInvalidMode)
}
