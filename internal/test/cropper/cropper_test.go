package cropper_test

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arteideas-backend/internal/cropper"
	"arteideas-backend/internal/photo"
)

func TestInitialRect_MatchesTargetRatio(t *testing.T) {
	ratios := map[string]float64{
		"9x13":  9.0 / 13.0,
		"10x15": 10.0 / 15.0,
		"11x15": 11.0 / 15.0,
		"13x13": 1,
		"13x18": 13.0 / 18.0,
		"15x15": 1,
		"15x20": 15.0 / 20.0,
		"20x20": 1,
	}

	for name, ratio := range ratios {
		r := cropper.InitialRect(800, 600, ratio)
		assert.InDelta(t, ratio, r.Width/r.Height, 1e-3, "format %s", name)

		// Fully contained in the display area
		assert.GreaterOrEqual(t, r.X, 0.0)
		assert.GreaterOrEqual(t, r.Y, 0.0)
		assert.LessOrEqual(t, r.X+r.Width, 800.0+1e-9)
		assert.LessOrEqual(t, r.Y+r.Height, 600.0+1e-9)
	}
}

func TestInitialRect_WideImageSpansHeight(t *testing.T) {
	// 800x600 image, 10x15 target: image is wider than target, so the
	// rect uses the full height and is centered horizontally.
	r := cropper.InitialRect(800, 600, 10.0/15.0)

	assert.InDelta(t, 600, r.Height, 1e-9)
	assert.InDelta(t, 400, r.Width, 1e-9)
	assert.InDelta(t, 200, r.X, 1e-9)
	assert.InDelta(t, 0, r.Y, 1e-9)
}

func TestInitialRect_TallImageSpansWidth(t *testing.T) {
	r := cropper.InitialRect(600, 800, 15.0/10.0)

	assert.InDelta(t, 600, r.Width, 1e-9)
	assert.InDelta(t, 400, r.Height, 1e-9)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 200, r.Y, 1e-9)
}

func TestInitialRect_NotReady(t *testing.T) {
	assert.True(t, cropper.InitialRect(0, 600, 1).Empty())
	assert.True(t, cropper.InitialRect(800, 600, 0).Empty())
}

func TestDrag_ClampsToBounds(t *testing.T) {
	r := cropper.Rect{X: 200, Y: 0, Width: 400, Height: 600}

	moved := cropper.Drag(r, -10000, -10000, 800, 600)
	assert.Equal(t, 0.0, moved.X)
	assert.Equal(t, 0.0, moved.Y)

	moved = cropper.Drag(r, 10000, 10000, 800, 600)
	assert.Equal(t, 400.0, moved.X)
	assert.Equal(t, 0.0, moved.Y)

	// Dimensions never change during a drag
	assert.Equal(t, r.Width, moved.Width)
	assert.Equal(t, r.Height, moved.Height)
}

func TestDrag_SmallMoveStaysInside(t *testing.T) {
	r := cropper.Rect{X: 200, Y: 50, Width: 400, Height: 500}
	moved := cropper.Drag(r, -30, 25, 800, 600)
	assert.Equal(t, 170.0, moved.X)
	assert.Equal(t, 75.0, moved.Y)
}

func TestApply_ScalesDisplayRectToNaturalPixels(t *testing.T) {
	// 4000x3000 natural image displayed at 800x600, cropping the
	// centered 10x15 rect.
	src, err := photo.EncodePNG(imaging.New(4000, 3000, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NoError(t, err)

	r := cropper.InitialRect(800, 600, 10.0/15.0)
	scaleX := 4000.0 / 800.0
	scaleY := 3000.0 / 600.0

	out, err := cropper.Apply(src, r, scaleX, scaleY)
	require.NoError(t, err)

	assert.Equal(t, 2000, out.Width)
	assert.Equal(t, 3000, out.Height)
	assert.Equal(t, "image/png", out.MimeType)
	assert.InDelta(t, 10.0/15.0, float64(out.Width)/float64(out.Height), 1e-3)
}

func TestApply_EmptyRect(t *testing.T) {
	src, err := photo.EncodePNG(imaging.New(100, 100, color.NRGBA{A: 255}))
	require.NoError(t, err)

	_, err = cropper.Apply(src, cropper.Rect{}, 1, 1)
	assert.Error(t, err)
}

func TestApply_RoundsFractionalCoordinates(t *testing.T) {
	src, err := photo.EncodePNG(imaging.New(300, 200, color.NRGBA{A: 255}))
	require.NoError(t, err)

	r := cropper.Rect{X: 10.4, Y: 10.6, Width: 100.5, Height: 50.2}
	out, err := cropper.Apply(src, r, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 101, out.Width)
	assert.Equal(t, 50, out.Height)
}
