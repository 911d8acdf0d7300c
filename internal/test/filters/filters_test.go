package filters_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arteideas-backend/internal/filters"
	"arteideas-backend/internal/photo"
)

// testImage builds a small PNG with varied colors so channel mixing
// bugs are visible.
func testImage(t *testing.T) photo.Image {
	t.Helper()
	src := imaging.New(8, 8, color.NRGBA{A: 255})
	palette := []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 200, G: 120, B: 40, A: 255},
		{R: 17, G: 93, B: 201, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, palette[(x+y)%len(palette)])
		}
	}
	img, err := photo.EncodePNG(src)
	require.NoError(t, err)
	return img
}

func decodeNRGBA(t *testing.T, img photo.Image) *image.NRGBA {
	t.Helper()
	decoded, err := imaging.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	return imaging.Clone(decoded)
}

func TestFilterString_Order(t *testing.T) {
	s := filters.Settings{Brightness: 110, Contrast: 90, Saturation: 120, Sepia: 30, Grayscale: 0, HueRotate: 45}
	assert.Equal(t,
		"brightness(110%) contrast(90%) saturate(120%) sepia(30%) grayscale(0%) hue-rotate(45deg)",
		filters.FilterString(s))
}

func TestFilterString_Defaults(t *testing.T) {
	assert.Equal(t,
		"brightness(100%) contrast(100%) saturate(100%) sepia(0%) grayscale(0%) hue-rotate(0deg)",
		filters.FilterString(filters.Defaults()))
}

func TestClamped_BoundsSliderRanges(t *testing.T) {
	s := filters.Settings{Brightness: 500, Contrast: -10, Saturation: 201, Sepia: 150, Grayscale: -1, HueRotate: 720}.Clamped()
	assert.Equal(t, 200.0, s.Brightness)
	assert.Equal(t, 0.0, s.Contrast)
	assert.Equal(t, 200.0, s.Saturation)
	assert.Equal(t, 100.0, s.Sepia)
	assert.Equal(t, 0.0, s.Grayscale)
	assert.Equal(t, 360.0, s.HueRotate)
}

func TestBake_DefaultsArePixelIdentical(t *testing.T) {
	src := testImage(t)

	baked, err := filters.Bake(src, filters.Defaults())
	require.NoError(t, err)

	want := decodeNRGBA(t, src)
	got := decodeNRGBA(t, baked)

	require.Equal(t, want.Bounds(), got.Bounds())
	for y := want.Bounds().Min.Y; y < want.Bounds().Max.Y; y++ {
		for x := want.Bounds().Min.X; x < want.Bounds().Max.X; x++ {
			assert.Equal(t, want.NRGBAAt(x, y), got.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestBake_FullGrayscaleEqualizesChannels(t *testing.T) {
	src := testImage(t)
	s := filters.Defaults()
	s.Grayscale = 100

	baked, err := filters.Bake(src, s)
	require.NoError(t, err)

	got := decodeNRGBA(t, baked)
	for y := got.Bounds().Min.Y; y < got.Bounds().Max.Y; y++ {
		for x := got.Bounds().Min.X; x < got.Bounds().Max.X; x++ {
			px := got.NRGBAAt(x, y)
			assert.Equal(t, px.R, px.G, "pixel (%d,%d)", x, y)
			assert.Equal(t, px.G, px.B, "pixel (%d,%d)", x, y)
		}
	}
}

func TestBake_ZeroBrightnessIsBlack(t *testing.T) {
	src := testImage(t)
	s := filters.Defaults()
	s.Brightness = 0

	baked, err := filters.Bake(src, s)
	require.NoError(t, err)

	got := decodeNRGBA(t, baked)
	for y := got.Bounds().Min.Y; y < got.Bounds().Max.Y; y++ {
		for x := got.Bounds().Min.X; x < got.Bounds().Max.X; x++ {
			px := got.NRGBAAt(x, y)
			assert.Equal(t, uint8(0), px.R)
			assert.Equal(t, uint8(0), px.G)
			assert.Equal(t, uint8(0), px.B)
			assert.Equal(t, uint8(255), px.A)
		}
	}
}

func TestBake_SourceUnchanged(t *testing.T) {
	src := testImage(t)
	before := make([]byte, len(src.Data))
	copy(before, src.Data)

	s := filters.Defaults()
	s.Sepia = 80
	_, err := filters.Bake(src, s)
	require.NoError(t, err)

	assert.Equal(t, before, src.Data)
}

func TestBake_PreservesDimensions(t *testing.T) {
	src := testImage(t)
	s := filters.Defaults()
	s.Contrast = 150

	baked, err := filters.Bake(src, s)
	require.NoError(t, err)
	assert.Equal(t, src.Width, baked.Width)
	assert.Equal(t, src.Height, baked.Height)
	assert.Equal(t, "image/png", baked.MimeType)
}
