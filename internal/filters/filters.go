// Package filters maps the six named color adjustments to the same
// pipeline a browser applies for the equivalent CSS filter string, and
// can bake that pipeline into a new image buffer.
package filters

import (
	"fmt"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"arteideas-backend/internal/photo"
)

// Settings holds the slider values. Brightness, contrast and
// saturation are percentages (100 = neutral), sepia and grayscale are
// percentages (0 = neutral), hue rotation is in degrees.
type Settings struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Sepia      float64 `json:"sepia"`
	Grayscale  float64 `json:"grayscale"`
	HueRotate  float64 `json:"hue_rotate"`
}

func Defaults() Settings {
	return Settings{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Sepia:      0,
		Grayscale:  0,
		HueRotate:  0,
	}
}

// Clamped bounds every adjustment to its slider range.
func (s Settings) Clamped() Settings {
	s.Brightness = clamp(s.Brightness, 0, 200)
	s.Contrast = clamp(s.Contrast, 0, 200)
	s.Saturation = clamp(s.Saturation, 0, 200)
	s.Sepia = clamp(s.Sepia, 0, 100)
	s.Grayscale = clamp(s.Grayscale, 0, 100)
	s.HueRotate = clamp(s.HueRotate, 0, 360)
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// FilterString renders the adjustments as the CSS filter expression
// the client uses for its live preview. The function order is fixed.
func FilterString(s Settings) string {
	return fmt.Sprintf("brightness(%g%%) contrast(%g%%) saturate(%g%%) sepia(%g%%) grayscale(%g%%) hue-rotate(%gdeg)",
		s.Brightness, s.Contrast, s.Saturation, s.Sepia, s.Grayscale, s.HueRotate)
}

// colorMatrix is an affine transform on RGB in [0,1]: row i computes
// m[i][0]*r + m[i][1]*g + m[i][2]*b + m[i][3].
type colorMatrix [3][4]float64

var identity = colorMatrix{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
}

// mul returns the matrix applying b first, then a.
func mul(a, b colorMatrix) colorMatrix {
	var out colorMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
		out[i][3] = a[i][0]*b[0][3] + a[i][1]*b[1][3] + a[i][2]*b[2][3] + a[i][3]
	}
	return out
}

// lerp interpolates from the identity toward full at amount in [0,1].
func lerp(full colorMatrix, amount float64) colorMatrix {
	var out colorMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = identity[i][j] + (full[i][j]-identity[i][j])*amount
		}
	}
	return out
}

func brightnessMatrix(p float64) colorMatrix {
	return colorMatrix{
		{p, 0, 0, 0},
		{0, p, 0, 0},
		{0, 0, p, 0},
	}
}

func contrastMatrix(p float64) colorMatrix {
	off := 0.5 - 0.5*p
	return colorMatrix{
		{p, 0, 0, off},
		{0, p, 0, off},
		{0, 0, p, off},
	}
}

// W3C filter-effects saturate matrix.
func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0},
	}
}

var sepiaFull = colorMatrix{
	{0.393, 0.769, 0.189, 0},
	{0.349, 0.686, 0.168, 0},
	{0.272, 0.534, 0.131, 0},
}

var grayscaleFull = colorMatrix{
	{0.2126, 0.7152, 0.0722, 0},
	{0.2126, 0.7152, 0.0722, 0},
	{0.2126, 0.7152, 0.0722, 0},
}

func hueRotateMatrix(deg float64) colorMatrix {
	rad := deg * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	return colorMatrix{
		{0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0},
		{0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0},
		{0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0},
	}
}

// compose builds the single matrix equivalent to applying the filter
// functions in the FilterString order.
func compose(s Settings) colorMatrix {
	m := brightnessMatrix(s.Brightness / 100)
	m = mul(contrastMatrix(s.Contrast/100), m)
	m = mul(saturateMatrix(s.Saturation/100), m)
	m = mul(lerp(sepiaFull, s.Sepia/100), m)
	m = mul(lerp(grayscaleFull, s.Grayscale/100), m)
	m = mul(hueRotateMatrix(s.HueRotate), m)
	return m
}

// Bake renders the source at natural resolution through the adjustment
// pipeline and returns a new flattened buffer. The source is never
// mutated; baking with default settings yields a pixel-identical copy.
func Bake(img photo.Image, s Settings) (photo.Image, error) {
	src, err := photo.Decode(img.Data)
	if err != nil {
		return photo.Image{}, err
	}

	m := compose(s.Clamped())

	out := imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		r := float64(c.R) / 255
		g := float64(c.G) / 255
		b := float64(c.B) / 255

		nr := m[0][0]*r + m[0][1]*g + m[0][2]*b + m[0][3]
		ng := m[1][0]*r + m[1][1]*g + m[1][2]*b + m[1][3]
		nb := m[2][0]*r + m[2][1]*g + m[2][2]*b + m[2][3]

		return color.NRGBA{
			R: uint8(clamp(nr, 0, 1)*255 + 0.5),
			G: uint8(clamp(ng, 0, 1)*255 + 0.5),
			B: uint8(clamp(nb, 0, 1)*255 + 0.5),
			A: c.A,
		}
	})

	return photo.EncodePNG(out)
}
