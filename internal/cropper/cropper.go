// Package cropper holds the pure crop geometry: fitting an
// aspect-correct rectangle into the displayed image, constraining drag
// movement, and rasterizing the chosen region into a new buffer.
package cropper

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"arteideas-backend/internal/photo"
)

// Rect is a crop rectangle in the image's display coordinate space,
// not natural pixel space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// InitialRect returns the largest rectangle of the target aspect ratio
// that fits centered inside the displayed image. A non-positive input
// yields a zero rect, meaning "not ready yet".
func InitialRect(displayWidth, displayHeight, targetRatio float64) Rect {
	if displayWidth <= 0 || displayHeight <= 0 || targetRatio <= 0 {
		return Rect{}
	}

	imgRatio := displayWidth / displayHeight

	var w, h float64
	if imgRatio > targetRatio {
		h = displayHeight
		w = h * targetRatio
	} else {
		w = displayWidth
		h = w / targetRatio
	}

	return Rect{
		X:      (displayWidth - w) / 2,
		Y:      (displayHeight - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Drag translates the rectangle by the given deltas and clamps it to
// the display bounds. Dimensions are fixed once computed from the
// format, so only the origin moves.
func Drag(r Rect, deltaX, deltaY, displayWidth, displayHeight float64) Rect {
	x := r.X + deltaX
	y := r.Y + deltaY

	maxX := displayWidth - r.Width
	maxY := displayHeight - r.Height

	x = math.Max(0, math.Min(x, maxX))
	y = math.Max(0, math.Min(y, maxY))

	return Rect{X: x, Y: y, Width: r.Width, Height: r.Height}
}

// Apply scales the display-space rectangle into natural pixel space by
// the per-axis factors and rasterizes exactly that sub-region into a
// new buffer sized to the scaled rectangle.
func Apply(img photo.Image, r Rect, scaleX, scaleY float64) (photo.Image, error) {
	if r.Empty() {
		return photo.Image{}, fmt.Errorf("empty crop rectangle")
	}
	if scaleX <= 0 || scaleY <= 0 {
		return photo.Image{}, fmt.Errorf("invalid scale factors %g, %g", scaleX, scaleY)
	}

	src, err := photo.Decode(img.Data)
	if err != nil {
		return photo.Image{}, err
	}

	x := int(math.Round(r.X * scaleX))
	y := int(math.Round(r.Y * scaleY))
	w := int(math.Round(r.Width * scaleX))
	h := int(math.Round(r.Height * scaleY))

	cropRect := image.Rect(x, y, x+w, y+h).Intersect(src.Bounds())
	if cropRect.Empty() {
		return photo.Image{}, fmt.Errorf("crop rectangle outside image bounds")
	}

	return photo.EncodePNG(imaging.Crop(src, cropRect))
}
