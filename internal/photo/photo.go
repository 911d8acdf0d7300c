package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"

	// webp is an accepted upload type but imaging does not register it.
	_ "golang.org/x/image/webp"
)

// Image is an in-memory photo buffer. Pipeline stages never mutate an
// Image in place; each stage returns a replacement.
type Image struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

func (img Image) IsZero() bool {
	return len(img.Data) == 0
}

// DataURI renders the buffer the way the storefront consumes it.
func (img Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}

// Sniff reports the detected media type of raw file bytes. The client
// supplied Content-Type is not trusted.
func Sniff(data []byte) string {
	return http.DetectContentType(data)
}

// Decode parses raw file bytes, honoring EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return src, nil
}

// EncodePNG flattens a decoded image into a new PNG buffer.
func EncodePNG(m image.Image) (Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, m, imaging.PNG); err != nil {
		return Image{}, fmt.Errorf("encode png: %w", err)
	}
	bounds := m.Bounds()
	return Image{
		Data:     buf.Bytes(),
		MimeType: "image/png",
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// FromBytes validates and wraps an uploaded file into an Image.
func FromBytes(data []byte) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("read image dimensions: %w", err)
	}
	return Image{
		Data:     data,
		MimeType: Sniff(data),
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
