package rendercore

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Image is a decoded raster resource. It is created once from encoded bytes
// and shared by reference afterwards; backends key their converted copies
// by the *Image pointer.
type Image struct {
	src    image.Image
	format string
}

// DecodeImage decodes PNG, JPEG, GIF, WebP, BMP or TIFF bytes. The result
// does not alias data.
func DecodeImage(data []byte) (*Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Image{src: src, format: format}, nil
}

// NewImage wraps an already-decoded image.
func NewImage(src image.Image) *Image {
	return &Image{src: src, format: "raw"}
}

// Source returns the decoded pixels.
func (img *Image) Source() image.Image { return img.src }

// Format returns the name of the codec the image was decoded with.
func (img *Image) Format() string { return img.format }

// Width returns the width in pixels.
func (img *Image) Width() int { return img.src.Bounds().Dx() }

// Height returns the height in pixels.
func (img *Image) Height() int { return img.src.Bounds().Dy() }
