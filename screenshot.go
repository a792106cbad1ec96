package rendercore

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type frameEncoder func(io.Writer, image.Image) error

// frameEncoders is keyed by lower-case file extension. Unknown extensions
// get PNG.
var frameEncoders = map[string]frameEncoder{
	".png":  png.Encode,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
}

func encodeTIFF(w io.Writer, m image.Image) error {
	return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
}

func encodeJPEG(w io.Writer, m image.Image) error {
	return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
}

// EncodePNG writes the current surface as PNG.
func (e *Engine) EncodePNG(w io.Writer) error {
	return png.Encode(w, e.render.canvas.Snapshot())
}

// WriteFrame writes the current surface to path, encoded according to the
// file extension. The file appears only once it is complete.
func (e *Engine) WriteFrame(path string) error {
	enc, ok := frameEncoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		enc = png.Encode
	}
	return replaceFile(path, func(w io.Writer) error {
		return enc(w, e.render.canvas.Snapshot())
	})
}

// Screenshot writes the current surface into dir as a timestamped PNG named
// after label and returns the file path.
func (e *Engine) Screenshot(dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	name := time.Now().Format("20060102_150405") + "_" + fileLabel(label) + ".png"
	path := filepath.Join(dir, name)
	if err := e.WriteFrame(path); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// replaceFile runs write against a temporary file next to path and renames
// it into place on success.
func replaceFile(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// fileLabel maps label onto ASCII letters, digits, '-' and '.', turning
// everything else into '_'. Blank labels become "unlabeled".
func fileLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '_'
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, label)
}
