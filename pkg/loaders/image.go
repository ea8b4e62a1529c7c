package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// ErrUnsupportedFormat is returned for image formats other than PNG and JPEG
var ErrUnsupportedFormat = errors.New("unsupported image format")

// jpegQuality is used for every JPEG written by SaveImage
const jpegQuality = 95

// ImageData contains loaded image data as an RGB pixel array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.RGB
}

// At returns the pixel at (x, y), row 0 at the top
func (d *ImageData) At(x, y int) core.RGB {
	return d.Pixels[y*d.Width+x]
}

// FormatFromPath returns "png" or "jpeg" based on the file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// EncodeImage writes img to w in the named format ("png", "jpeg" or "jpg")
func EncodeImage(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "jpeg", "jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// SaveImage writes img to path, creating parent directories. The format is
// chosen from the extension.
func SaveImage(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadImage loads a PNG or JPEG image and converts it to an RGB array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return DecodeImage(file)
}

// DecodeImage decodes a PNG or JPEG stream (auto-detected from the header)
func DecodeImage(r io.Reader) (*ImageData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.RGB, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.RGBFromColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}
