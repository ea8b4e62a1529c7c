package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

// TestSaveAndLoadPNG writes a PNG and verifies it decodes pixel-exact
func TestSaveAndLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	if err := SaveImage(path, testImage()); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	data, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if data.Width != 2 || data.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", data.Width, data.Height)
	}

	expected := map[[2]int]core.RGB{
		{0, 0}: core.NewRGB(255, 255, 255),
		{1, 0}: core.NewRGB(255, 0, 0),
		{0, 1}: core.NewRGB(0, 255, 0),
		{1, 1}: core.NewRGB(0, 0, 255),
	}
	for pos, want := range expected {
		if got := data.At(pos[0], pos[1]); got != want {
			t.Errorf("Pixel %v: expected %v, got %v", pos, want, got)
		}
	}
}

func TestEncodeImage_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, "jpg"); err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	data, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	got := data.At(4, 4)
	for _, c := range []uint8{got.R, got.G, got.B} {
		if c < 124 || c > 132 {
			t.Errorf("Expected gray near 128 after JPEG round trip, got %v", got)
			break
		}
	}
}

func TestUnsupportedFormats(t *testing.T) {
	if err := EncodeImage(&bytes.Buffer{}, testImage(), "gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat from EncodeImage, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := SaveImage(path, testImage()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat from SaveImage, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"a.png", "png"},
		{"dir/B.PNG", "png"},
		{"c.jpg", "jpeg"},
		{"d.jpeg", "jpeg"},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.expected {
			t.Errorf("FormatFromPath(%q) = %q, %v; expected %q", tt.path, got, err, tt.expected)
		}
	}
	if _, err := FormatFromPath("noext"); err == nil {
		t.Error("Expected error for path without extension")
	}
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
