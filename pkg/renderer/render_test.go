package renderer

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// captureLogger records every Printf call
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *captureLogger) output() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "")
}

func busyScene() []geometry.Object {
	return []geometry.Object{
		geometry.NewPlane(core.NewVec3(0, 0, 1), -1, core.NewRGB(180, 180, 180), 0.4, false),
		geometry.NewSphere(core.NewVec3(6, -1.5, 0), 1, core.NewRGB(220, 40, 40), 0.6, false),
		geometry.NewSphere(core.NewVec3(7, 1.5, 0.2), 1.2, core.NewRGB(40, 40, 220), 0.8, false),
		geometry.NewTriangle(core.NewVec3(-1, 0, 0),
			core.NewVec3(9, -3, -1), core.NewVec3(9, 3, -1), core.NewVec3(9, 0, 3),
			core.NewRGB(40, 200, 40), 0.3, false),
		geometry.NewSphere(core.NewVec3(3, 0, 4), 0.5, core.NewRGB(255, 255, 240), 1, true),
		geometry.NewSphere(core.NewVec3(4, -4, 3), 0.3, core.NewRGB(255, 200, 160), 1, true),
	}
}

func TestRender_MatchesSerial(t *testing.T) {
	objects := busyScene()
	base := testConfig(37, 23, 4)
	serial := RenderSerial(objects, base)

	tests := []struct {
		name     string
		workers  int
		tileSize int
	}{
		{"single worker", 1, 8},
		{"many workers small tiles", 8, 3},
		{"tile larger than image", 4, 64},
		{"default scheduling", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.NumWorkers = tt.workers
			cfg.TileSize = tt.tileSize

			img, stats := Render(objects, cfg, nil)
			if !bytes.Equal(img.Pix, serial.Pix) {
				t.Error("Parallel render differs from serial render")
			}
			if stats.TotalPixels != 37*23 {
				t.Errorf("Expected %d pixels, got %d", 37*23, stats.TotalPixels)
			}
			if stats.Workers < 1 || stats.Workers > stats.Tiles {
				t.Errorf("Expected between 1 and %d workers, got %d", stats.Tiles, stats.Workers)
			}
		})
	}
}

func TestRender_ReportsProgress(t *testing.T) {
	logger := &captureLogger{}
	cfg := testConfig(16, 16, 2)
	cfg.TileSize = 4
	cfg.NumWorkers = 2

	_, stats := Render(busyScene(), cfg, logger)

	out := logger.output()
	if !strings.Contains(out, "100%") {
		t.Errorf("Expected progress to reach 100%%, got:\n%s", out)
	}
	if !strings.Contains(out, "Render completed") {
		t.Errorf("Expected completion line, got:\n%s", out)
	}
	if stats.Tiles != 16 {
		t.Errorf("Expected 16 tiles, got %d", stats.Tiles)
	}
}

func TestRender_EmptyImage(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {0, 10}, {10, 0}, {-3, 5}} {
		img, stats := Render(busyScene(), testConfig(size[0], size[1], 3), nil)
		if !img.Bounds().Empty() {
			t.Errorf("%v: expected empty image, got %v", size, img.Bounds())
		}
		if stats.TotalPixels != 0 {
			t.Errorf("%v: expected no pixels, got %d", size, stats.TotalPixels)
		}
	}
}

func TestRender_DoesNotModifyObjects(t *testing.T) {
	objects := busyScene()
	before := fmt.Sprint(objects)
	Render(objects, testConfig(12, 12, 5), nil)
	if after := fmt.Sprint(objects); after != before {
		t.Errorf("Objects changed during render:\nbefore %s\nafter  %s", before, after)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Errorf("Expected positive default resolution, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxBounces == 0 {
		t.Error("Expected default bounces > 0")
	}
	if cfg.TileSize != DefaultTileSize {
		t.Errorf("Expected default tile size %d, got %d", DefaultTileSize, cfg.TileSize)
	}

	filled := Config{}.withDefaults()
	if filled.NumWorkers <= 0 || filled.TileSize != DefaultTileSize {
		t.Errorf("Expected scheduling defaults to be filled in, got %+v", filled)
	}
}

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"exact fit", 64, 32, 16, 8},
		{"ragged edges", 70, 33, 16, 15},
		{"single tile", 5, 5, 64, 1},
		{"empty", 0, 10, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			// Every pixel is covered exactly once
			coverage := make(map[image.Point]int)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						coverage[image.Pt(x, y)]++
					}
				}
			}
			if len(coverage) != tt.width*tt.height && tt.expectedTiles > 0 {
				t.Errorf("Expected %d covered pixels, got %d", tt.width*tt.height, len(coverage))
			}
			for p, n := range coverage {
				if n != 1 {
					t.Errorf("Pixel %v covered %d times", p, n)
				}
			}
		})
	}
}

func TestRenderStats_Coverage(t *testing.T) {
	var s RenderStats
	if s.Coverage() != 0 {
		t.Errorf("Expected zero coverage for empty stats, got %f", s.Coverage())
	}
	s.recordPixel(true)
	s.recordPixel(false)
	s.merge(RenderStats{TotalPixels: 2, HitPixels: 2})
	if s.TotalPixels != 4 || s.HitPixels != 3 || s.BackgroundPixels != 1 {
		t.Errorf("Unexpected counters %+v", s)
	}
	if s.Coverage() != 0.75 {
		t.Errorf("Expected coverage 0.75, got %f", s.Coverage())
	}
}
