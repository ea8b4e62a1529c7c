package renderer

import (
	"runtime"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// DefaultTileSize is the edge length of a render tile in pixels
const DefaultTileSize = 32

// MaxLights caps how many light objects take part in shading
const MaxLights = 100

// Config contains the per-render parameters. It is read-only while a render
// is running and is shared by every worker.
type Config struct {
	Width        int
	Height       int
	CameraOrigin core.Vec3
	MaxBounces   uint8
	Background   core.RGB

	NumWorkers int // Number of parallel workers (0 = use CPU count)
	TileSize   int // Tile edge in pixels (0 = DefaultTileSize)

	// PositionEquality skips candidate hits that are geometry.Object.Equal
	// to the previous hit instead of skipping the previous hit itself.
	PositionEquality bool
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      320,
		Height:     240,
		MaxBounces: 4,
		Background: core.NewRGB(0, 0, 0),
		TileSize:   DefaultTileSize,
	}
}

// withDefaults fills in zero-valued scheduling fields
func (c Config) withDefaults() Config {
	if c.NumWorkers <= 0 {
		c.NumWorkers = runtime.NumCPU()
	}
	if c.TileSize <= 0 {
		c.TileSize = DefaultTileSize
	}
	return c
}
