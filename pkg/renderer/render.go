package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// progressStep is the completion percentage between progress log lines
const progressStep = 10

// Render traces every pixel of the image on a fixed worker pool and returns
// the finished raster. objects must not be modified until Render returns.
// logger may be nil.
func Render(objects []geometry.Object, config Config, logger core.Logger) (*image.RGBA, RenderStats) {
	if logger == nil {
		logger = nopLogger{}
	}
	config = config.withDefaults()
	startTime := time.Now()

	img := newImage(config)
	tiles := NewTileGrid(config.Width, config.Height, config.TileSize)
	raytracer := NewRaytracer(objects, config)

	stats := RenderStats{Tiles: len(tiles)}
	if len(tiles) == 0 {
		stats.Duration = time.Since(startTime)
		return img, stats
	}

	numWorkers := min(config.NumWorkers, len(tiles))
	stats.Workers = numWorkers

	logger.Printf("Rendering %dx%d, %d objects, %d lights, %d bounces (%d tiles, %d workers)...\n",
		config.Width, config.Height, len(objects), raytracer.NumLights(), config.MaxBounces,
		len(tiles), numWorkers)

	pool := NewWorkerPool(raytracer, numWorkers, len(tiles))
	pool.Start()

	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, Image: img})
	}

	nextReport := progressStep
	for done := 1; done <= len(tiles); done++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.merge(result.Stats)

		percent := done * 100 / len(tiles)
		if percent >= nextReport {
			logger.Printf("%d%%\n", percent)
			for nextReport <= percent {
				nextReport += progressStep
			}
		}
	}

	pool.Stop()

	stats.Duration = time.Since(startTime)
	logger.Printf("Render completed in %v (%d/%d pixels hit geometry)\n",
		stats.Duration, stats.HitPixels, stats.TotalPixels)

	return img, stats
}
