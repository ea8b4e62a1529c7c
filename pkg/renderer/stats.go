package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	HitPixels        int           // Pixels whose primary ray hit an object
	BackgroundPixels int           // Pixels whose primary ray escaped the scene
	Tiles            int           // Tiles rendered
	Workers          int           // Workers used
	Duration         time.Duration // Wall time of the render
}

// recordPixel updates the counters for a single traced pixel
func (s *RenderStats) recordPixel(hit bool) {
	s.TotalPixels++
	if hit {
		s.HitPixels++
	} else {
		s.BackgroundPixels++
	}
}

// merge adds the pixel counters of other into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.BackgroundPixels += other.BackgroundPixels
}

// Coverage returns the fraction of pixels that hit geometry
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}
