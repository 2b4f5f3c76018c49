package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int64         // Total number of camera samples taken
	TotalRays    int64         // Total rays cast, including every bounce
	Tiles        int           // Number of tiles the frame was split into
	Workers      int           // Number of worker goroutines
	RenderTime   time.Duration // Wall clock time of the render
}

// Add accumulates the per-tile counters of other into s
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.TotalRays += other.TotalRays
}

// AverageSamples returns the mean number of samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// RaysPerSecond returns the ray throughput of the render
func (s RenderStats) RaysPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.TotalRays) / s.RenderTime.Seconds()
}

// AverageDepth returns the mean number of rays cast per camera sample
func (s RenderStats) AverageDepth() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.TotalRays) / float64(s.TotalSamples)
}
