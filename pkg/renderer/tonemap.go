package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// maxChannel keeps 256·v below 256 so the byte never wraps
const maxChannel = 0.999

// ToneMap converts a sum of samplesPerPixel radiance samples to an 8-bit color.
// The average is gamma corrected with gamma 2, clamped to [0, 0.999] and scaled by 256.
func ToneMap(sum core.Vec3, samplesPerPixel int) color.RGBA {
	scale := 1.0
	if samplesPerPixel > 1 {
		scale = 1.0 / float64(samplesPerPixel)
	}

	return color.RGBA{
		R: toneChannel(sum.X * scale),
		G: toneChannel(sum.Y * scale),
		B: toneChannel(sum.Z * scale),
		A: 255,
	}
}

func toneChannel(v float64) uint8 {
	// NaN from a degenerate path renders black instead of poisoning the pixel
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	v = math.Sqrt(v)
	v = math.Max(0, math.Min(maxChannel, v))
	return uint8(256 * v)
}
