package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func TestToneMap(t *testing.T) {
	tests := []struct {
		name     string
		sum      core.Vec3
		spp      int
		expected color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), 1, color.RGBA{0, 0, 0, 255}},
		{"white clamps to 255", core.NewVec3(1, 1, 1), 1, color.RGBA{255, 255, 255, 255}},
		{"overexposed clamps", core.NewVec3(50, 2, 1.5), 1, color.RGBA{255, 255, 255, 255}},
		{"gamma quarter is half", core.NewVec3(0.25, 0.25, 0.25), 1, color.RGBA{128, 128, 128, 255}},
		{"averaged over samples", core.NewVec3(4, -0.1, 1), 4, color.RGBA{255, 0, 128, 255}},
		{"NaN is black", core.NewVec3(math.NaN(), 0.25, 0), 1, color.RGBA{0, 128, 0, 255}},
		{"infinity saturates", core.NewVec3(math.Inf(1), 0, 0), 1, color.RGBA{255, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToneMap(tt.sum, tt.spp); got != tt.expected {
				t.Errorf("ToneMap(%v, %d) = %v, want %v", tt.sum, tt.spp, got, tt.expected)
			}
		})
	}
}

func TestImageSink(t *testing.T) {
	sink := NewImageSink(4, 3)
	c := color.RGBA{10, 20, 30, 255}
	sink.SetPixel(3, 2, c)

	img := sink.Image()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("Expected 4x3 image, got %v", img.Bounds())
	}
	if got := img.RGBAAt(3, 2); got != c {
		t.Errorf("Expected %v at (3,2), got %v", c, got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("Untouched pixel should be zero, got %v", got)
	}
}
