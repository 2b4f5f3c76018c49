package renderer

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

func createTestWorld() *geometry.HittableList {
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.MustDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
	)
}

func createTestCamera(t *testing.T, width, height int) *geometry.Camera {
	t.Helper()
	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: float64(width) / float64(height),
	})
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	return camera
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero samples", func(c *Config) { c.SamplesPerPixel = 0 }},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }},
		{"zero tile size", func(c *Config) { c.TileSize = 0 }},
		{"negative workers", func(c *Config) { c.NumWorkers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			_, err := NewRaytracer(createTestWorld(), createTestCamera(t, 4, 4), integrator.DefaultBackground(), config)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewRaytracer should reject the config, got %v", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	const width, height = 24, 16
	camera := createTestCamera(t, width, height)
	world := createTestWorld()

	render := func(workers int) []byte {
		config := Config{
			Width:           width,
			Height:          height,
			SamplesPerPixel: 2,
			MaxDepth:        10,
			TileSize:        8,
			NumWorkers:      workers,
			Seed:            1234,
		}
		rt, err := NewRaytracer(world, camera, integrator.DefaultBackground(), config)
		if err != nil {
			t.Fatalf("NewRaytracer failed: %v", err)
		}
		img, stats, err := rt.RenderImage(context.Background())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if stats.TotalPixels != width*height {
			t.Errorf("Expected %d pixels, got %d", width*height, stats.TotalPixels)
		}
		if stats.TotalSamples != int64(width*height*2) {
			t.Errorf("Expected %d samples, got %d", width*height*2, stats.TotalSamples)
		}
		if stats.TotalRays < stats.TotalSamples {
			t.Errorf("Every sample casts at least one ray: %d rays for %d samples", stats.TotalRays, stats.TotalSamples)
		}
		if stats.Tiles != 6 || stats.Workers != workers {
			t.Errorf("Expected 6 tiles on %d workers, got %d on %d", workers, stats.Tiles, stats.Workers)
		}
		return img.Pix
	}

	single := render(1)
	for _, workers := range []int{2, 5} {
		if !bytes.Equal(single, render(workers)) {
			t.Errorf("Image rendered with %d workers differs from single worker render", workers)
		}
	}
}

func TestRender_SkyOnlyIsGradient(t *testing.T) {
	const width, height = 8, 6
	rt, err := NewRaytracer(geometry.NewHittableList(), createTestCamera(t, width, height),
		integrator.DefaultBackground(), Config{
			Width: width, Height: height, SamplesPerPixel: 4, MaxDepth: 5, TileSize: 4, Seed: 1,
		})
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}

	img, _, err := rt.RenderImage(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Rows nearer the top look further up, so they are bluer and less red
	top := img.RGBAAt(width/2, 0)
	bottom := img.RGBAAt(width/2, height-1)
	if top.R >= bottom.R {
		t.Errorf("Expected top row (%v) to be less red than bottom row (%v)", top, bottom)
	}
	if top.B != 255 || bottom.B != 255 {
		t.Errorf("Blue channel should saturate across the sky, got top %v bottom %v", top, bottom)
	}
}

func TestRender_Cancelled(t *testing.T) {
	rt, err := NewRaytracer(createTestWorld(), createTestCamera(t, 16, 16), integrator.DefaultBackground(), Config{
		Width: 16, Height: 16, SamplesPerPixel: 1, MaxDepth: 5, TileSize: 8, NumWorkers: 2, Seed: 1,
	})
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = rt.Render(ctx, NewImageSink(16, 16))
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("Expected ErrInterrupted, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected wrapped context.Canceled, got %v", err)
	}
}

// cancellingSink cancels the render after a number of pixels
type cancellingSink struct {
	remaining atomic.Int64
	cancel    context.CancelFunc
}

func (s *cancellingSink) SetPixel(int, int, color.RGBA) {
	if s.remaining.Add(-1) == 0 {
		s.cancel()
	}
}

func TestRender_CancelledMidway(t *testing.T) {
	const width, height = 32, 32
	rt, err := NewRaytracer(createTestWorld(), createTestCamera(t, width, height), integrator.DefaultBackground(), Config{
		Width: width, Height: height, SamplesPerPixel: 1, MaxDepth: 5, TileSize: 8, NumWorkers: 1, Seed: 1,
	})
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &cancellingSink{cancel: cancel}
	sink.remaining.Store(10)

	stats, err := rt.Render(ctx, sink)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Expected ErrInterrupted, got %v", err)
	}
	if stats.TotalPixels >= width*height {
		t.Errorf("Cancelled render should stop early, rendered %d pixels", stats.TotalPixels)
	}
}

func TestRenderStats_Derived(t *testing.T) {
	var stats RenderStats
	if stats.AverageSamples() != 0 || stats.RaysPerSecond() != 0 || stats.AverageDepth() != 0 {
		t.Error("Empty stats should report zero derived values")
	}

	stats.Add(RenderStats{TotalPixels: 10, TotalSamples: 40, TotalRays: 120})
	stats.Add(RenderStats{TotalPixels: 10, TotalSamples: 40, TotalRays: 40})
	if stats.AverageSamples() != 4 {
		t.Errorf("Expected 4 samples per pixel, got %f", stats.AverageSamples())
	}
	if stats.AverageDepth() != 2 {
		t.Errorf("Expected average depth 2, got %f", stats.AverageDepth())
	}
}
