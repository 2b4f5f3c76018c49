package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/log"
)

var logger = log.New("renderer")

// Config contains rendering configuration
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	TileSize        int   // Edge length of a square tile in pixels
	NumWorkers      int   // Worker goroutines, 0 = one per CPU
	Seed            int64 // Base seed for every tile's random stream
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		TileSize:        32,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate reports the first problem that would prevent rendering
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// Raytracer renders a world through a camera into a pixel sink
type Raytracer struct {
	world      geometry.Hittable
	camera     *geometry.Camera
	integrator integrator.Integrator
	config     Config
}

// NewRaytracer creates a raytracer using unidirectional path tracing against the given background
func NewRaytracer(world geometry.Hittable, camera *geometry.Camera, background integrator.Background, config Config) (*Raytracer, error) {
	integratorInst := integrator.NewPathTracingIntegrator(integrator.Config{
		MaxDepth:   config.MaxDepth,
		Background: background,
	})
	return NewRaytracerWithIntegrator(world, camera, integratorInst, config)
}

// NewRaytracerWithIntegrator creates a raytracer with a custom light transport algorithm
func NewRaytracerWithIntegrator(world geometry.Hittable, camera *geometry.Camera, integratorInst integrator.Integrator, config Config) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if world == nil || camera == nil || integratorInst == nil {
		return nil, fmt.Errorf("%w: missing world, camera or integrator", ErrInvalidConfig)
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integratorInst,
		config:     config,
	}, nil
}

// Config returns the configuration the raytracer was built with
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render renders the whole frame into sink using a pool of workers.
// Output is identical for a given seed and tile size no matter how many workers run.
func (rt *Raytracer) Render(ctx context.Context, sink PixelSink) (RenderStats, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return RenderStats{}, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize, rt.config.Seed)
	tileRenderer := NewTileRenderer(rt.world, rt.camera, rt.integrator,
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel)
	pool := NewWorkerPool(tileRenderer, len(tiles), rt.config.NumWorkers)

	stats := RenderStats{
		Tiles:   len(tiles),
		Workers: pool.GetNumWorkers(),
	}

	logger.Infof("rendering %dx%d at %d spp, depth %d: %d tiles on %d workers",
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, rt.config.MaxDepth,
		len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, Sink: sink})
	}
	go pool.Stop()

	var renderErr error
	completed := 0
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Add(result.Stats)
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
				cancel()
			}
			continue
		}
		completed++
		logger.Debugf("tile %d done by worker %d (%d/%d)", result.TileID, result.WorkerID, completed, len(tiles))
	}

	stats.RenderTime = time.Since(start)

	if renderErr != nil {
		logger.Warningf("render stopped after %d/%d tiles: %v", completed, len(tiles), renderErr)
		return stats, fmt.Errorf("%w: %w", ErrInterrupted, renderErr)
	}

	logger.Infof("render finished in %v", stats.RenderTime)
	return stats, nil
}

// RenderImage renders the frame into a new image
func (rt *Raytracer) RenderImage(ctx context.Context) (*image.RGBA, RenderStats, error) {
	sink := NewImageSink(rt.config.Width, rt.config.Height)
	stats, err := rt.Render(ctx, sink)
	return sink.Image(), stats, err
}
