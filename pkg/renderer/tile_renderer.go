package renderer

import (
	"context"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	world           geometry.Hittable
	camera          *geometry.Camera
	integrator      integrator.Integrator
	width, height   int
	samplesPerPixel int
}

// NewTileRenderer creates a new tile renderer for a width x height frame
func NewTileRenderer(world geometry.Hittable, camera *geometry.Camera, integratorInst integrator.Integrator, width, height, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		world:           world,
		camera:          camera,
		integrator:      integratorInst,
		width:           width,
		height:          height,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderTile renders every pixel of the tile into sink. The context is checked
// before each row; on cancellation the partial stats are returned with ctx.Err().
func (tr *TileRenderer) RenderTile(ctx context.Context, tile *Tile, sink PixelSink) (RenderStats, error) {
	sampler := core.NewRandomSampler(tile.Random)
	var stats RenderStats

	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			sum, rays := tr.samplePixel(i, j, sampler)
			sink.SetPixel(i, j, ToneMap(sum, tr.samplesPerPixel))

			stats.TotalPixels++
			stats.TotalSamples += int64(tr.samplesPerPixel)
			stats.TotalRays += int64(rays)
		}
	}

	return stats, nil
}

// samplePixel sums jittered samples for pixel (i, j), where row 0 is the top of the image
func (tr *TileRenderer) samplePixel(i, j int, sampler core.Sampler) (core.Vec3, int) {
	var sum core.Vec3
	totalRays := 0
	row := float64(tr.height - 1 - j)

	for n := 0; n < tr.samplesPerPixel; n++ {
		jitter := sampler.Get2D()
		s := (float64(i) + jitter.X) / float64(tr.width)
		t := (row + jitter.Y) / float64(tr.height)

		ray := tr.camera.GetRay(s, t, sampler)
		color, rays := tr.integrator.Trace(ray, tr.world, sampler)
		sum = sum.Add(color)
		totalRays += rays
	}

	return sum, totalRays
}
