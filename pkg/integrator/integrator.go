package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace computes the color carried back along ray and the number of rays cast to find it
	Trace(ray core.Ray, world geometry.Hittable, sampler core.Sampler) (core.Vec3, int)
}

// Background is the sky seen by rays that escape the scene.
// Colors are blended by the height of the ray direction.
type Background struct {
	Top    core.Vec3 // Color looking straight up
	Bottom core.Vec3 // Color looking straight down
}

// DefaultBackground returns the white-to-blue sky gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the background radiance for a ray direction
func (b Background) Color(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
