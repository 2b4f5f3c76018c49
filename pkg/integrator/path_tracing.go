package integrator

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// ShadowEpsilon is the minimum hit distance, which keeps scattered rays from
// re-hitting the surface they start on
const ShadowEpsilon = 0.001

// Config controls path termination
type Config struct {
	MaxDepth   int        // Maximum number of bounces per path
	Background Background // Sky color for escaping rays
}

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3 {
	color, _ := pt.Trace(ray, world, sampler)
	return color
}

// Trace computes the color for a single ray and reports how many rays were cast
func (pt *PathTracingIntegrator) Trace(ray core.Ray, world geometry.Hittable, sampler core.Sampler) (core.Vec3, int) {
	rays := 0
	color := pt.rayColor(ray, world, sampler, pt.config.MaxDepth, &rays)
	return color, rays
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler, depth int, rays *int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	*rays++
	hit, isHit := world.Hit(ray, ShadowEpsilon, math.Inf(1))
	if !isHit {
		return pt.config.Background.Color(ray.Direction)
	}

	// Surfaces without a material absorb everything
	if hit.Material == nil {
		return core.Vec3{}
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(
		pt.rayColor(scatter.Scattered, world, sampler, depth-1, rays))
}
