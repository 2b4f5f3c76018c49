package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance, each channel in [0,1]
}

// NewLambertian creates a new lambertian material, clamping albedo to [0,1]
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo.Clamp(0, 1)}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Offset a uniform point on the unit sphere from the tip of the normal
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// The sample can cancel the normal almost exactly
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, scatterDirection, rayIn.Time),
		Attenuation: l.Albedo,
	}, true
}
