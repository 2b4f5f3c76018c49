package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	// Clamp fuzz to valid range
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if fuzz < 0.0 {
		fuzz = 0.0
	}
	return &Metal{Albedo: albedo.Clamp(0, 1), Fuzz: fuzz}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Calculate perfect reflection direction
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzz))
	}

	scattered := core.NewRayAtTime(hit.Point, reflected, rayIn.Time)

	// Fuzzed reflections that dip below the surface are absorbed
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, true
}
