package material

import (
	"fmt"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) (*Dielectric, error) {
	if !(refractiveIndex > 0) || math.IsInf(refractiveIndex, 0) {
		return nil, fmt.Errorf("%w: refractive index must be positive, got %v", ErrInvalidMaterial, refractiveIndex)
	}
	return &Dielectric{RefractiveIndex: refractiveIndex}, nil
}

// MustDielectric is like NewDielectric but panics on invalid input; meant for built-in scenes
func MustDielectric(refractiveIndex float64) *Dielectric {
	d, err := NewDielectric(refractiveIndex)
	if err != nil {
		panic(err)
	}
	return d
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	// Determine if we're entering or exiting the material
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // air to glass
	} else {
		refractionRatio = d.RefractiveIndex // glass to air
	}

	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = core.Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, direction, rayIn.Time),
		Attenuation: attenuation,
	}, true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
