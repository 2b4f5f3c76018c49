package material

import (
	"errors"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ErrInvalidMaterial is returned when a material is constructed with out-of-range parameters
var ErrInvalidMaterial = errors.New("material: invalid parameters")

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter decides whether and how rayIn continues after striking the surface.
	// A false result means the ray was absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
