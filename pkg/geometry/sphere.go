package geometry

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Sphere represents a sphere shape.
// A negative radius flips the outward normal, which models the inner wall of a hollow shell.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return hitSphere(ray, tMin, tMax, s.Center, s.Radius, s.Material)
}

// hitSphere solves |O + tD - C|² = r² and fills a hit record for the nearest root in range
func hitSphere(ray core.Ray, tMin, tMax float64, center core.Vec3, radius float64, mat material.Material) (material.HitRecord, bool) {
	// Degenerate spheres and rays never hit
	if radius == 0 || math.IsNaN(radius) {
		return material.HitRecord{}, false
	}

	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return material.HitRecord{}, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - radius*radius

	discriminant := halfB*halfB - a*c

	// Tangent rays (discriminant == 0) count as hits
	if discriminant < 0 {
		return material.HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return material.HitRecord{}, false
		}
	}

	hitRecord := material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: mat,
	}

	// Outward normal follows the sign of the radius
	outwardNormal := hitRecord.Point.Subtract(center).Divide(radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
