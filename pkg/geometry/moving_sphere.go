package geometry

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// MovingSphere is a sphere whose center travels linearly from Center0 at Time0
// to Center1 at Time1. Rays sampled at different shutter times produce motion blur.
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a new moving sphere
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// CenterAt returns the sphere center at the given time
func (s *MovingSphere) CenterAt(time float64) core.Vec3 {
	// A zero-length interval means the sphere does not move
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	fraction := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(fraction))
}

// Hit tests if a ray intersects with the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return hitSphere(ray, tMin, tMax, s.CenterAt(ray.Time), s.Radius, s.Material)
}
