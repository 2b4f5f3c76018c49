package geometry

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// HittableList is an ordered collection of primitives intersected by linear scan
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list holding the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends an object to the list
func (l *HittableList) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
}

// Len returns the number of objects in the list
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit returns the nearest intersection across every object in the list
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
