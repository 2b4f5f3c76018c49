package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name        string
	Description string
	World       *geometry.HittableList // Objects in the scene
	Camera      geometry.CameraConfig
	Background  integrator.Background
	Sampling    SamplingConfig
}

// SamplingConfig contains the default rendering configuration for a scene
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// NewGroundSphere creates a huge sphere whose top touches the given height.
// It stands in for an infinite ground plane.
func NewGroundSphere(height, radius float64, mat material.Material) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(0, height-radius, 0), radius, mat)
}

// NewCamera builds the scene camera for an image of the given size
func (s *Scene) NewCamera(width, height int) (*geometry.Camera, error) {
	config := s.Camera
	if width > 0 && height > 0 {
		config.AspectRatio = float64(width) / float64(height)
	}
	return geometry.NewCamera(config)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
