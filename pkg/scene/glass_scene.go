package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// NewGlassScene creates the three-sphere scene with a hollow glass bubble,
// viewed from above with a wide aperture
func NewGlassScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(3, 3, 2),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        20.0,
		Aperture:    2.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.MustDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		// Negative radius turns the outer glass sphere into a thin shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold),
	)

	return &Scene{
		Name:        "glass",
		Description: "Hollow glass bubble beside diffuse and metal spheres, shallow depth of field",
		World:       world,
		Camera:      cameraConfig,
		Background:  integrator.DefaultBackground(),
		Sampling: SamplingConfig{
			Width:           400,
			Height:          225,
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
	}
}
