package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	lambertianGreen := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.MustDielectric(1.5)

	world := geometry.NewHittableList(
		NewGroundSphere(0, 1000, lambertianGreen),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, materialGlass),

		// Hollow glass sphere with a blue sphere inside
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, materialGlass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), -0.24, materialGlass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, lambertianBlue),
	)

	return &Scene{
		Name:        "default",
		Description: "Diffuse, metal and glass spheres on a ground sphere",
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
