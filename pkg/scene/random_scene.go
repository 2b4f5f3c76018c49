package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// randomSceneCamera frames the 22x22 field of small spheres from a low angle
func randomSceneCamera(time1 float64) geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
		Time0:         0,
		Time1:         time1,
	}
}

// NewRandomScene creates the field of randomly placed small spheres around
// three large ones. The same seed always produces the same scene.
func NewRandomScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newSphereField(seed, false, cameraOverrides...)
	s.Name = "random"
	s.Description = "Hundreds of random diffuse, metal and glass spheres around three large ones"
	return s
}

// NewMovingScene is the random scene with diffuse spheres bouncing during the
// shutter interval, which renders as motion blur
func NewMovingScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newSphereField(seed, true, cameraOverrides...)
	s.Name = "moving"
	s.Description = "Random sphere field with motion-blurred bouncing diffuse spheres"
	return s
}

func newSphereField(seed int64, moving bool, cameraOverrides ...geometry.CameraConfig) *Scene {
	time1 := 0.0
	if moving {
		time1 = 1.0
	}
	defaultCameraConfig := randomSceneCamera(time1)
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	random := rand.New(rand.NewSource(seed))
	sampler := core.NewRandomSampler(random)

	world := geometry.NewHittableList(
		NewGroundSphere(0, 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			// Keep the space around the large metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				diffuse := material.NewLambertian(albedo)
				if moving {
					center1 := center.Add(core.NewVec3(0, 0.5*random.Float64(), 0))
					world.Add(geometry.NewMovingSphere(center, center1, 0, 1, 0.2, diffuse))
				} else {
					world.Add(geometry.NewSphere(center, 0.2, diffuse))
				}
			case chooseMat < 0.95:
				albedo := core.RandomVec3(sampler, 0, 0.5)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				world.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				world.Add(geometry.NewSphere(center, 0.2, material.MustDielectric(1.5)))
			}
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.MustDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.4), 0.0)))

	return &Scene{
		World:      world,
		Camera:     cameraConfig,
		Background: integrator.DefaultBackground(),
		Sampling: SamplingConfig{
			Width:           400,
			Height:          266,
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
	}
}
