package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ErrInvalidCamera is returned when a camera configuration cannot produce rays
var ErrInvalidCamera = errors.New("camera: invalid configuration")

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from point)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 = pinhole
	FocusDistance float64   // Distance to the focal plane, 0 = focus on LookAt
	Time0, Time1  float64   // Shutter open/close times
}

// Camera generates primary rays using a thin lens model.
// It is immutable once built and safe to share between workers.
type Camera struct {
	center          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera coordinate system
	lensRadius      float64
	time0, time1    float64
	config          CameraConfig
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	switch {
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %v", ErrInvalidCamera, c.AspectRatio)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical field of view must be in (0, 180), got %v", ErrInvalidCamera, c.VFov)
	case c.Aperture < 0 || math.IsNaN(c.Aperture):
		return fmt.Errorf("%w: aperture must not be negative, got %v", ErrInvalidCamera, c.Aperture)
	case c.FocusDistance < 0 || math.IsNaN(c.FocusDistance):
		return fmt.Errorf("%w: focus distance must not be negative, got %v", ErrInvalidCamera, c.FocusDistance)
	case c.Time1 < c.Time0:
		return fmt.Errorf("%w: shutter closes (%v) before it opens (%v)", ErrInvalidCamera, c.Time1, c.Time0)
	}

	viewDir := c.Center.Subtract(c.LookAt)
	if viewDir.NearZero() {
		return fmt.Errorf("%w: look-from and look-at points coincide", ErrInvalidCamera)
	}
	if c.Up.Cross(viewDir).NearZero() {
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrInvalidCamera, c.Up)
	}
	return nil
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	// Right-handed basis with w pointing from the scene toward the eye
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		center:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		time0:           config.Time0,
		time1:           config.Time1,
		config:          config,
	}, nil
}

// GetRay generates a ray for normalized screen coordinates (s, t) where 0 <= s,t <= 1
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	var offset core.Vec3
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.center.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	time := c.time0
	if c.time1 > c.time0 {
		time = core.RandomRange(sampler, c.time0, c.time1)
	}

	return core.NewRayAtTime(origin, direction, time)
}

// GetCameraForward returns the unit direction the camera is looking
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// MergeCameraConfig applies non-zero override values on top of a base configuration
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.Time0 != 0 || override.Time1 != 0 {
		result.Time0 = override.Time0
		result.Time1 = override.Time1
	}
	return result
}
