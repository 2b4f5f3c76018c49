package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_CenteredAhead(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-0.5) > 1e-12 {
		t.Errorf("Expected t=0.5, got t=%f", hit.T)
	}
	if !vecClose(hit.Normal, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if !vecClose(hit.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			// Normal always opposes the incoming ray
			if hit.Normal.Dot(tt.rayDirection) >= 0 {
				t.Errorf("Normal %v does not face against ray %v", hit.Normal, tt.rayDirection)
			}
		})
	}
}

func TestSphere_Hit_TangentCountsAsHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected tangent hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if !vecClose(hit.Point, expectedPoint, 1e-9) {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, 0.5); isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}
	if hit, isHit := sphere.Hit(ray, 3.5, 1000.0); isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Bounds are exclusive
	if hit, isHit := sphere.Hit(ray, 0.001, 1.0); isHit && hit.T == 1.0 {
		t.Error("Root equal to tMax must not be accepted")
	}

	// Near root excluded by tMin: far root accepted
	hit, isHit := sphere.Hit(ray, 1.5, 1000.0)
	if !isHit || math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got hit=%t t=%f", isHit, hit.T)
	}
	if hit.FrontFace {
		t.Error("Far root of a solid sphere is a back face")
	}
}

func TestSphere_Hit_NegativeRadiusFlipsNormal(t *testing.T) {
	glass := material.MustDielectric(1.5)
	shell := NewSphere(core.NewVec3(0, 0, 0), -1.0, glass)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := shell.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit on negative-radius sphere")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got %f", hit.T)
	}
	// Outward normal points inward, so an outside ray sees a back face
	if hit.FrontFace {
		t.Error("Expected back face for negative-radius sphere seen from outside")
	}
	if !vecClose(hit.Normal, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal still facing the ray, got %v", hit.Normal)
	}
	if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
	}
	if hit.Material != glass {
		t.Error("Hit record should carry the sphere's material")
	}
}

func TestSphere_Hit_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		sphere *Sphere
		ray    core.Ray
	}{
		{
			name:   "zero radius",
			sphere: NewSphere(core.NewVec3(0, 0, -1), 0, nil),
			ray:    core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		},
		{
			name:   "zero direction",
			sphere: NewSphere(core.NewVec3(0, 0, -1), 0.5, nil),
			ray:    core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, isHit := tt.sphere.Hit(tt.ray, 0.001, math.Inf(1)); isHit {
				t.Error("Expected degenerate configuration to miss")
			}
		})
	}
}

func TestMovingSphere_CenterAt(t *testing.T) {
	s := NewMovingSphere(core.NewVec3(0, 0, 0), core.NewVec3(0, 2, 0), 0, 1, 0.5, nil)

	tests := []struct {
		time     float64
		expected core.Vec3
	}{
		{0, core.NewVec3(0, 0, 0)},
		{0.5, core.NewVec3(0, 1, 0)},
		{1, core.NewVec3(0, 2, 0)},
	}
	for _, tt := range tests {
		if got := s.CenterAt(tt.time); !vecClose(got, tt.expected, 1e-12) {
			t.Errorf("CenterAt(%f): expected %v, got %v", tt.time, tt.expected, got)
		}
	}

	still := NewMovingSphere(core.NewVec3(1, 1, 1), core.NewVec3(5, 5, 5), 0.5, 0.5, 1, nil)
	if got := still.CenterAt(0.7); got != still.Center0 {
		t.Errorf("Zero-length shutter interval should pin the center, got %v", got)
	}
}

func TestMovingSphere_HitDependsOnRayTime(t *testing.T) {
	s := NewMovingSphere(core.NewVec3(0, 0, -2), core.NewVec3(0, 3, -2), 0, 1, 0.5, nil)
	direction := core.NewVec3(0, 0, -1)

	early := core.NewRayAtTime(core.NewVec3(0, 0, 0), direction, 0)
	if _, isHit := s.Hit(early, 0.001, math.Inf(1)); !isHit {
		t.Error("Expected hit at time 0 when the sphere is on the axis")
	}

	late := core.NewRayAtTime(core.NewVec3(0, 0, 0), direction, 1)
	if _, isHit := s.Hit(late, 0.001, math.Inf(1)); isHit {
		t.Error("Expected miss at time 1 after the sphere moved away")
	}
}
