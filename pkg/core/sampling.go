package core

import (
	"math"
	"math/rand"
)

// Vec2 holds a pair of random numbers for 2D sampling
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; every worker owns its own sampler.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic source
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomRange returns a random float64 in [lo, hi)
func RandomRange(sampler Sampler, lo, hi float64) float64 {
	return lo + (hi-lo)*sampler.Get1D()
}

// RandomVec3 returns a vector with each component uniform in [lo, hi)
func RandomVec3(sampler Sampler, lo, hi float64) Vec3 {
	u := sampler.Get3D()
	return NewVec3(lo+(hi-lo)*u.X, lo+(hi-lo)*u.Y, lo+(hi-lo)*u.Z)
}

// RandomInUnitSphere generates a random point inside a unit sphere by rejection
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := RandomVec3(sampler, -1, 1)
		// Accept if inside unit sphere
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniform random direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	sample := sampler.Get2D()
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		sample := sampler.Get2D()
		p := NewVec3(2*sample.X-1, 2*sample.Y-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
