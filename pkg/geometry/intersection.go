package geometry

import "github.com/df07/go-reflective-raytracer/pkg/core"

// MaxDistance bounds the nearest-hit search. Hits at or beyond it are
// treated as misses.
const MaxDistance float32 = 99999

// Intersection is the result of a single ray/object test
type Intersection struct {
	Distance float32
	Normal   core.Vec3
	Point    core.Vec3
	Object   Object // copy of the hit object, zero when missed
	hit      bool
}

// NoHit returns the miss intersection
func NoHit() Intersection {
	return Intersection{Distance: -1}
}

// Hit reports whether the test found a surface
func (i Intersection) Hit() bool {
	return i.hit
}
