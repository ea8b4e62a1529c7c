package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float32
}

func (s Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Position() core.Vec3 { return s.Center }

func (s Sphere) hit(ray core.Ray) (surfaceHit, bool) {
	if s.Radius <= 0 {
		return surfaceHit{}, false
	}

	// Work in sphere-local space
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	if a == 0 {
		return surfaceHit{}, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return surfaceHit{}, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Nearest non-negative root
	root := (-b - sqrtD) / (2 * a)
	if root < 0 {
		root = (-b + sqrtD) / (2 * a)
		if root < 0 {
			return surfaceHit{}, false
		}
	}

	local := oc.Add(ray.Direction.Multiply(root))
	return surfaceHit{
		t:      root,
		normal: local.Normalize(),
		point:  ray.At(root),
	}, true
}
