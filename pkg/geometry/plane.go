package geometry

import "github.com/df07/go-reflective-raytracer/pkg/core"

// Plane is the infinite plane of points p with dot(p, Normal) == Offset
type Plane struct {
	Normal core.Vec3
	Offset float32
}

func (p Plane) Kind() Kind { return KindPlane }

// Position returns the point of the plane closest to the origin when Normal
// has unit length
func (p Plane) Position() core.Vec3 {
	return p.Normal.Multiply(p.Offset)
}

func (p Plane) hit(ray core.Ray) (surfaceHit, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel to the plane
	if denominator == 0 {
		return surfaceHit{}, false
	}

	t := -(ray.Origin.Dot(p.Normal) - p.Offset) / denominator
	if t <= 0 {
		return surfaceHit{}, false
	}

	// Planes are one-sided: the normal is reported as stored
	return surfaceHit{t: t, normal: p.Normal, point: ray.At(t)}, true
}
