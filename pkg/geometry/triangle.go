package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// triangleEpsilon is the float32 machine epsilon
const triangleEpsilon float32 = 1.1920929e-07

// Triangle represents a single triangle defined by three vertices.
// NormalHint usually comes from a mesh's vertex normals and is reported as
// the hit normal; it is not derived from the winding.
type Triangle struct {
	NormalHint core.Vec3
	V0, V1, V2 core.Vec3
}

func (t Triangle) Kind() Kind { return KindTriangle }

// Position is the normal hint, so triangles sharing a vertex normal share a
// position. LightAnchor uses V0 instead.
func (t Triangle) Position() core.Vec3 { return t.NormalHint }

// FaceNormal returns the normalized winding normal (V1-V0)x(V2-V0)
func (t Triangle) FaceNormal() core.Vec3 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Normalize()
}

// hit uses the Möller-Trumbore algorithm
func (t Triangle) hit(ray core.Ray) (surfaceHit, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	pvec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	// Ray lies in the plane of the triangle, or the triangle is degenerate
	if math32.Abs(det) < triangleEpsilon {
		return surfaceHit{}, false
	}

	invDet := 1 / det
	tvec := ray.Origin.Subtract(t.V0)
	u := invDet * tvec.Dot(pvec)
	if u < 0 || u > 1 {
		return surfaceHit{}, false
	}

	qvec := tvec.Cross(edge1)
	v := invDet * ray.Direction.Dot(qvec)
	if v < 0 || u+v > 1 {
		return surfaceHit{}, false
	}

	dist := invDet * edge2.Dot(qvec)
	if dist <= triangleEpsilon {
		return surfaceHit{}, false
	}

	return surfaceHit{t: dist, normal: t.NormalHint, point: ray.At(dist)}, true
}
