package geometry

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// Kind identifies which primitive an Object wraps
type Kind int

const (
	KindNone Kind = iota
	KindPlane
	KindSphere
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	default:
		return "none"
	}
}

// Shape is the geometric part of an Object. It is implemented only by
// Plane, Sphere and Triangle.
type Shape interface {
	Kind() Kind
	// Position is the anchor point used for equality
	Position() core.Vec3
	hit(ray core.Ray) (surfaceHit, bool)
}

// surfaceHit is the geometric result of a successful shape test
type surfaceHit struct {
	t      float32
	normal core.Vec3
	point  core.Vec3
}

// Object is a scene primitive with its surface attributes
type Object struct {
	Shape        Shape
	Color        core.RGB
	Reflectivity float32 // scales this object's color when it relays the previous bounce
	Light        bool    // emissive: ends a path and contributes Color directly
}

// NewPlane creates a plane object satisfying dot(p, normal) == offset
func NewPlane(normal core.Vec3, offset float32, color core.RGB, reflectivity float32, light bool) Object {
	return Object{
		Shape:        Plane{Normal: normal, Offset: offset},
		Color:        color,
		Reflectivity: reflectivity,
		Light:        light,
	}
}

// NewSphere creates a sphere object
func NewSphere(center core.Vec3, radius float32, color core.RGB, reflectivity float32, light bool) Object {
	return Object{
		Shape:        Sphere{Center: center, Radius: radius},
		Color:        color,
		Reflectivity: reflectivity,
		Light:        light,
	}
}

// NewTriangle creates a triangle object. normalHint is reported as the surface
// normal of every hit instead of the winding normal.
func NewTriangle(normalHint, v0, v1, v2 core.Vec3, color core.RGB, reflectivity float32, light bool) Object {
	return Object{
		Shape:        Triangle{NormalHint: normalHint, V0: v0, V1: v1, V2: v2},
		Color:        color,
		Reflectivity: reflectivity,
		Light:        light,
	}
}

// Kind returns the primitive kind, KindNone for an empty object
func (o Object) Kind() Kind {
	if o.Shape == nil {
		return KindNone
	}
	return o.Shape.Kind()
}

// Position returns the anchor point of the primitive
func (o Object) Position() core.Vec3 {
	if o.Shape == nil {
		return core.Vec3{}
	}
	return o.Shape.Position()
}

// LightAnchor returns the point light is cast from when the object is a
// light: V0 for triangles and Position for everything else
func (o Object) LightAnchor() core.Vec3 {
	if tri, ok := o.Shape.(Triangle); ok {
		return tri.V0
	}
	return o.Position()
}

// Intersect tests the ray against the object. The returned intersection
// carries a copy of the object on a hit and is NoHit otherwise.
func (o Object) Intersect(ray core.Ray) Intersection {
	if o.Shape == nil {
		return NoHit()
	}
	sh, ok := o.Shape.hit(ray)
	if !ok {
		return NoHit()
	}
	return Intersection{
		Distance: sh.t,
		Normal:   sh.normal,
		Point:    sh.point,
		Object:   o,
		hit:      true,
	}
}

// Equal reports "same position and different kind". The relation is not
// reflexive: o.Equal(o) is false for any non-empty object, and a sphere
// never equals another sphere. Use SameShape for the position-and-kind
// comparison.
func (o Object) Equal(other Object) bool {
	return o.Position() == other.Position() && o.Kind() != other.Kind()
}

// SameShape reports whether both objects are the same kind of primitive at
// the same position
func (o Object) SameShape(other Object) bool {
	return o.Position() == other.Position() && o.Kind() == other.Kind()
}

func (o Object) String() string {
	return fmt.Sprintf("%s@%v color=%v refl=%g light=%t", o.Kind(), o.Position(), o.Color, o.Reflectivity, o.Light)
}
