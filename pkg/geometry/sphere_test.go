package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

func testSphere(center core.Vec3, radius float32) Object {
	return NewSphere(center, radius, core.NewRGB(255, 0, 0), 0.5, false)
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := testSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit := sphere.Intersect(ray)
	if hit.Hit() {
		t.Errorf("Expected miss, but got hit at t=%f", hit.Distance)
	}
}

func TestSphere_Intersect_FromOutside(t *testing.T) {
	tests := []struct {
		name   string
		radius float32
	}{
		{"unit sphere", 1},
		{"small sphere", 0.25},
		{"large sphere", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.radius
			sphere := testSphere(core.NewVec3(0, 0, 0), r)
			ray := core.NewRay(core.NewVec3(-2*r, 0, 0), core.NewVec3(1, 0, 0))

			hit := sphere.Intersect(ray)
			if !hit.Hit() {
				t.Fatal("Expected hit, but got miss")
			}

			tolerance := 1e-5 * float64(r)
			if math.Abs(float64(hit.Distance-r)) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", r, hit.Distance)
			}
			if !hit.Normal.ApproxEqual(core.NewVec3(-1, 0, 0), 1e-6) {
				t.Errorf("Expected normal (-1,0,0), got %v", hit.Normal)
			}
			if !hit.Point.ApproxEqual(core.NewVec3(-r, 0, 0), float32(tolerance)) {
				t.Errorf("Expected hit point (%f,0,0), got %v", -r, hit.Point)
			}
		})
	}
}

func TestSphere_Intersect_WorldSpacePoint(t *testing.T) {
	sphere := testSphere(core.NewVec3(10, 5, 0), 1)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(1, 0, 0))

	hit := sphere.Intersect(ray)
	if !hit.Hit() {
		t.Fatal("Expected hit, but got miss")
	}
	if !hit.Point.ApproxEqual(core.NewVec3(9, 5, 0), 1e-5) {
		t.Errorf("Expected world-space hit point (9,5,0), got %v", hit.Point)
	}
	if !hit.Normal.ApproxEqual(core.NewVec3(-1, 0, 0), 1e-6) {
		t.Errorf("Expected normal (-1,0,0), got %v", hit.Normal)
	}
}

func TestSphere_Intersect_FromInside(t *testing.T) {
	sphere := testSphere(core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit := sphere.Intersect(ray)
	if !hit.Hit() {
		t.Fatal("Expected hit on the far side, got miss")
	}
	if math.Abs(float64(hit.Distance-1)) > 1e-6 {
		t.Errorf("Expected t=1, got %f", hit.Distance)
	}
	if !hit.Normal.ApproxEqual(core.NewVec3(0, 0, 1), 1e-6) {
		t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
	}
}

func TestSphere_Intersect_Behind(t *testing.T) {
	sphere := testSphere(core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1))

	if hit := sphere.Intersect(ray); hit.Hit() {
		t.Errorf("Expected miss for sphere behind the ray, got t=%f", hit.Distance)
	}
}

func TestSphere_Intersect_Tangent(t *testing.T) {
	sphere := testSphere(core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(-5, 0, 1), core.NewVec3(1, 0, 0))

	hit := sphere.Intersect(ray)
	if !hit.Hit() {
		t.Fatal("Expected tangent hit (zero discriminant), got miss")
	}
	if !hit.Point.ApproxEqual(core.NewVec3(0, 0, 1), 1e-5) {
		t.Errorf("Expected tangent point (0,0,1), got %v", hit.Point)
	}
}

func TestSphere_Intersect_Degenerate(t *testing.T) {
	tests := []struct {
		name      string
		sphere    Object
		direction core.Vec3
	}{
		{"zero radius", testSphere(core.NewVec3(5, 0, 0), 0), core.NewVec3(1, 0, 0)},
		{"negative radius", testSphere(core.NewVec3(5, 0, 0), -1), core.NewVec3(1, 0, 0)},
		{"zero direction", testSphere(core.NewVec3(5, 0, 0), 1), core.NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			if hit := tt.sphere.Intersect(ray); hit.Hit() {
				t.Errorf("Expected miss, got hit at t=%f", hit.Distance)
			}
		})
	}
}

func TestSphere_Intersect_CarriesObject(t *testing.T) {
	sphere := NewSphere(core.NewVec3(3, 0, 0), 1, core.NewRGB(1, 2, 3), 0.25, true)
	hit := sphere.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)))
	if !hit.Hit() {
		t.Fatal("Expected hit, got miss")
	}
	if hit.Object.Color != core.NewRGB(1, 2, 3) || hit.Object.Reflectivity != 0.25 || !hit.Object.Light {
		t.Errorf("Expected intersection to carry the object, got %v", hit.Object)
	}
}
