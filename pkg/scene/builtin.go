package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// builtinScene describes a scene compiled into the binary
type builtinScene struct {
	description string
	build       func() []geometry.Object
}

var builtins = map[string]builtinScene{
	"default": {
		description: "Reflective spheres over a gray floor with one light",
		build:       defaultObjects,
	},
	"mirrors": {
		description: "A sphere between two facing mirrors",
		build:       mirrorObjects,
	},
	"triangles": {
		description: "A triangle pyramid lit from above",
		build:       triangleObjects,
	},
	"lit-plane": {
		description: "A floor plane under a single light sphere",
		build:       litPlaneObjects,
	},
}

// BuiltinNames returns the built-in scene names in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin creates a built-in scene by name
func Builtin(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return &Scene{
		Name:        name,
		Description: b.description,
		Objects:     b.build(),
		Background:  core.NewRGB(20, 20, 40),
		MaxBounces:  4,
	}, nil
}

// NewFloor creates the ground plane z == height, facing up
func NewFloor(height float32, color core.RGB, reflectivity float32) geometry.Object {
	return geometry.NewPlane(core.NewVec3(0, 0, 1), height, color, reflectivity, false)
}

// NewFacingTriangle creates a triangle whose normal hint is the winding
// normal flipped, if needed, to face the viewer at eye
func NewFacingTriangle(eye, v0, v1, v2 core.Vec3, color core.RGB, reflectivity float32) geometry.Object {
	normal := geometry.Triangle{V0: v0, V1: v1, V2: v2}.FaceNormal()
	if normal.Dot(v0.Subtract(eye)) > 0 {
		normal = normal.Negate()
	}
	return geometry.NewTriangle(normal, v0, v1, v2, color, reflectivity, false)
}

func whiteLight(center core.Vec3, radius float32) geometry.Object {
	return geometry.NewSphere(center, radius, core.Gray(255), 1, true)
}

func defaultObjects() []geometry.Object {
	return []geometry.Object{
		NewFloor(-1, core.Gray(200), 0.3),
		geometry.NewSphere(core.NewVec3(6, 0, 0), 1, core.NewRGB(255, 60, 60), 0.6, false),
		geometry.NewSphere(core.NewVec3(5, -2.5, -0.2), 0.8, core.NewRGB(60, 60, 255), 0.5, false),
		geometry.NewSphere(core.NewVec3(7, 2.5, -0.4), 0.6, core.NewRGB(60, 255, 60), 0.8, false),
		whiteLight(core.NewVec3(4, 2, 4), 0.5),
	}
}

func mirrorObjects() []geometry.Object {
	return []geometry.Object{
		NewFloor(-1, core.Gray(180), 0.2),
		geometry.NewPlane(core.NewVec3(0, 1, 0), 3, core.Gray(230), 0.9, false),
		geometry.NewPlane(core.NewVec3(0, 1, 0), -3, core.Gray(230), 0.9, false),
		geometry.NewSphere(core.NewVec3(6, 0, 0), 1, core.NewRGB(255, 200, 60), 0.7, false),
		whiteLight(core.NewVec3(3, 0, 4), 0.5),
	}
}

func triangleObjects() []geometry.Object {
	eye := core.Vec3{}
	apex := core.NewVec3(7, 0, 1.5)
	base := []core.Vec3{
		core.NewVec3(5.5, -1.5, -1),
		core.NewVec3(5.5, 1.5, -1),
		core.NewVec3(8.5, 1.5, -1),
		core.NewVec3(8.5, -1.5, -1),
	}
	colors := []core.RGB{
		core.NewRGB(255, 80, 80),
		core.NewRGB(80, 255, 80),
		core.NewRGB(80, 80, 255),
		core.NewRGB(255, 255, 80),
	}

	objects := []geometry.Object{NewFloor(-1, core.Gray(160), 0.3)}
	for i := range base {
		next := base[(i+1)%len(base)]
		objects = append(objects, NewFacingTriangle(eye, base[i], next, apex, colors[i], 0.6))
	}
	return append(objects, whiteLight(core.NewVec3(4, 0, 5), 0.5))
}

func litPlaneObjects() []geometry.Object {
	return []geometry.Object{
		NewFloor(-1, core.Gray(220), 1),
		whiteLight(core.NewVec3(5, 0, 3), 0.5),
	}
}
