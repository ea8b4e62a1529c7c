package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/loaders"
)

// sceneFile is the YAML layout of a scene file
type sceneFile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Camera      []float32    `yaml:"camera"`
	Background  []int        `yaml:"background"`
	MaxBounces  int          `yaml:"max_bounces"`
	Objects     []objectSpec `yaml:"objects"`
}

// objectSpec is one entry of the objects list. Which fields apply depends on Type.
type objectSpec struct {
	Type         string      `yaml:"type"`
	Color        []int       `yaml:"color"`
	Reflectivity float32     `yaml:"reflectivity"`
	Light        bool        `yaml:"light"`
	Normal       []float32   `yaml:"normal"`   // plane, triangle
	Offset       float32     `yaml:"offset"`   // plane
	Center       []float32   `yaml:"center"`   // sphere
	Radius       float32     `yaml:"radius"`   // sphere
	Vertices     [][]float32 `yaml:"vertices"` // triangle
	File         string      `yaml:"file"`     // mesh
	Position     []float32   `yaml:"position"` // mesh
}

// LoadSceneFile loads a YAML scene. Mesh paths resolve relative to the file.
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := ParseScene(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = sceneID(path)
	}
	return s, nil
}

// ParseScene parses YAML scene data. baseDir is used to resolve mesh files.
func ParseScene(data []byte, baseDir string) (*Scene, error) {
	var f sceneFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing scene: %w", err)
	}

	s := &Scene{
		Name:        f.Name,
		Description: f.Description,
		Background:  core.NewRGB(0, 0, 0),
	}

	if f.Camera != nil {
		camera, err := toVec3(f.Camera)
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		s.Camera = camera
	}
	if f.Background != nil {
		bg, err := toRGB(f.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		s.Background = bg
	}
	if f.MaxBounces < 0 || f.MaxBounces > 255 {
		return nil, fmt.Errorf("max_bounces must be in [0, 255], got %d", f.MaxBounces)
	}
	s.MaxBounces = uint8(f.MaxBounces)

	for i, spec := range f.Objects {
		objects, err := spec.build(baseDir, s.Camera)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, spec.Type, err)
		}
		s.Objects = append(s.Objects, objects...)
	}
	return s, nil
}

func (o objectSpec) build(baseDir string, eye core.Vec3) ([]geometry.Object, error) {
	if o.Type == "mesh" {
		return o.buildMesh(baseDir)
	}

	color, err := toRGB(o.Color)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}

	switch o.Type {
	case "plane":
		normal, err := toVec3(o.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %w", err)
		}
		if normal.LengthSquared() == 0 {
			return nil, fmt.Errorf("normal must not be zero")
		}
		return []geometry.Object{geometry.NewPlane(normal.Normalize(), o.Offset, color, o.Reflectivity, o.Light)}, nil

	case "sphere":
		center, err := toVec3(o.Center)
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		if o.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %v", o.Radius)
		}
		return []geometry.Object{geometry.NewSphere(center, o.Radius, color, o.Reflectivity, o.Light)}, nil

	case "triangle":
		if len(o.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d", len(o.Vertices))
		}
		var v [3]core.Vec3
		for i, raw := range o.Vertices {
			if v[i], err = toVec3(raw); err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
		}
		if o.Normal == nil {
			tri := NewFacingTriangle(eye, v[0], v[1], v[2], color, o.Reflectivity)
			tri.Light = o.Light
			return []geometry.Object{tri}, nil
		}
		normal, err := toVec3(o.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %w", err)
		}
		return []geometry.Object{geometry.NewTriangle(normal.Normalize(), v[0], v[1], v[2], color, o.Reflectivity, o.Light)}, nil

	default:
		return nil, fmt.Errorf("unknown object type %q", o.Type)
	}
}

func (o objectSpec) buildMesh(baseDir string) ([]geometry.Object, error) {
	if o.File == "" {
		return nil, fmt.Errorf("mesh needs a file")
	}
	var position core.Vec3
	if o.Position != nil {
		var err error
		if position, err = toVec3(o.Position); err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
	}

	path := o.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := loaders.LoadOBJ(path, loaders.OBJOptions{Position: position, Reflectivity: o.Reflectivity})
	if err != nil {
		return nil, err
	}
	return data.Objects, nil
}

func toVec3(vals []float32) (core.Vec3, error) {
	if len(vals) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 values, got %d", len(vals))
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}

func toRGB(vals []int) (core.RGB, error) {
	if len(vals) != 3 {
		return core.RGB{}, fmt.Errorf("expected 3 values, got %d", len(vals))
	}
	for _, v := range vals {
		if v < 0 || v > 255 {
			return core.RGB{}, fmt.Errorf("component %d out of range [0, 255]", v)
		}
	}
	return core.NewRGB(uint8(vals[0]), uint8(vals[1]), uint8(vals[2])), nil
}
