// Package scene defines renderable scenes: the built-in demo scenes, YAML
// scene files and bare meshes.
package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/loaders"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name or id cannot be resolved
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name        string
	Description string
	Objects     []geometry.Object
	Camera      core.Vec3 // Camera origin; the view is always along +X with Z up
	Background  core.RGB
	MaxBounces  uint8 // 0 keeps the bounce limit of the render config
}

// Configure applies the scene's camera, background and bounce limit to base
func (s *Scene) Configure(base renderer.Config) renderer.Config {
	base.CameraOrigin = s.Camera
	base.Background = s.Background
	if s.MaxBounces > 0 {
		base.MaxBounces = s.MaxBounces
	}
	return base
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}

// GetLightCount returns the number of emissive objects in the scene
func (s *Scene) GetLightCount() int {
	count := 0
	for _, obj := range s.Objects {
		if obj.Light {
			count++
		}
	}
	return count
}

// Resolve loads a scene from a built-in name, a YAML scene file or an OBJ mesh
func Resolve(nameOrPath string) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(nameOrPath)) {
	case ".yaml", ".yml":
		return LoadSceneFile(nameOrPath)
	case ".obj":
		return NewMeshScene(nameOrPath)
	}
	return Builtin(nameOrPath)
}

// Default placement of a mesh loaded as a scene of its own
var (
	DefaultMeshPosition     = core.NewVec3(6, 0, 0)
	DefaultMeshReflectivity = float32(0.5)
)

// NewMeshScene wraps an OBJ mesh in a scene. Meshes without light faces get a
// white light sphere above the camera.
func NewMeshScene(path string) (*Scene, error) {
	data, err := loaders.LoadOBJ(path, loaders.OBJOptions{
		Position:     DefaultMeshPosition,
		Reflectivity: DefaultMeshReflectivity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh scene: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := &Scene{
		Name:        name,
		Description: fmt.Sprintf("Mesh %s (%d triangles)", filepath.Base(path), data.TriangleCount),
		Objects:     data.Objects,
		Background:  core.NewRGB(20, 20, 40),
		MaxBounces:  4,
	}
	if data.LightFaces == 0 {
		s.Objects = append(s.Objects, geometry.NewSphere(core.NewVec3(2, 2, 4), 0.5, core.Gray(255), 1, true))
	}
	return s, nil
}
