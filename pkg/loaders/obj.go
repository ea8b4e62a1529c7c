package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// LightReflectivityScale multiplies the mesh reflectivity for faces marked as light
const LightReflectivityScale = 50

// OBJOptions controls how a mesh is placed into the scene
type OBJOptions struct {
	Position     core.Vec3 // Offset added to every vertex after the axis remap
	Reflectivity float32   // Reflectivity of ordinary faces
}

// OBJData summarizes a parsed mesh
type OBJData struct {
	Objects       []geometry.Object
	VertexCount   int
	NormalCount   int
	FaceCount     int
	LightFaces    int
	TriangleCount int
}

// objAxisRemap maps OBJ coordinates (x, y, z) into renderer space (-z, x, y):
// the renderer looks along +X with Z up.
var objAxisRemap = mgl32.Mat4FromRows(
	mgl32.Vec4{0, 0, -1, 0},
	mgl32.Vec4{1, 0, 0, 0},
	mgl32.Vec4{0, 1, 0, 0},
	mgl32.Vec4{0, 0, 0, 1},
)

// objState holds the running state of the parser
type objState struct {
	vertexTransform mgl32.Mat4
	opts            OBJOptions
	vertices        []core.Vec3
	normals         []core.Vec3
	color           core.RGB
	light           bool
	data            OBJData
}

// LoadOBJ loads a mesh file and returns its faces as triangle objects
func LoadOBJ(filename string, opts OBJOptions) (*OBJData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	fmt.Printf("Loaded OBJ data: %d vertices, %d triangles in %v\n",
		data.VertexCount, data.TriangleCount, time.Since(startTime))

	return data, nil
}

// ParseOBJ parses mesh data. Supported directives are v, vn, f, color and
// light; everything else is ignored.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJData, error) {
	state := &objState{
		vertexTransform: mgl32.Translate3D(opts.Position.X, opts.Position.Y, opts.Position.Z).Mul4(objAxisRemap),
		opts:            opts,
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := state.parseLine(strings.Fields(line)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	state.data.VertexCount = len(state.vertices)
	state.data.NormalCount = len(state.normals)
	state.data.TriangleCount = len(state.data.Objects)
	return &state.data, nil
}

func (s *objState) parseLine(fields []string) error {
	switch fields[0] {
	case "color":
		c, err := parseColor(fields[1:])
		if err != nil {
			return err
		}
		s.color = c
		s.light = false
	case "light":
		s.light = true
	case "v":
		v, err := parseFloats3(fields[1:])
		if err != nil {
			return fmt.Errorf("invalid vertex: %w", err)
		}
		s.vertices = append(s.vertices, transformPoint(s.vertexTransform, v, 1))
	case "vn":
		n, err := parseFloats3(fields[1:])
		if err != nil {
			return fmt.Errorf("invalid normal: %w", err)
		}
		s.normals = append(s.normals, transformPoint(objAxisRemap, n, 0))
	case "f":
		return s.parseFace(fields[1:])
	}
	return nil
}

// parseFace emits a triangle fan for the face. The normal referenced by the
// first face vertex is used for every triangle; faces without one use the
// geometric normal of their first triangle.
func (s *objState) parseFace(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(refs))
	}

	verts := make([]core.Vec3, len(refs))
	var normal core.Vec3
	hasNormal := false
	for i, ref := range refs {
		vi, ni, err := parseFaceRef(ref)
		if err != nil {
			return err
		}
		idx, err := resolveIndex(vi, len(s.vertices))
		if err != nil {
			return fmt.Errorf("vertex %w", err)
		}
		verts[i] = s.vertices[idx]

		if i == 0 && ni != 0 {
			nidx, err := resolveIndex(ni, len(s.normals))
			if err != nil {
				return fmt.Errorf("normal %w", err)
			}
			normal = s.normals[nidx]
			hasNormal = true
		}
	}
	if !hasNormal {
		normal = geometry.Triangle{V0: verts[0], V1: verts[1], V2: verts[2]}.FaceNormal()
	}

	reflectivity := s.opts.Reflectivity
	if s.light {
		reflectivity *= LightReflectivityScale
		s.data.LightFaces++
	}

	for i := 1; i+1 < len(verts); i++ {
		s.data.Objects = append(s.data.Objects,
			geometry.NewTriangle(normal, verts[0], verts[i], verts[i+1], s.color, reflectivity, s.light))
	}
	s.data.FaceCount++
	return nil
}

// parseFaceRef splits "v", "v/vt", "v//vn" or "v/vt/vn". A missing normal is 0.
func parseFaceRef(ref string) (vertex, normal int, err error) {
	parts := strings.Split(ref, "/")
	vertex, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid face vertex %q", ref)
	}
	if len(parts) >= 3 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid face normal %q", ref)
		}
	}
	return vertex, normal, nil
}

// resolveIndex converts a 1-based (or negative, relative) index into a slice index
func resolveIndex(i, count int) (int, error) {
	idx := i - 1
	if i < 0 {
		idx = count + i
	}
	if i == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %d out of range (have %d)", i, count)
	}
	return idx, nil
}

func transformPoint(m mgl32.Mat4, v core.Vec3, w float32) core.Vec3 {
	r := m.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, w})
	return core.NewVec3(r.X(), r.Y(), r.Z())
}

func parseFloats3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	var vals [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid number %q", fields[i])
		}
		vals[i] = float32(f)
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}

func parseColor(fields []string) (core.RGB, error) {
	if len(fields) < 3 {
		return core.RGB{}, fmt.Errorf("color needs 3 components, got %d", len(fields))
	}
	var vals [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return core.RGB{}, fmt.Errorf("invalid color component %q", fields[i])
		}
		vals[i] = uint8(n)
	}
	return core.NewRGB(vals[0], vals[1], vals[2]), nil
}
