package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

const tolerance = 1e-5

func triangleOf(t *testing.T, obj geometry.Object) geometry.Triangle {
	t.Helper()
	tri, ok := obj.Shape.(geometry.Triangle)
	if !ok {
		t.Fatalf("Expected triangle shape, got %T", obj.Shape)
	}
	return tri
}

func TestParseOBJ_TriangleWithRemap(t *testing.T) {
	src := `# single triangle
color 255 128 0
v 1 2 3
v 4 5 6
v 7 8 9
vn 0 0 1
f 1//1 2//1 3//1
`
	data, err := ParseOBJ(strings.NewReader(src), OBJOptions{
		Position:     core.NewVec3(10, 20, 30),
		Reflectivity: 0.5,
	})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(data.Objects) != 1 || data.VertexCount != 3 || data.NormalCount != 1 || data.FaceCount != 1 {
		t.Fatalf("Unexpected counts: %+v", data)
	}

	obj := data.Objects[0]
	tri := triangleOf(t, obj)

	// (x, y, z) -> (-z, x, y) + position
	if !tri.V0.ApproxEqual(core.NewVec3(7, 21, 32), tolerance) {
		t.Errorf("Expected V0 (7,21,32), got %v", tri.V0)
	}
	if !tri.V2.ApproxEqual(core.NewVec3(1, 27, 38), tolerance) {
		t.Errorf("Expected V2 (1,27,38), got %v", tri.V2)
	}
	// Normals are remapped but not translated
	if !tri.NormalHint.ApproxEqual(core.NewVec3(-1, 0, 0), tolerance) {
		t.Errorf("Expected normal (-1,0,0), got %v", tri.NormalHint)
	}
	if obj.Color != core.NewRGB(255, 128, 0) || obj.Reflectivity != 0.5 || obj.Light {
		t.Errorf("Unexpected surface attributes: %v", obj)
	}
}

func TestParseOBJ_QuadSplit(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vn 0 1 0
f 1/1/1 2/2/2 3/3/2 4/4/2
`
	data, err := ParseOBJ(strings.NewReader(src), OBJOptions{Reflectivity: 1})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(data.Objects) != 2 {
		t.Fatalf("Expected quad to split into 2 triangles, got %d", len(data.Objects))
	}

	first := triangleOf(t, data.Objects[0])
	second := triangleOf(t, data.Objects[1])
	v := func(x, y, z float32) core.Vec3 { return core.NewVec3(-z, x, y) }

	if !first.V0.ApproxEqual(v(0, 0, 0), tolerance) || !first.V1.ApproxEqual(v(1, 0, 0), tolerance) || !first.V2.ApproxEqual(v(1, 1, 0), tolerance) {
		t.Errorf("First triangle should use vertices 0,1,2, got %+v", first)
	}
	if !second.V0.ApproxEqual(v(0, 0, 0), tolerance) || !second.V1.ApproxEqual(v(1, 1, 0), tolerance) || !second.V2.ApproxEqual(v(0, 1, 0), tolerance) {
		t.Errorf("Second triangle should use vertices 0,2,3, got %+v", second)
	}

	// Both halves take the normal of the first face vertex
	want := core.NewVec3(-1, 0, 0)
	if !first.NormalHint.ApproxEqual(want, tolerance) || !second.NormalHint.ApproxEqual(want, tolerance) {
		t.Errorf("Expected both normals %v, got %v and %v", want, first.NormalHint, second.NormalHint)
	}
}

func TestParseOBJ_LightFaces(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
color 10 20 30
light
f 1//1 2//1 3//1
color 40 50 60
f 1//1 2//1 3//1
`
	data, err := ParseOBJ(strings.NewReader(src), OBJOptions{Reflectivity: 0.2})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(data.Objects) != 2 || data.LightFaces != 1 {
		t.Fatalf("Expected 2 faces with 1 light, got %+v", data)
	}

	lit, plain := data.Objects[0], data.Objects[1]
	if !lit.Light || lit.Color != core.NewRGB(10, 20, 30) {
		t.Errorf("Expected first face to be a light, got %v", lit)
	}
	if diff := lit.Reflectivity - 0.2*LightReflectivityScale; diff > tolerance || diff < -tolerance {
		t.Errorf("Expected light reflectivity %v, got %v", 0.2*LightReflectivityScale, lit.Reflectivity)
	}
	if plain.Light || plain.Reflectivity != 0.2 || plain.Color != core.NewRGB(40, 50, 60) {
		t.Errorf("Expected color directive to clear the light flag, got %v", plain)
	}
}

func TestParseOBJ_FallbacksAndIgnoredLines(t *testing.T) {
	src := "mtllib scene.mtl\r\no cube\n\nv 0 0 0\nv 0 1 0\nv 0 0 1\nvt 0 0\nf -3 -2 -1\n"
	data, err := ParseOBJ(strings.NewReader(src), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(data.Objects) != 1 {
		t.Fatalf("Expected 1 triangle, got %d", len(data.Objects))
	}

	tri := triangleOf(t, data.Objects[0])
	if !tri.NormalHint.ApproxEqual(tri.FaceNormal(), tolerance) {
		t.Errorf("Expected geometric normal fallback %v, got %v", tri.FaceNormal(), tri.NormalHint)
	}
	if data.Objects[0].Color != (core.RGB{}) {
		t.Errorf("Expected default black color, got %v", data.Objects[0].Color)
	}
}

func TestParseOBJ_Pentagon(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n"
	data, err := ParseOBJ(strings.NewReader(src), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(data.Objects) != 3 || data.FaceCount != 1 {
		t.Errorf("Expected 3 fan triangles from 1 face, got %d from %d", len(data.Objects), data.FaceCount)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad vertex number", "v 1 x 3\n", "line 1: invalid vertex"},
		{"short vertex", "v 1 2\n", "line 1: invalid vertex"},
		{"bad normal", "v 0 0 0\nvn a b c\n", "line 2: invalid normal"},
		{"bad color", "color 300 0 0\n", "line 1: invalid color"},
		{"vertex out of range", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", "line 3: vertex index 3 out of range"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "line 4: vertex index 0"},
		{"normal out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//2 2//2 3//2\n", "line 4: normal index 2"},
		{"bad face ref", "v 0 0 0\nf a b c\n", "line 2: invalid face vertex"},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "line 3: face needs at least 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseOBJ(strings.NewReader(tt.src), OBJOptions{})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if data != nil {
				t.Error("Expected no data on error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadOBJ_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	data, err := LoadOBJ(path, OBJOptions{Position: core.NewVec3(5, 0, 0)})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if data.TriangleCount != 1 {
		t.Errorf("Expected 1 triangle, got %d", data.TriangleCount)
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"), OBJOptions{}); err == nil {
		t.Error("Expected error for missing file")
	}
}
