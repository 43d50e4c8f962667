package formats

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const pyramidOBJ = `# pyramid
v -0.5 0.0 -0.5
v  0.5 0.0 -0.5
v  0.5 0.0  0.5
v -0.5 0.0  0.5
v  0.0 1.0  0.0
f 1 2 5
f 2 3 5
f 3 4 5
f 4 1 5
`

const texturedOBJ = `mtllib cube.mtl
o Cube
v 0 0 0
v 1 0 0
v 1 1 0
vt 0 0
vt 1 0
vt 1 1
vn 0 0 1
usemtl Wood
s off
f 1/1/1 2/2/1 3/3/1
`

func TestParseOBJ_PositionsOnly(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(pyramidOBJ), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Positions) != 5 {
		t.Errorf("expected 5 positions, got %d", len(obj.Positions))
	}
	if len(obj.Faces) != 4 {
		t.Errorf("expected 4 faces, got %d", len(obj.Faces))
	}
	if obj.Positions[4] != [3]float32{0, 1, 0} {
		t.Errorf("apex = %v, want (0, 1, 0)", obj.Positions[4])
	}
	if obj.UsesTexCoords() || obj.UsesNormals() {
		t.Error("position-only faces should not reference texcoords or normals")
	}
}

func TestParseOBJ_FullCorner(t *testing.T) {
	src := `v 0 0 0
v 0 0 0
v 0 0 0
v 0 0 0
v 0 0 0
vt 0 0
vt 1 1
vn 0 1 0
vn 1 0 0
vn 0 0 1
f 5/2/3 1/1/1 2/1/2
`
	obj, err := ParseOBJ(strings.NewReader(src), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	got := obj.Faces[0][0]
	want := OBJIndex{Position: 4, TexCoord: 1, Normal: 2}
	if got != want {
		t.Errorf("corner 5/2/3 = %+v, want %+v", got, want)
	}
}

func TestParseOBJ_CornerForms(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\n"
	tests := []struct {
		face string
		want OBJIndex
	}{
		{"f 1 2 3", OBJIndex{Position: 0, TexCoord: NoIndex, Normal: NoIndex}},
		{"f 1/1 2/1 3/1", OBJIndex{Position: 0, TexCoord: 0, Normal: NoIndex}},
		{"f 1//1 2//1 3//1", OBJIndex{Position: 0, TexCoord: NoIndex, Normal: 0}},
		{"f 1/1/1 2/1/1 3/1/1", OBJIndex{Position: 0, TexCoord: 0, Normal: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.face, func(t *testing.T) {
			obj, err := ParseOBJ(strings.NewReader(src+tt.face+"\n"), OBJOptions{})
			if err != nil {
				t.Fatalf("ParseOBJ failed: %v", err)
			}
			if got := obj.Faces[0][0]; got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOBJ_PositionOnlyIgnoresEmptyTables(t *testing.T) {
	// No vt/vn lines at all: a lookup would be out of range.
	obj, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nv 2 2 0\nf 5 1 2\n"), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	c := obj.Faces[0][0]
	if c.Position != 4 || c.HasTexCoord() || c.HasNormal() {
		t.Errorf("corner \"5\" = %+v, want position 4 and no texcoord/normal", c)
	}
}

func TestParseOBJ_MaterialsAndIgnoredStatements(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(texturedOBJ), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.MaterialLib != "cube.mtl" {
		t.Errorf("MaterialLib = %q, want cube.mtl", obj.MaterialLib)
	}
	if obj.Material != "Wood" {
		t.Errorf("Material = %q, want Wood", obj.Material)
	}
	if !obj.UsesTexCoords() || !obj.UsesNormals() {
		t.Error("expected texcoords and normals to be referenced")
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind OBJErrorKind
		line int
	}{
		{"bad float", "v 1 abc 3\n", OBJBadNumber, 1},
		{"short vertex", "v 1 2\n", OBJMissingValue, 1},
		{"short texcoord", "vt 1\n", OBJMissingValue, 1},
		{"quad face", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n", OBJBadFace, 5},
		{"index zero", "v 0 0 0\nf 0 1 1\n", OBJIndexRange, 2},
		{"negative index", "v 0 0 0\nf -1 1 1\n", OBJIndexRange, 2},
		{"forward reference", "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n", OBJIndexRange, 1},
		{"missing texcoord", "v 0 0 0\nf 1/1 1/1 1/1\n", OBJIndexRange, 2},
		{"bad index", "v 0 0 0\nf 1/x 1 1\n", OBJBadNumber, 2},
		{"empty position", "v 0 0 0\nvt 0 0\nf /1 1 1\n", OBJBadFace, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), OBJOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedOBJ) {
				t.Errorf("expected ErrMalformedOBJ, got %v", err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", perr.Kind, tt.kind)
			}
			if perr.Line != tt.line {
				t.Errorf("line = %d, want %d", perr.Line, tt.line)
			}
		})
	}
}

func TestParseOBJ_Lenient(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv oops 0 0\nf 1 2 3\nf 1 2 3 1\n"
	obj, err := ParseOBJ(strings.NewReader(src), OBJOptions{Lenient: true})
	if err != nil {
		t.Fatalf("lenient ParseOBJ failed: %v", err)
	}
	if len(obj.Positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(obj.Positions))
	}
	if len(obj.Faces) != 1 {
		t.Errorf("expected 1 face, got %d", len(obj.Faces))
	}
	if len(obj.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(obj.Warnings), obj.Warnings)
	}
	if !strings.Contains(obj.Warnings[0], "line 4") {
		t.Errorf("first warning should name line 4: %s", obj.Warnings[0])
	}
}

func TestParseOBJ_LineTooLong(t *testing.T) {
	src := "v 0 0 0 " + strings.Repeat("0", MaxOBJLineLength+1) + "\n"
	_, err := ParseOBJ(strings.NewReader(src), OBJOptions{})
	if !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}
}

func TestParseOBJ_Deterministic(t *testing.T) {
	a, err := ParseOBJ(strings.NewReader(pyramidOBJ), OBJOptions{})
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	b, err := ParseOBJ(strings.NewReader(pyramidOBJ), OBJOptions{})
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("parsing the same input twice produced different results")
	}
	if len(b.Positions) != 5 {
		t.Errorf("tables leaked between calls: %d positions", len(b.Positions))
	}
}

func TestLoadOBJ_Missing(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"), OBJOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadOBJ_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyramid.obj")
	if err := os.WriteFile(path, []byte(pyramidOBJ), 0644); err != nil {
		t.Fatalf("failed to write test OBJ: %v", err)
	}
	obj, err := LoadOBJ(path, OBJOptions{})
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if len(obj.Faces) != 4 {
		t.Errorf("expected 4 faces, got %d", len(obj.Faces))
	}
}
