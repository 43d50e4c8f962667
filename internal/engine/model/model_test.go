package model

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/gpu/gputest"
	"github.com/Faultbox/hello3d/pkg/formats"
)

const cubeFaceOBJ = `mtllib quad.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Brick
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

const quadMTL = `newmtl Brick
Ka 0.2 0.1 0.1
Kd 0.8 0.3 0.2
Ks 0.4 0.4 0.4
Ns 16
map_Kd brick.png
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func parse(t *testing.T, src string) *formats.OBJ {
	t.Helper()
	obj, err := formats.ParseOBJ(strings.NewReader(src), formats.OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	return obj
}

func TestLayoutStride(t *testing.T) {
	tests := []struct {
		layout Layout
		stride int
		attrs  int
	}{
		{LayoutPosColor, 6, 2},
		{LayoutTextured, 8, 3},
		{LayoutLit, 9, 3},
		{LayoutTexturedLit, 11, 4},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			if got := tt.layout.Stride(); got != tt.stride {
				t.Errorf("Stride() = %d, want %d", got, tt.stride)
			}
			if got := tt.layout.StrideBytes(); got != tt.stride*4 {
				t.Errorf("StrideBytes() = %d, want %d", got, tt.stride*4)
			}
			if got := len(tt.layout.Attributes()); got != tt.attrs {
				t.Errorf("len(Attributes()) = %d, want %d", got, tt.attrs)
			}
		})
	}
}

func TestLayoutAttributeOffsets(t *testing.T) {
	attrs := LayoutTexturedLit.Attributes()
	wantLoc := []uint32{LocPosition, LocColor, LocTexCoord, LocNormal}
	wantOff := []int{0, 12, 24, 32}
	wantSize := []int32{3, 3, 2, 3}
	for i, a := range attrs {
		if a.Location != wantLoc[i] || a.Offset != wantOff[i] || a.Size != wantSize[i] {
			t.Errorf("attr %d = %+v, want loc %d offset %d size %d", i, a, wantLoc[i], wantOff[i], wantSize[i])
		}
	}

	// Normals follow color directly when there are no texcoords.
	lit := LayoutLit.Attributes()
	if lit[2].Location != LocNormal || lit[2].Offset != 24 {
		t.Errorf("lit normal attr = %+v, want loc 3 offset 24", lit[2])
	}
}

func TestBuild_PositionColorCounts(t *testing.T) {
	for faces := 1; faces <= 5; faces++ {
		var b strings.Builder
		b.WriteString("v 0 0 0\nv 1 0 0\nv 0 1 0\n")
		for i := 0; i < faces; i++ {
			b.WriteString("f 1 2 3\n")
		}

		g, err := Build(parse(t, b.String()), BuildOptions{})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if g.VertexCount != 3*faces {
			t.Errorf("F=%d: VertexCount = %d, want %d", faces, g.VertexCount, 3*faces)
		}
		if len(g.Data) != 6*3*faces {
			t.Errorf("F=%d: len(Data) = %d, want %d", faces, len(g.Data), 18*faces)
		}
	}
}

func TestBuild_FullLayout(t *testing.T) {
	g, err := Build(parse(t, cubeFaceOBJ), BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Layout != LayoutTexturedLit {
		t.Fatalf("auto layout = %s, want pos+color+uv+normal", g.Layout)
	}
	if g.Layout.Stride() != 11 {
		t.Errorf("stride = %d, want 11", g.Layout.Stride())
	}
	if len(g.Data) != 11*g.VertexCount {
		t.Errorf("len(Data) = %d, want 11*%d", len(g.Data), g.VertexCount)
	}

	// Second corner of the first face: v2 / vt2 / vn1.
	v := g.Data[11:22]
	want := []float32{1, 0, 0, 1, 1, 1, 1, 0, 0, 0, 1}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("vertex 1 = %v, want %v", v, want)
	}
}

func TestBuild_ColorAndExplicitLayout(t *testing.T) {
	red := mgl32.Vec3{1, 0, 0}
	obj := parse(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	g, err := Build(obj, BuildOptions{Mode: LayoutExplicit, Layout: LayoutLit, Color: &red})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Layout.Stride() != 9 {
		t.Fatalf("stride = %d, want 9", g.Layout.Stride())
	}
	first := g.Data[:9]
	want := []float32{0, 0, 0, 1, 0, 0, 0, 0, 0}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("vertex 0 = %v, want %v (red, zero normal)", first, want)
	}
}

func TestBuild_Bounds(t *testing.T) {
	g, err := Build(parse(t, "v -1 0 2\nv 3 -2 0\nv 0 5 1\nv 9 9 9\nf 1 2 3\n"), BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// The unreferenced vertex 4 must not widen the box.
	if g.Bounds.Min != (mgl32.Vec3{-1, -2, 0}) || g.Bounds.Max != (mgl32.Vec3{3, 5, 2}) {
		t.Errorf("bounds = %+v", g.Bounds)
	}
	if g.Bounds.Center() != (mgl32.Vec3{1, 1.5, 1}) {
		t.Errorf("center = %v", g.Bounds.Center())
	}
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(parse(t, "v 0 0 0\n"), BuildOptions{})
	if KindOf(err) != KindEmptyGeometry {
		t.Errorf("expected empty geometry, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	dev := gputest.New()
	h, err := Load(dev, filepath.Join(t.TempDir(), "missing.obj"), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if KindOf(err) != KindFileNotFound {
		t.Errorf("kind = %s, want file not found", KindOf(err))
	}
	if h.Valid() || h != InvalidHandle {
		t.Errorf("expected InvalidHandle, got %+v", h)
	}
	if dev.Calls != 0 {
		t.Errorf("expected no GPU calls, got %d", dev.Calls)
	}
}

func TestLoad_Kinds(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		src  string
		kind Kind
	}{
		{"empty.obj", "# nothing\nv 0 0 0\n", KindEmptyGeometry},
		{"broken.obj", "v 0 0 zero\nf 1 1 1\n", KindParse},
		{"quad.obj", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n", KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			h, err := Load(dev, writeFile(t, dir, tt.name, tt.src), LoadOptions{})
			if got := KindOf(err); got != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", got, tt.kind, err)
			}
			if h.Valid() {
				t.Error("expected an invalid handle")
			}
			if dev.Calls != 0 {
				t.Errorf("expected no GPU calls, got %d", dev.Calls)
			}
		})
	}
}

func TestLoad_UploadsInterleavedBuffer(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", cubeFaceOBJ)
	writeFile(t, dir, "quad.mtl", quadMTL)

	dev := gputest.New()
	h, err := Load(dev, path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !h.Valid() {
		t.Fatal("expected a valid handle")
	}
	if h.VertexCount != 6 {
		t.Errorf("VertexCount = %d, want 6", h.VertexCount)
	}

	vao, ok := dev.VertexArrays[h.VAO]
	if !ok {
		t.Fatal("vertex array was not created")
	}
	if vao.VBO != h.VBO {
		t.Errorf("VAO wired to buffer %d, want %d", vao.VBO, h.VBO)
	}
	if vao.Stride != 44 {
		t.Errorf("stride = %d bytes, want 44", vao.Stride)
	}
	if len(dev.Buffers[h.VBO]) != 66 {
		t.Errorf("uploaded %d floats, want 66", len(dev.Buffers[h.VBO]))
	}
	if dev.BoundVertexArray() != 0 {
		t.Error("vertex array left bound after upload")
	}

	if h.Material == nil {
		t.Fatal("expected material from quad.mtl")
	}
	if h.Material.Name != "Brick" || h.Material.Shininess != 16 {
		t.Errorf("material = %+v", h.Material)
	}
	if h.Material.TexturePath != filepath.Join(dir, "brick.png") {
		t.Errorf("texture path = %q", h.Material.TexturePath)
	}

	vaoID, vboID := h.VAO, h.VBO
	h.Release(dev)
	if !dev.IsDeleted("vao", vaoID) || !dev.IsDeleted("vbo", vboID) {
		t.Errorf("release did not delete buffers: %v", dev.Deleted)
	}
	if h.Valid() {
		t.Error("handle should be invalid after Release")
	}
}

func TestLoad_MissingMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", cubeFaceOBJ)

	h, err := Load(gputest.New(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("a missing mtllib must not fail the load: %v", err)
	}
	if h.Material != nil {
		t.Errorf("expected no material, got %+v", h.Material)
	}
}

func TestLoad_RepeatedLoadsAreIndependent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	b := writeFile(t, dir, "b.obj", "v 5 5 5\nv 6 5 5\nv 5 6 5\nf 1 2 3\n")

	dev := gputest.New()
	ha1, err := Load(dev, a, LoadOptions{})
	if err != nil {
		t.Fatalf("Load a failed: %v", err)
	}
	hb, err := Load(dev, b, LoadOptions{})
	if err != nil {
		t.Fatalf("Load b failed: %v", err)
	}
	ha2, err := Load(dev, a, LoadOptions{})
	if err != nil {
		t.Fatalf("reload a failed: %v", err)
	}

	if !reflect.DeepEqual(dev.Buffers[ha1.VBO], dev.Buffers[ha2.VBO]) {
		t.Error("re-parsing the same file produced a different buffer")
	}
	// b's indices are 1..3 of its own table, not of a's.
	if dev.Buffers[hb.VBO][0] != 5 {
		t.Errorf("b's first vertex x = %v, want 5", dev.Buffers[hb.VBO][0])
	}
}
