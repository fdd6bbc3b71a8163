package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wubugui/epsilon/scene"
)

const testObj = `
mtllib scene.mtl
o quad
v -1.0 0.0 -1.0
v 1.0 0.0 -1.0
v 1.0 0.0 1.0
v -1.0 0.0 1.0
usemtl white
f 1 2 3 4
o lamp
v -0.5 1.9 -0.5
v 0.5 1.9 -0.5
v 0.0 1.9 0.5
usemtl lamp
f 5 6 7
`

const testMtl = `
newmtl white
Kd 0.9 0.9 0.9
newmtl lamp
Kd 0.0 0.0 0.0
Ke 5.0 5.0 5.0
`

func TestReadScene(t *testing.T) {
	dir := t.TempDir()
	objFile := filepath.Join(dir, "scene.obj")
	mtlFile := filepath.Join(dir, "scene.mtl")

	if err := os.WriteFile(objFile, []byte(testObj), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mtlFile, []byte(testMtl), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := ReadScene(objFile)
	if err != nil {
		t.Fatal(err)
	}

	// The quad triangulates into 2 triangles plus the lamp triangle
	if len(sc.Triangles) != 3 {
		t.Fatalf("expected 3 triangles; got %d", len(sc.Triangles))
	}

	// Ambient medium plus the two obj materials
	if sc.Materials.Count() != 3 {
		t.Fatalf("expected 3 material entries; got %d", sc.Materials.Count())
	}

	if len(sc.BvhNodes) == 0 {
		t.Fatal("expected a non-empty bvh")
	}

	if sc.Camera == nil {
		t.Fatal("expected a default camera to be attached")
	}

	// The diffuse reflectance of the white material must survive the
	// conversion into the renderer's material model
	var foundDiffuse bool
	for index := 0; index < sc.Materials.Count(); index++ {
		if sc.Materials.Material(uint32(index)).Reflectance > 0.5 {
			foundDiffuse = true
		}
	}
	if !foundDiffuse {
		t.Fatal("expected the white material to keep its reflectance")
	}
}

// Faces whose material has no mtl definition must not reference the ambient
// slot; they get a usable fallback diffuse instead.
func TestReadSceneUndefinedMaterial(t *testing.T) {
	obj := `
mtllib scene.mtl
v -1.0 0.0 -1.0
v 1.0 0.0 -1.0
v 0.0 1.0 0.0
usemtl missing
f 1 2 3
`
	mtl := `
newmtl unrelated
Kd 0.2 0.2 0.2
`
	dir := t.TempDir()
	objFile := filepath.Join(dir, "scene.obj")
	if err := os.WriteFile(objFile, []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(mtl), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := ReadScene(objFile)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Triangles) != 1 {
		t.Fatalf("expected 1 triangle; got %d", len(sc.Triangles))
	}

	materialId := sc.Triangles[0].Material
	if materialId == scene.AmbientMedium {
		t.Fatal("expected the triangle not to reference the ambient medium slot")
	}
	if reflectance := sc.Materials.Material(materialId).Reflectance; reflectance <= 0 {
		t.Fatalf("expected the fallback material to be a usable diffuse; reflectance %f", reflectance)
	}
}

func TestReadSceneMissingFile(t *testing.T) {
	if _, err := ReadScene("does-not-exist.obj"); err == nil {
		t.Fatal("expected an error for a missing scene file")
	}
}
