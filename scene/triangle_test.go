package scene

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/types"
)

func TestTriangleIntersect(t *testing.T) {
	tri := NewTriangle(
		types.Vec3{-1, -1, 0},
		types.Vec3{1, -1, 0},
		types.Vec3{0, 1, 0},
		0,
	)

	type spec struct {
		origin  types.Vec3
		dir     types.Vec3
		expHit  bool
		expDist float32
	}
	specs := []spec{
		// Straight on through the centroid
		{types.Vec3{0, 0, -2}, types.Vec3{0, 0, 1}, true, 2},
		// Oblique hit
		{types.Vec3{0, 0, -1}, types.Vec3{0, 0.2, 1}, true, 0},
		// Miss to the side
		{types.Vec3{5, 0, -2}, types.Vec3{0, 0, 1}, false, 0},
		// Parallel to the triangle plane
		{types.Vec3{0, 0, -1}, types.Vec3{1, 0, 0}, false, 0},
		// Behind the origin
		{types.Vec3{0, 0, 2}, types.Vec3{0, 0, 1}, false, 0},
	}

	for index, s := range specs {
		dist, hit := tri.Intersect(s.origin, s.dir.Normalize())
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && s.expDist > 0 && math32.Abs(dist-s.expDist) > 1e-4 {
			t.Fatalf("[spec %d] expected hit distance %f; got %f", index, s.expDist, dist)
		}
	}
}

func TestTriangleFrame(t *testing.T) {
	tri := NewTriangle(
		types.Vec3{0, 0, 0},
		types.Vec3{1, 0, 0},
		types.Vec3{0, 1, 0},
		0,
	)

	if !types.ApproxEqual(tri.Normal, types.Vec3{0, 0, 1}, 1e-6) {
		t.Fatalf("expected normal to be +z; got %v", tri.Normal)
	}

	// TBN must be orthonormal
	if math32.Abs(tri.Tangent.Dot(tri.Bitangent)) > 1e-6 ||
		math32.Abs(tri.Tangent.Dot(tri.Normal)) > 1e-6 ||
		math32.Abs(tri.Bitangent.Dot(tri.Normal)) > 1e-6 {
		t.Fatalf("expected orthogonal TBN frame; got T=%v B=%v N=%v", tri.Tangent, tri.Bitangent, tri.Normal)
	}
	if math32.Abs(tri.Tangent.Len()-1) > 1e-5 || math32.Abs(tri.Bitangent.Len()-1) > 1e-5 {
		t.Fatalf("expected unit length TBN vectors")
	}
}

func TestTriangleBBox(t *testing.T) {
	tri := NewTriangle(
		types.Vec3{-1, 2, 0},
		types.Vec3{3, -2, 1},
		types.Vec3{0, 0, -4},
		0,
	)

	bbox := tri.BBox()
	if !types.ApproxEqual(bbox[0], types.Vec3{-1, -2, -4}, 0) {
		t.Fatalf("expected bbox min [-1 -2 -4]; got %v", bbox[0])
	}
	if !types.ApproxEqual(bbox[1], types.Vec3{3, 2, 1}, 0) {
		t.Fatalf("expected bbox max [3 2 1]; got %v", bbox[1])
	}
	if !types.ApproxEqual(tri.Center(), types.Vec3{1, 0, -1.5}, 1e-6) {
		t.Fatalf("expected center [1 0 -1.5]; got %v", tri.Center())
	}
}
