package cpu

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/scene/compiler"
	"github.com/wubugui/epsilon/types"
)

// Compile a deterministic cloud of small random triangles.
func makeTriangleCloud(t *testing.T, count int) *scene.Scene {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	randVec := func(scale float32) types.Vec3 {
		return types.Vec3{
			(rng.Float32()*2 - 1) * scale,
			(rng.Float32()*2 - 1) * scale,
			(rng.Float32()*2 - 1) * scale,
		}
	}

	triangles := make([]scene.Triangle, count)
	for i := range triangles {
		center := randVec(5)
		triangles[i] = scene.NewTriangle(
			center.Add(randVec(0.5)),
			center.Add(randVec(0.5)),
			center.Add(randVec(0.5)),
			0,
		)
	}

	sc, err := compiler.Compile(triangles, scene.NewMaterialTable(nil), scene.NewCamera(45))
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

// Reference implementation: test the ray against every triangle.
func bruteForceIntersect(triangles []scene.Triangle, origin, dir types.Vec3) (Hit, bool) {
	best := Hit{Triangle: -1, Distance: math32.Inf(1)}
	for i := range triangles {
		if dist, ok := triangles[i].Intersect(origin, dir); ok && dist < best.Distance {
			best.Triangle = int32(i)
			best.Distance = dist
		}
	}
	return best, best.Triangle >= 0
}

func TestTraversalMatchesBruteForce(t *testing.T) {
	sc := makeTriangleCloud(t, 64)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		origin := types.Vec3{
			(rng.Float32()*2 - 1) * 8,
			(rng.Float32()*2 - 1) * 8,
			(rng.Float32()*2 - 1) * 8,
		}
		dir := types.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
		}.Normalize()
		if dir.Len() == 0 {
			continue
		}

		got, gotHit := intersectScene(sc.BvhNodes, sc.Triangles, origin, dir)
		exp, expHit := bruteForceIntersect(sc.Triangles, origin, dir)

		if gotHit != expHit {
			t.Fatalf("[ray %d] expected hit to be %t; got %t", i, expHit, gotHit)
		}
		if !gotHit {
			continue
		}

		// Front-to-back pruning must never settle on a farther
		// intersection than the brute force reference finds
		if got.Triangle != exp.Triangle {
			t.Fatalf("[ray %d] expected triangle %d; got %d", i, exp.Triangle, got.Triangle)
		}
		if math32.Abs(got.Distance-exp.Distance) > 1e-4 {
			t.Fatalf("[ray %d] expected distance %f; got %f", i, exp.Distance, got.Distance)
		}
	}
}

func TestTraversalClosestOfStack(t *testing.T) {
	// Three parallel quads; the ray must report the nearest one even
	// though all three are intersected.
	var triangles []scene.Triangle
	for i, z := range []float32{3, 1, 2} {
		triangles = append(triangles,
			scene.NewTriangle(
				types.Vec3{-2, -2, z},
				types.Vec3{2, -2, z},
				types.Vec3{0, 2, z},
				uint32(i),
			),
		)
	}

	sc, err := compiler.Compile(triangles, scene.NewMaterialTable(nil), scene.NewCamera(45))
	if err != nil {
		t.Fatal(err)
	}

	hit, ok := intersectScene(sc.BvhNodes, sc.Triangles, types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1})
	if !ok {
		t.Fatal("expected a hit")
	}
	if math32.Abs(hit.Distance-1) > 1e-5 {
		t.Fatalf("expected nearest hit at distance 1; got %f", hit.Distance)
	}
	if sc.Triangles[hit.Triangle].Material != 1 {
		t.Fatalf("expected the z=1 triangle; got material %d", sc.Triangles[hit.Triangle].Material)
	}
}

func TestTraversalMiss(t *testing.T) {
	sc := makeTriangleCloud(t, 16)

	// Aim well away from the cloud
	if _, ok := intersectScene(sc.BvhNodes, sc.Triangles, types.Vec3{100, 100, 100}, types.Vec3{0, 1, 0}); ok {
		t.Fatal("expected no hit for a ray missing all geometry")
	}
}

func TestTraversalEmptyScene(t *testing.T) {
	if _, ok := intersectScene(nil, nil, types.Vec3{}, types.Vec3{0, 0, 1}); ok {
		t.Fatal("expected no hit for an empty node array")
	}
}
