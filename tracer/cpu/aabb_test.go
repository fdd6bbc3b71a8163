package cpu

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/types"
)

func invDir(dir types.Vec3) types.Vec3 {
	return types.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
}

func TestIntersectAABB(t *testing.T) {
	bmin := types.Vec3{-1, -1, -1}
	bmax := types.Vec3{1, 1, 1}

	type spec struct {
		origin   types.Vec3
		dir      types.Vec3
		expHit   bool
		expEntry float32
		expExit  float32
	}
	specs := []spec{
		// Straight on along each axis
		{types.Vec3{0, 0, -3}, types.Vec3{0, 0, 1}, true, 2, 4},
		{types.Vec3{-4, 0, 0}, types.Vec3{1, 0, 0}, true, 3, 5},
		{types.Vec3{0, 5, 0}, types.Vec3{0, -1, 0}, true, 4, 6},
		// Ray starting inside: negative entry, positive exit
		{types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, true, -1, 1},
		// Ray parallel to a face, passing through the box (zero
		// direction components divide to +/-Inf)
		{types.Vec3{0, 0.5, -3}, types.Vec3{0, 0, 1}, true, 2, 4},
		// Ray parallel to a face, outside the slab
		{types.Vec3{0, 2, -3}, types.Vec3{0, 0, 1}, false, 0, 0},
		// Clean miss
		{types.Vec3{5, 5, -3}, types.Vec3{0, 0, 1}, false, 0, 0},
		// Box entirely behind the ray
		{types.Vec3{0, 0, 3}, types.Vec3{0, 0, 1}, false, 0, 0},
		// Diagonal hit through opposite corners
		{types.Vec3{-2, -2, -2}, types.Vec3{1, 1, 1}.Normalize(), true, math32.Sqrt(3), 3 * math32.Sqrt(3)},
	}

	for index, s := range specs {
		entry, exit, hit := intersectAABB(s.origin, invDir(s.dir), bmin, bmax)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if !hit {
			continue
		}
		if math32.Abs(entry-s.expEntry) > 1e-4 {
			t.Fatalf("[spec %d] expected entry distance %f; got %f", index, s.expEntry, entry)
		}
		if math32.Abs(exit-s.expExit) > 1e-4 {
			t.Fatalf("[spec %d] expected exit distance %f; got %f", index, s.expExit, exit)
		}
	}
}
