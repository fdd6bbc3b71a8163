package cpu

import "github.com/wubugui/epsilon/types"

// Slab test for a ray against an axis-aligned box. The caller supplies the
// precomputed reciprocal direction; components of a zero direction divide to
// +/-Inf which the min/max reduction below handles without branching.
//
// Returns the signed entry/exit distances along the ray. The distances are
// only meaningful when hit is true.
func intersectAABB(origin, invDir, bmin, bmax types.Vec3) (entry, exit float32, hit bool) {
	for axis := 0; axis < 3; axis++ {
		t1 := (bmin[axis] - origin[axis]) * invDir[axis]
		t2 := (bmax[axis] - origin[axis]) * invDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if axis == 0 {
			entry, exit = t1, t2
			continue
		}
		if t1 > entry {
			entry = t1
		}
		if t2 < exit {
			exit = t2
		}
	}

	return entry, exit, entry <= exit && exit > 0
}
