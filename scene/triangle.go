package scene

import (
	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/types"
)

// Minimum ray distance accepted by the triangle intersector. Intersections
// closer than this are discarded to avoid self-intersection with the surface
// the ray just left.
const intersectEpsilon float32 = 1e-5

// Triangle is a scene primitive. In addition to its vertices it stores the
// orthonormal tangent/bitangent/normal frame used by the integrator to move
// directions in and out of the local shading space, plus the index of the
// material covering the surface.
type Triangle struct {
	V0 types.Vec3
	V1 types.Vec3
	V2 types.Vec3

	Tangent   types.Vec3
	Bitangent types.Vec3
	Normal    types.Vec3

	Material uint32
}

// Construct a triangle from its vertices, deriving a geometric TBN frame.
func NewTriangle(v0, v1, v2 types.Vec3, material uint32) Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	normal := e1.Cross(e2).Normalize()
	tangent := e1.Normalize()
	bitangent := normal.Cross(tangent)

	return Triangle{
		V0:        v0,
		V1:        v1,
		V2:        v2,
		Tangent:   tangent,
		Bitangent: bitangent,
		Normal:    normal,
		Material:  material,
	}
}

// Get the axis-aligned bounding box of the triangle.
func (tr *Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(tr.V0, types.MinVec3(tr.V1, tr.V2)),
		types.MaxVec3(tr.V0, types.MaxVec3(tr.V1, tr.V2)),
	}
}

// Get the center of the triangle's bounding box.
func (tr *Triangle) Center() types.Vec3 {
	bbox := tr.BBox()
	return bbox[0].Add(bbox[1]).Mul(0.5)
}

// Intersect the triangle with a ray using the Moeller-Trumbore algorithm.
// Returns the distance along the ray direction and true on a hit.
func (tr *Triangle) Intersect(origin, dir types.Vec3) (float32, bool) {
	e1 := tr.V1.Sub(tr.V0)
	e2 := tr.V2.Sub(tr.V0)

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < intersectEpsilon {
		return 0, false
	}

	invDet := 1.0 / det
	t := origin.Sub(tr.V0)
	u := t.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := t.Cross(e1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := e2.Dot(q) * invDet
	if dist < intersectEpsilon {
		return 0, false
	}

	return dist, true
}
