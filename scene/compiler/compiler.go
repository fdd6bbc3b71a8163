package compiler

import (
	"github.com/wubugui/epsilon/log"
	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/scene/compiler/bvh"
)

// The minimum number of triangles that are packed into a single BVH leaf.
const minTrianglesPerLeaf = 4

var logger = log.New("compiler")

// Compile the triangle soup into a kernel-ready scene: partition the
// triangles into a flattened BVH and emit them in leaf order so that each
// leaf references a contiguous triangle range.
func Compile(triangles []scene.Triangle, materials *scene.MaterialTable, camera *scene.Camera) (*scene.Scene, error) {
	workList := make([]bvh.BoundedVolume, len(triangles))
	for index := range triangles {
		workList[index] = &triangles[index]
	}

	ordered := make([]scene.Triangle, 0, len(triangles))
	nodes, err := bvh.Build(workList, minTrianglesPerLeaf, func(leaf *scene.BvhNode, itemList []bvh.BoundedVolume) {
		first := uint32(len(ordered))
		for _, item := range itemList {
			ordered = append(ordered, *item.(*scene.Triangle))
		}
		leaf.SetTriangles(first, uint32(len(itemList)))
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("compiled scene: %d triangles, %d bvh nodes, %d materials", len(ordered), len(nodes), materials.Count())

	sc := &scene.Scene{
		BvhNodes:  nodes,
		Triangles: ordered,
		Materials: materials,
		Camera:    camera,
	}
	return sc, sc.Validate()
}
