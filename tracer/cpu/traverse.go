package cpu

import (
	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/types"
)

// Capacity of the traversal stack. This is a hard bound on the supported
// BVH depth: the scene compiler rejects deeper trees at build time, and
// traversing one anyway is undefined behavior.
const traversalStackSize = scene.MaxBvhDepth

// A transient record of a node scheduled for traversal together with the
// ray distance at which its bounding box was entered.
type traversalFrame struct {
	node  int32
	entry float32
}

// Hit identifies the closest intersected triangle for a traversal query.
type Hit struct {
	Triangle int32
	Distance float32
}

// Find the closest triangle intersected by the given ray, walking the
// flattened BVH depth-first with an explicit frame stack.
//
// Children are visited front to back: when both child boxes are hit the
// farther child is pushed first so the nearer one is explored first, which
// tightens the best-hit distance and lets whole subtrees be pruned when
// their recorded entry distance can no longer beat it.
func intersectScene(nodes []scene.BvhNode, triangles []scene.Triangle, origin, dir types.Vec3) (Hit, bool) {
	if len(nodes) == 0 {
		return Hit{}, false
	}

	invDir := types.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}

	var stack [traversalStackSize]traversalFrame
	stack[0] = traversalFrame{node: 0, entry: math32.Inf(-1)}
	sp := 1

	best := Hit{Triangle: -1, Distance: math32.Inf(1)}

	for sp > 0 {
		sp--
		frame := stack[sp]

		// Prune subtrees that can no longer produce a closer hit
		if frame.entry > best.Distance {
			continue
		}

		node := &nodes[frame.node]
		if node.IsLeaf() {
			first, count := node.Triangles()
			for i := first; i < first+count; i++ {
				if dist, ok := triangles[i].Intersect(origin, dir); ok && dist < best.Distance {
					best.Triangle = int32(i)
					best.Distance = dist
				}
			}
			continue
		}

		left := frame.node + 1
		right := frame.node + int32(node.RightChildOffset())

		leftNode := &nodes[left]
		rightNode := &nodes[right]
		lEntry, _, lHit := intersectAABB(origin, invDir, leftNode.Min, leftNode.Max)
		rEntry, _, rHit := intersectAABB(origin, invDir, rightNode.Min, rightNode.Max)

		switch {
		case lHit && rHit:
			// Push the farther child first so the nearer pops first
			if lEntry <= rEntry {
				stack[sp] = traversalFrame{node: right, entry: rEntry}
				stack[sp+1] = traversalFrame{node: left, entry: lEntry}
			} else {
				stack[sp] = traversalFrame{node: left, entry: lEntry}
				stack[sp+1] = traversalFrame{node: right, entry: rEntry}
			}
			sp += 2
		case lHit:
			stack[sp] = traversalFrame{node: left, entry: lEntry}
			sp++
		case rHit:
			stack[sp] = traversalFrame{node: right, entry: rEntry}
			sp++
		}
	}

	return best, best.Triangle >= 0
}
