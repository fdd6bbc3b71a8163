package scene

import "github.com/wubugui/epsilon/types"

// The maximum supported BVH depth. It matches the traversal stack capacity
// used by the tracer; trees deeper than this must be rejected at build time
// as traversing them is undefined behavior.
const MaxBvhDepth = 24

// BvhNode is an entry in a flattened binary tree stored as a contiguous
// array. Nodes carry their bounding box plus four multipurpose data words:
//
//   - Data[2] == 0 marks a leaf; Data[0] holds the first triangle index and
//     Data[1] the triangle count.
//   - Data[2] > 0 marks an internal node; the left child is always stored
//     at index i+1 and the right child at index i+Data[2].
//
// Nodes are immutable once the scene is compiled.
type BvhNode struct {
	Min  types.Vec3
	Max  types.Vec3
	Data [4]uint32
}

// Set bounding box.
func (n *BvhNode) SetBBox(bbox [2]types.Vec3) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Set the offset to the right child, marking this node as internal.
func (n *BvhNode) SetRightChildOffset(offset uint32) {
	n.Data[2] = offset
}

// Set triangle index and count, marking this node as a leaf.
func (n *BvhNode) SetTriangles(firstTriIndex, count uint32) {
	n.Data[0] = firstTriIndex
	n.Data[1] = count
	n.Data[2] = 0
}

// Check whether this node is a leaf.
func (n *BvhNode) IsLeaf() bool {
	return n.Data[2] == 0
}

// Get the offset to the right child. Only valid for internal nodes.
func (n *BvhNode) RightChildOffset() uint32 {
	return n.Data[2]
}

// Get the first triangle index and triangle count. Only valid for leafs.
func (n *BvhNode) Triangles() (firstTriIndex, count uint32) {
	return n.Data[0], n.Data[1]
}
