package bvh

import (
	"fmt"
	"sort"
	"time"

	"github.com/chewxy/math32"

	"github.com/wubugui/epsilon/log"
	"github.com/wubugui/epsilon/scene"
	"github.com/wubugui/epsilon/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// The BoundedVolume interface is implemented by all primitives that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A callback that is called whenever the BVH builder creates a new leaf.
// The callback is expected to emit the leaf's primitives in traversal order
// and fill in the leaf's triangle range.
type LeafCallback func(leaf *scene.BvhNode, itemList []BoundedVolume)

type stats struct {
	nodes    int
	leafs    int
	maxDepth int
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list.
	nodes []scene.BvhNode

	// A callback invoked to set up BVH leafs for partitioned volumes.
	leafCb LeafCallback

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	stats stats
}

// Construct a BVH from a set of bounded volumes, emitting the flattened node
// layout consumed by the tracer: the left child of node i is stored at i+1
// and the right child at i+Data[2].
//
// The builder splits each work list at the median of its longest bounding
// box axis. The minLeafItems param specifies the minimum number of items
// that can form a leaf.
//
// Build fails if the resulting tree exceeds the depth supported by the
// traversal stack; deep trees must be rejected here as traversing them is
// undefined behavior.
func Build(workList []BoundedVolume, minLeafItems int, leafCb LeafCallback) ([]scene.BvhNode, error) {
	if minLeafItems < 1 {
		minLeafItems = 1
	}

	b := &builder{
		logger:       log.New("bvh"),
		nodes:        make([]scene.BvhNode, 0, 2*len(workList)),
		leafCb:       leafCb,
		minLeafItems: minLeafItems,
	}

	start := time.Now()
	b.partition(workList, 0)

	if b.stats.maxDepth >= scene.MaxBvhDepth {
		return nil, fmt.Errorf("bvh: tree depth %d exceeds the supported maximum of %d", b.stats.maxDepth+1, scene.MaxBvhDepth)
	}

	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes, nil
}

// Partition the worklist and return the index of the generated node.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	node := scene.BvhNode{
		Min: types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, item := range workList {
		itemBBox := item.BBox()
		node.Min = types.MinVec3(node.Min, itemBBox[0])
		node.Max = types.MaxVec3(node.Max, itemBBox[1])
	}

	nodeIndex := uint32(len(b.nodes))
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	if len(workList) <= b.minLeafItems {
		b.makeLeaf(nodeIndex, workList)
		return nodeIndex
	}

	// Median split along the longest axis of the node bbox
	side := node.Max.Sub(node.Min)
	axis := XAxis
	if side[1] > side[0] && side[1] >= side[2] {
		axis = YAxis
	} else if side[2] > side[0] && side[2] > side[1] {
		axis = ZAxis
	}

	sorted := make([]BoundedVolume, len(workList))
	copy(sorted, workList)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Center()[axis] < sorted[j].Center()[axis]
	})

	mid := len(sorted) / 2
	b.partition(sorted[:mid], depth+1)
	rightIndex := b.partition(sorted[mid:], depth+1)
	b.nodes[nodeIndex].SetRightChildOffset(rightIndex - nodeIndex)

	return nodeIndex
}

// Set up a leaf node for the given items.
func (b *builder) makeLeaf(nodeIndex uint32, workList []BoundedVolume) {
	b.stats.leafs++
	b.leafCb(&b.nodes[nodeIndex], workList)
}
