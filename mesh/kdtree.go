package mesh

import (
	"math"
	"sort"

	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
)

// KdTree is an immutable spatial index over a Mesh's triangles
// (spec.md §3, §4.2). Nodes form a tree, not a graph: every child is
// uniquely owned by its parent, and leaf triangle indices are integer
// offsets into the owning Mesh's triangle slice.
type KdTree struct {
	root *kdNode
}

type kdNode struct {
	bounds primitive.AABB

	// internal node fields; leaf iff axis == leafAxis.
	axis  int
	split float64
	left  *kdNode
	right *kdNode

	// leaf node fields.
	tris []int
}

const leafAxis = -1

func (n *kdNode) isLeaf() bool { return n.axis == leafAxis }

// Params controls k-d tree build depth/fanout (spec.md §4.2
// "Recommended parameters").
type Params struct {
	MaxDepth   int
	MaxPerLeaf int
}

// ParamsFor returns the recommended (max_depth, max_per_leaf) for a
// mesh with the given triangle count (spec.md §4.2).
func ParamsFor(triCount int) Params {
	switch {
	case triCount < 100:
		return Params{MaxDepth: 8, MaxPerLeaf: 32}
	case triCount < 1000:
		return Params{MaxDepth: 12, MaxPerLeaf: 20}
	case triCount < 10000:
		return Params{MaxDepth: 16, MaxPerLeaf: 15}
	case triCount < 100000:
		return Params{MaxDepth: 20, MaxPerLeaf: 10}
	default:
		return Params{MaxDepth: 24, MaxPerLeaf: 8}
	}
}

const minAxisExtent = 1e-6

// BuildKdTree builds a k-d tree over tris (by index into the owning
// Mesh's triangle slice) using the given bounds and parameters.
func BuildKdTree(tris []Triangle, bounds primitive.AABB, params Params) *KdTree {
	indices := make([]int, len(tris))
	for i := range indices {
		indices[i] = i
	}
	return &KdTree{root: build(tris, indices, bounds, 0, params)}
}

func build(tris []Triangle, indices []int, bounds primitive.AABB, depth int, params Params) *kdNode {
	if depth >= params.MaxDepth || len(indices) <= params.MaxPerLeaf {
		return &kdNode{bounds: bounds, axis: leafAxis, tris: indices}
	}

	axis := chooseAxis(tris, indices, bounds, depth)
	split := chooseSplit(tris, indices, axis)

	var left, right []int
	for _, idx := range indices {
		b := tris[idx].Bounds()
		onLeft := b.Min.Component(axis) <= split
		onRight := b.Max.Component(axis) > split
		if onLeft {
			left = append(left, idx)
		}
		if onRight {
			right = append(right, idx)
		}
	}
	// Never produce an empty child (spec.md §4.2 step 5).
	if len(left) == 0 && len(right) > 0 {
		left = append(left, right[0])
	}
	if len(right) == 0 && len(left) > 0 {
		right = append(right, left[0])
	}

	leftBounds := boundsOf(tris, left)
	rightBounds := boundsOf(tris, right)

	return &kdNode{
		bounds: bounds,
		axis:   axis,
		split:  split,
		left:   build(tris, left, leftBounds, depth+1, params),
		right:  build(tris, right, rightBounds, depth+1, params),
	}
}

func boundsOf(tris []Triangle, indices []int) primitive.AABB {
	b := primitive.Empty()
	for _, idx := range indices {
		b = b.Union(tris[idx].Bounds())
	}
	return b
}

// chooseAxis picks the splitting axis: for |T| >= 8, the axis
// maximizing centroid variance (skipping axes whose extent is below
// 1e-6); otherwise cycles depth mod 3 (spec.md §4.2 step 2).
func chooseAxis(tris []Triangle, indices []int, bounds primitive.AABB, depth int) int {
	if len(indices) < 8 {
		return depth % 3
	}

	extent := bounds.Max.Sub(bounds.Min)
	bestAxis := -1
	bestVariance := -1.0
	for axis := 0; axis < 3; axis++ {
		if extent.Component(axis) < minAxisExtent {
			continue
		}
		mean := 0.0
		for _, idx := range indices {
			mean += tris[idx].Center().Component(axis)
		}
		mean /= float64(len(indices))
		variance := 0.0
		for _, idx := range indices {
			d := tris[idx].Center().Component(axis) - mean
			variance += d * d
		}
		if variance > bestVariance {
			bestVariance = variance
			bestAxis = axis
		}
	}
	if bestAxis < 0 {
		return depth % 3
	}
	return bestAxis
}

// chooseSplit picks the split position along axis: the median for
// |T| < 32, otherwise a simplified SAH evaluated at five percentile
// candidates (spec.md §4.2 step 3).
func chooseSplit(tris []Triangle, indices []int, axis int) float64 {
	centers := make([]float64, len(indices))
	for i, idx := range indices {
		centers[i] = tris[idx].Center().Component(axis)
	}
	sort.Float64s(centers)

	if len(indices) < 32 {
		return percentile(centers, 0.5)
	}

	candidates := []float64{0.25, 0.33, 0.50, 0.67, 0.75}
	totalExtent := extentOf(tris, indices, axis)

	bestSplit := percentile(centers, 0.5)
	bestCost := math.Inf(1)
	for _, q := range candidates {
		s := percentile(centers, q)
		cost := sahCost(tris, indices, axis, s, totalExtent)
		if cost < bestCost {
			bestCost = cost
			bestSplit = s
		}
	}
	return bestSplit
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func extentOf(tris []Triangle, indices []int, axis int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, idx := range indices {
		b := tris[idx].Bounds()
		if v := b.Min.Component(axis); v < lo {
			lo = v
		}
		if v := b.Max.Component(axis); v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return 1
	}
	return hi - lo
}

// sahCost scores a candidate split position using the simplified
// Surface-Area Heuristic of spec.md §4.2 step 3.
func sahCost(tris []Triangle, indices []int, axis int, s, totalExtent float64) float64 {
	var left, right int
	leftLo, leftHi := math.Inf(1), math.Inf(-1)
	rightLo, rightHi := math.Inf(1), math.Inf(-1)
	for _, idx := range indices {
		b := tris[idx].Bounds()
		if b.Min.Component(axis) <= s {
			left++
			if v := b.Min.Component(axis); v < leftLo {
				leftLo = v
			}
			if v := b.Max.Component(axis); v > leftHi {
				leftHi = v
			}
		}
		if b.Max.Component(axis) > s {
			right++
			if v := b.Min.Component(axis); v < rightLo {
				rightLo = v
			}
			if v := b.Max.Component(axis); v > rightHi {
				rightHi = v
			}
		}
	}
	leftExtent := 0.0
	if leftHi > leftLo {
		leftExtent = leftHi - leftLo
	}
	rightExtent := 0.0
	if rightHi > rightLo {
		rightExtent = rightHi - rightLo
	}
	return 1 + (leftExtent/totalExtent)*float64(left) + (rightExtent/totalExtent)*float64(right)
}

// Bounds returns the tree's root bounding box.
func (k *KdTree) Bounds() primitive.AABB { return k.root.bounds }

// Visitor receives candidate triangle index slices for each leaf the
// ray can enter, in near-to-far order, and the current closest-hit t
// found so far (the tMax passed to Traverse if none yet). It returns the (possibly
// narrowed) closest-hit t and whether traversal should stop entirely
// (spec.md §4.2 "the callback uses the current best t ... callers may
// terminate early").
type Visitor func(triIndices []int, tMax float64) (newTMax float64, stop bool)

// Traverse walks the tree from the root, invoking visit for every leaf
// the ray can enter, in near-to-far order, pruning subtrees that
// cannot contain anything closer than the current best hit (spec.md
// §4.2 "Traversal").
func (k *KdTree) Traverse(ray math3d.Ray, tMin, tMax float64, visit Visitor) {
	if k.root == nil {
		return
	}
	traverseNode(k.root, ray, tMin, tMax, visit)
}

func traverseNode(n *kdNode, ray math3d.Ray, tMin, tMax float64, visit Visitor) (float64, bool) {
	if n == nil {
		return tMax, false
	}
	if _, _, ok := n.bounds.Slab(ray, tMin, tMax); !ok {
		return tMax, false
	}
	if n.isLeaf() {
		if len(n.tris) == 0 {
			return tMax, false
		}
		return visit(n.tris, tMax)
	}

	originA := ray.Origin.Component(n.axis)
	dirA := ray.Dir.Component(n.axis)

	var near, far *kdNode
	nearIsLeft := originA <= n.split
	if nearIsLeft {
		near, far = n.left, n.right
	} else {
		near, far = n.right, n.left
	}

	if math.Abs(dirA) < 1e-10 {
		// Ray parallel to the split plane: descend only into the side
		// containing the origin (spec.md §4.2 "Traversal").
		return traverseNode(near, ray, tMin, tMax, visit)
	}

	newTMax, stop := traverseNode(near, ray, tMin, tMax, visit)
	if stop {
		return newTMax, true
	}

	tSplit := (n.split - originA) / dirA
	if tSplit < 0 || tSplit >= newTMax {
		// The far side starts beyond the current closest hit (or
		// behind the ray): nothing there can be closer.
		return newTMax, false
	}
	return traverseNode(far, ray, tMin, newTMax, visit)
}
