package mesh

import "github.com/gazed/rtracer/primitive"

// Mesh is an immutable triangle soup plus its spatial index (spec.md
// §3). Once built, a Mesh is never mutated, so it is safe to share
// across the render worker pool without locking.
type Mesh struct {
	Triangles []Triangle
	bounds    primitive.AABB
	tree      *KdTree
}

// NewMesh builds a Mesh from the given triangles, computing its
// overall bounds and k-d tree index using the recommended parameters
// for the triangle count (spec.md §4.2).
func NewMesh(tris []Triangle) *Mesh {
	bounds := primitive.Empty()
	for _, t := range tris {
		bounds = bounds.Union(t.Bounds())
	}
	params := ParamsFor(len(tris))
	return &Mesh{
		Triangles: tris,
		bounds:    bounds,
		tree:      BuildKdTree(tris, bounds, params),
	}
}

// Bounds returns the mesh's overall axis-aligned bounding box.
func (m *Mesh) Bounds() primitive.AABB { return m.bounds }

// Stats reports k-d tree shape for diagnostics (supplemented feature,
// SPEC_FULL.md "Supplemented features": ported from original_source/'s
// debug_kdtree.rs).
type Stats struct {
	NodeCount   int
	LeafCount   int
	MaxDepth    int
	TriRefCount int
}

// Stats walks the tree and reports its shape.
func (m *Mesh) Stats() Stats {
	var s Stats
	var walk func(n *kdNode, depth int)
	walk = func(n *kdNode, depth int) {
		if n == nil {
			return
		}
		s.NodeCount++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if n.isLeaf() {
			s.LeafCount++
			s.TriRefCount += len(n.tris)
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(m.tree.root, 0)
	return s
}
