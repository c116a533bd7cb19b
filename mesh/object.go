package mesh

import (
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
	"github.com/gazed/rtracer/transform"
)

// Object adapts a Mesh into a primitive.Intersectable: it places the
// mesh's local-space triangles into the world via an optional
// transform.Chain, tests the root bounding box first, then either
// walks the k-d tree or brute-forces every triangle (spec.md §4.3;
// brute force is a supplemented diagnostic/fallback traversal mode,
// SPEC_FULL.md "Supplemented features").
type Object struct {
	Name       string
	Mesh       *Mesh
	MatID      int
	HasChain   bool
	Chain      transform.Chain
	BruteForce bool
}

// MaterialID implements primitive.Intersectable.
func (o Object) MaterialID() int { return o.MatID }

// Hit transforms ray into the mesh's local space (if the object
// carries a transform), rejects against the root bounding box, then
// finds the nearest triangle hit via the k-d tree or brute force.
func (o Object) Hit(ray math3d.Ray, tMin, tMax float64) (primitive.HitRecord, bool) {
	localRay := ray
	if o.HasChain {
		localRay = math3d.Ray{
			Origin: o.Chain.Inverse.MulPoint(ray.Origin),
			Dir:    o.Chain.Inverse.MulDir(ray.Dir),
		}
	}

	if _, _, ok := o.Mesh.Bounds().Slab(localRay, tMin, tMax); !ok {
		return primitive.HitRecord{}, false
	}

	var best primitive.HitRecord
	found := false
	closest := tMax

	test := func(idx int) {
		tri := o.Mesh.Triangles[idx]
		if rec, ok := tri.Hit(localRay, tMin, closest); ok {
			found = true
			closest = rec.T
			best = rec
		}
	}

	if o.BruteForce {
		for i := range o.Mesh.Triangles {
			test(i)
		}
	} else {
		o.Mesh.tree.Traverse(localRay, tMin, closest, func(triIndices []int, tMax float64) (float64, bool) {
			closest = tMax
			for _, idx := range triIndices {
				test(idx)
			}
			return closest, false
		})
	}

	if !found {
		return primitive.HitRecord{}, false
	}

	if !o.HasChain {
		best.MaterialID = o.MatID
		return best, true
	}

	worldPoint := o.Chain.Point(localRay.At(best.T))
	worldNormal := o.Chain.Normal(best.Normal)

	rec := primitive.HitRecord{
		T:     distanceAlong(ray, worldPoint),
		Point: worldPoint,
		HasUV: best.HasUV, U: best.U, V: best.V,
	}
	primitive.FaceNormal(&rec, ray.Dir, worldNormal)
	rec.MaterialID = o.MatID
	return rec, true
}

// distanceAlong recovers the world-space ray parameter t for a point
// known to lie on ray, used after a local-space hit is mapped back to
// world space. Hit does not renormalize the local-space direction, so
// this equals the local t up to rounding.
func distanceAlong(ray math3d.Ray, worldPoint math3d.Vec3) float64 {
	// ray.Dir is unit length (math3d.NewRay normalizes), so the
	// projection of the offset onto it is the ray parameter.
	return worldPoint.Sub(ray.Origin).Dot(ray.Dir)
}
