// Package mesh implements the immutable triangle mesh container, its
// k-d tree spatial index, and the Object adapter that exposes a mesh as
// a primitive.Intersectable (spec.md §3, §4.2, §4.3).
package mesh

import (
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
)

// Triangle is three vertex points and a stored face normal. The face
// normal is what the source file (e.g. an STL facet) recorded; the hit
// test computes its own geometric normal from the vertex winding and
// only consults FaceNormal for degenerate cases (see Hit).
type Triangle struct {
	V0, V1, V2 math3d.Vec3
	FaceNormal math3d.Vec3
}

// NewTriangle builds a Triangle, computing its face normal from the
// vertex winding (e1 x e2).
func NewTriangle(v0, v1, v2 math3d.Vec3) Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	return Triangle{V0: v0, V1: v1, V2: v2, FaceNormal: e1.Cross(e2).Unit()}
}

// Bounds returns the triangle's axis-aligned bounding box.
func (t Triangle) Bounds() primitive.AABB {
	min := t.V0.Min(t.V1).Min(t.V2)
	max := t.V0.Max(t.V1).Max(t.V2)
	return primitive.AABB{Min: min, Max: max}
}

// Center returns the triangle's centroid, used by the k-d tree build.
func (t Triangle) Center() math3d.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Scale(1.0 / 3.0)
}

const (
	triDetEps    = 1e-10
	triNormalEps = 1e-16
)

// Hit implements Möller–Trumbore ray-triangle intersection (spec.md
// §4.1). A zero-area or edge-grazing triangle silently misses rather
// than producing a NaN normal.
func (t Triangle) Hit(ray math3d.Ray, tMin, tMax float64) (primitive.HitRecord, bool) {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	h := ray.Dir.Cross(e2)
	det := e1.Dot(h)
	if det > -triDetEps && det < triDetEps {
		return primitive.HitRecord{}, false
	}
	invDet := 1 / det

	s := ray.Origin.Sub(t.V0)
	u := s.Dot(h) * invDet
	if u < 0 || u > 1 {
		return primitive.HitRecord{}, false
	}

	q := s.Cross(e1)
	v := ray.Dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return primitive.HitRecord{}, false
	}

	tHit := e2.Dot(q) * invDet
	if tHit <= tMin || tHit >= tMax {
		return primitive.HitRecord{}, false
	}

	normal, ok := t.geometricNormal(e1, e2, det)
	if !ok {
		return primitive.HitRecord{}, false
	}

	rec := primitive.HitRecord{T: tHit, Point: ray.At(tHit), HasUV: true, U: u, V: v}
	primitive.FaceNormal(&rec, ray.Dir, normal)
	return rec, true
}

// geometricNormal computes the face normal from the edge vectors,
// flipped to face the ray when det < 0. If the winding is degenerate
// (near-zero area), it falls back to the triangle's stored FaceNormal;
// if that is also degenerate, the second return is false.
func (t Triangle) geometricNormal(e1, e2 math3d.Vec3, det float64) (math3d.Vec3, bool) {
	n := e1.Cross(e2)
	if n.LenSq() < triNormalEps {
		if t.FaceNormal.LenSq() < triNormalEps {
			return math3d.Vec3{}, false
		}
		return t.FaceNormal, true
	}
	n = n.Unit()
	if det < 0 {
		n = n.Neg()
	}
	return n, true
}
