package primitive

import (
	"math"

	"github.com/gazed/rtracer/math3d"
)

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
	MatID  int
}

// MaterialID implements Intersectable.
func (p Plane) MaterialID() int { return p.MatID }

const planeParallelEps = 1e-8

// Hit implements the ray/plane test of spec.md §4.1, including the
// (u,v) projection onto an orthonormal in-plane basis.
func (p Plane) Hit(ray math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	denom := p.Normal.Dot(ray.Dir)
	if math.Abs(denom) < planeParallelEps {
		return HitRecord{}, false
	}
	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return HitRecord{}, false
	}

	hitPoint := ray.At(t)
	basisU, basisV := planeBasis(p.Normal)
	local := hitPoint.Sub(p.Point)

	rec := HitRecord{T: t, Point: hitPoint, MaterialID: p.MatID}
	FaceNormal(&rec, ray.Dir, p.Normal)
	rec.HasUV = true
	rec.U = local.Dot(basisU)
	rec.V = local.Dot(basisV)
	return rec, true
}

// planeBasis builds an orthonormal in-plane basis, avoiding degeneracy
// when the normal is close to the X axis (spec.md §4.1).
func planeBasis(n math3d.Vec3) (u, v math3d.Vec3) {
	ref := math3d.V3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		ref = math3d.V3(0, 1, 0)
	}
	u = ref.Cross(n).Unit()
	v = n.Cross(u)
	return u, v
}
