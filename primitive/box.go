package primitive

import (
	"math"

	"github.com/gazed/rtracer/math3d"
)

// AABB is an axis-aligned bounding box, shared by Box and the k-d tree.
type AABB struct {
	Min, Max math3d.Vec3
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Empty returns an AABB with inverted bounds, suitable as a fold seed.
func Empty() AABB {
	inf := math.Inf(1)
	return AABB{Min: math3d.V3(inf, inf, inf), Max: math3d.V3(-inf, -inf, -inf)}
}

const slabParallelEps = 1e-10

// Slab intersects ray with the box and reports whether the intersection
// interval is non-empty and extends to t >= 0 (spec.md §4.2 "Ray-AABB
// slab test"). The interval starts as [tMin,tMax], so the returned
// [tNear,tFar] is already clipped to the caller's range.
func (b AABB) Slab(ray math3d.Ray, tMin, tMax float64) (float64, float64, bool) {
	tNear, tFar := tMin, tMax
	for axis := 0; axis < 3; axis++ {
		o := ray.Origin.Component(axis)
		d := ray.Dir.Component(axis)
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)
		if math.Abs(d) < slabParallelEps {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		invD := 1 / d
		t0 := (lo - o) * invD
		t1 := (hi - o) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}
	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// Box is an axis-aligned box, or, when Chain is set, a box transformed
// by an arbitrary affine (oriented box, spec.md §3/§4.1).
type Box struct {
	Center    math3d.Vec3
	HalfSize  math3d.Vec3
	MatID     int
	HasChain  bool
	Chain     math3d.Mat4 // local -> world
	ChainInv  math3d.Mat4 // world -> local
	NormalMat math3d.Mat4 // inverse-transpose of the rotation part, local -> world
}

// MaterialID implements Intersectable.
func (b Box) MaterialID() int { return b.MatID }

func (b Box) localBounds() AABB {
	return AABB{Min: b.Center.Sub(b.HalfSize), Max: b.Center.Add(b.HalfSize)}
}

// Hit runs the slab test directly when the box carries no transform,
// and otherwise transforms the ray into the box's local space, runs the
// slab test there, and maps the result back to world space (spec.md
// §4.1 "Box").
func (b Box) Hit(ray math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	if !b.HasChain {
		return b.hitLocal(ray, tMin, tMax, ray, identityNormal)
	}
	localRay := ray.Transform(b.ChainInv)
	return b.hitLocal(localRay, tMin, tMax, ray, func(n math3d.Vec3) math3d.Vec3 {
		return b.NormalMat.MulDir(n).Unit()
	})
}

var identityNormal = func(n math3d.Vec3) math3d.Vec3 { return n }

func (b Box) hitLocal(localRay math3d.Ray, tMin, tMax float64, worldRay math3d.Ray, normalToWorld func(math3d.Vec3) math3d.Vec3) (HitRecord, bool) {
	bounds := b.localBounds()
	tNear, axis, ok := slabWithFace(bounds, localRay, tMin, tMax)
	if !ok {
		return HitRecord{}, false
	}

	localNormal := axisNormal(axis, localRay.Dir.Component(axis))
	outward := normalToWorld(localNormal)

	var worldPoint math3d.Vec3
	if b.HasChain {
		worldPoint = b.Chain.MulPoint(localRay.At(tNear))
	} else {
		worldPoint = localRay.At(tNear)
	}

	worldT := tNear
	if b.HasChain {
		worldT = worldPoint.Sub(worldRay.Origin).Dot(worldRay.Dir)
	}

	rec := HitRecord{T: worldT, Point: worldPoint, MaterialID: b.MatID}
	FaceNormal(&rec, worldRay.Dir, outward)
	return rec, true
}

// slabWithFace runs the slab test and additionally reports which axis
// and sign produced the final tNear, so the caller can derive the face
// normal (spec.md §4.1: "the axis producing the final t_min carries the
// face normal").
func slabWithFace(b AABB, ray math3d.Ray, tMin, tMax float64) (tNear float64, axis int, ok bool) {
	tNear, tFar := tMin, tMax
	axis = -1
	for a := 0; a < 3; a++ {
		o := ray.Origin.Component(a)
		d := ray.Dir.Component(a)
		lo := b.Min.Component(a)
		hi := b.Max.Component(a)
		if math.Abs(d) < slabParallelEps {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		invD := 1 / d
		t0 := (lo - o) * invD
		t1 := (hi - o) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
			axis = a
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}
	if tFar < 0 || axis < 0 {
		return 0, 0, false
	}
	return tNear, axis, true
}

// axisNormal returns the unit outward normal for the face crossed on
// the given axis. Its sign is the opposite of the ray's direction
// component along that axis (spec.md §4.1 "Box").
func axisNormal(axis int, dirComponent float64) math3d.Vec3 {
	v := math3d.Vec3{}
	dir := 1.0
	if dirComponent > 0 {
		dir = -1.0
	}
	switch axis {
	case 0:
		v.X = dir
	case 1:
		v.Y = dir
	default:
		v.Z = dir
	}
	return v
}
