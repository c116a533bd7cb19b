// Package primitive implements the geometric primitives (sphere, plane,
// box) and the World container (spec.md §4.1, §4.4).
package primitive

import "github.com/gazed/rtracer/math3d"

// HitRecord describes a ray/surface intersection.
type HitRecord struct {
	T          float64
	Point      math3d.Vec3
	Normal     math3d.Vec3 // always oriented against the incoming ray
	FrontFace  bool
	MaterialID int
	HasUV      bool
	U, V       float64
}

// FaceNormal sets Normal/FrontFace so the stored normal always opposes
// the ray direction, per spec.md §3.
func FaceNormal(rec *HitRecord, rayDir, outwardNormal math3d.Vec3) {
	rec.FrontFace = rayDir.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}

// Intersectable is implemented by every renderable object.
type Intersectable interface {
	Hit(ray math3d.Ray, tMin, tMax float64) (HitRecord, bool)
	MaterialID() int
}
