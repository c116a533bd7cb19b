package primitive

import (
	"math"

	"github.com/gazed/rtracer/math3d"
)

// Sphere is a ray-intersectable sphere (spec.md §4.1).
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	MatID    int
}

// MaterialID implements Intersectable.
func (s Sphere) MaterialID() int { return s.MatID }

// Hit solves the quadratic |o + t*d - c|^2 = r^2, preferring the
// smaller positive root in [tMin, tMax] and falling back to the larger
// root (spec.md §4.1).
func (s Sphere) Hit(ray math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return HitRecord{}, false
	}
	sqrtDisc := math.Sqrt(disc)

	root := (-halfB - sqrtDisc) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtDisc) / a
		if root < tMin || root > tMax {
			return HitRecord{}, false
		}
	}

	p := ray.At(root)
	outward := p.Sub(s.Center).Scale(1 / s.Radius)
	rec := HitRecord{T: root, Point: p, MaterialID: s.MatID}
	FaceNormal(&rec, ray.Dir, outward)
	rec.HasUV, rec.U, rec.V = true, sphereU(outward), sphereV(outward)
	return rec, true
}

func sphereU(n math3d.Vec3) float64 {
	return (math.Atan2(n.Z, n.X) + math.Pi) / (2 * math.Pi)
}

func sphereV(n math3d.Vec3) float64 {
	return math.Acos(clampUnit(n.Y)) / math.Pi
}

func clampUnit(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
