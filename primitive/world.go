package primitive

import "github.com/gazed/rtracer/math3d"

// World is a heterogeneous, insertion-ordered list of intersectables
// (spec.md §4.4). It holds no spatial structure above the mesh level.
type World struct {
	Objects []Intersectable
}

// Add appends an object to the world.
func (w *World) Add(o Intersectable) { w.Objects = append(w.Objects, o) }

// Hit iterates the world in insertion order, narrowing tMax to the
// closest hit found so far, and returns the nearest hit overall.
func (w *World) Hit(ray math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	var best HitRecord
	hitAny := false
	closest := tMax
	for _, obj := range w.Objects {
		if rec, ok := obj.Hit(ray, tMin, closest); ok {
			hitAny = true
			closest = rec.T
			best = rec
		}
	}
	return best, hitAny
}
