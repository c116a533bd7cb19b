package primitive

import (
	"math"
	"testing"

	"github.com/gazed/rtracer/math3d"
)

func TestSphereHitCentered(t *testing.T) {
	s := Sphere{Center: math3d.V3(0, 0, 0), Radius: 1}
	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	rec, ok := s.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if !aeq(rec.T, 4) {
		t.Errorf("T: got %v want 4", rec.T)
	}
	if !rec.Normal.Aeq(math3d.V3(0, 0, 1)) {
		t.Errorf("Normal: got %v want (0,0,1)", rec.Normal)
	}
	if !rec.FrontFace {
		t.Errorf("expected front face")
	}
}

func TestSphereMiss(t *testing.T) {
	s := Sphere{Center: math3d.V3(10, 10, 10), Radius: 1}
	ray := math3d.NewRay(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1))
	if _, ok := s.Hit(ray, 0.001, math.Inf(1)); ok {
		t.Fatal("expected miss")
	}
}

func TestPlaneHit(t *testing.T) {
	p := Plane{Point: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 1, 0)}
	ray := math3d.NewRay(math3d.V3(0, 5, 0), math3d.V3(0, -1, 0))
	rec, ok := p.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if !aeq(rec.T, 5) {
		t.Errorf("T: got %v want 5", rec.T)
	}
}

func TestPlaneParallelMiss(t *testing.T) {
	p := Plane{Point: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 1, 0)}
	ray := math3d.NewRay(math3d.V3(0, 5, 0), math3d.V3(1, 0, 0))
	if _, ok := p.Hit(ray, 0.001, math.Inf(1)); ok {
		t.Fatal("expected parallel miss")
	}
}

func TestBoxAxisAlignedHit(t *testing.T) {
	b := Box{Center: math3d.V3(0, 0, 0), HalfSize: math3d.V3(1, 1, 1)}
	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	rec, ok := b.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if !aeq(rec.T, 4) {
		t.Errorf("T: got %v want 4", rec.T)
	}
	if !rec.Normal.Aeq(math3d.V3(0, 0, 1)) {
		t.Errorf("Normal: got %v want (0,0,1)", rec.Normal)
	}
}

func TestBoxOrientedMatchesAxisAligned(t *testing.T) {
	// spec.md §8: a Cube with no transform must agree between the
	// oriented-box and axis-aligned code paths up to 1e-10.
	identity := math3d.Identity4()
	aabb := Box{Center: math3d.V3(1, 2, 3), HalfSize: math3d.V3(2, 1, 1)}
	oriented := Box{
		Center: math3d.V3(1, 2, 3), HalfSize: math3d.V3(2, 1, 1),
		HasChain: true, Chain: identity, ChainInv: identity, NormalMat: identity,
	}
	ray := math3d.NewRay(math3d.V3(1, 2, 10), math3d.V3(0, 0, -1))
	r1, ok1 := aabb.Hit(ray, 0.001, math.Inf(1))
	r2, ok2 := oriented.Hit(ray, 0.001, math.Inf(1))
	if ok1 != ok2 {
		t.Fatalf("hit mismatch: aabb=%v oriented=%v", ok1, ok2)
	}
	if !ok1 {
		return
	}
	if math.Abs(r1.T-r2.T) > 1e-10 {
		t.Errorf("T mismatch: %v vs %v", r1.T, r2.T)
	}
	if !r1.Normal.Aeq(r2.Normal) {
		t.Errorf("normal mismatch: %v vs %v", r1.Normal, r2.Normal)
	}
}

func TestBoxScaledChainReportsWorldDistance(t *testing.T) {
	// A unit cube at the origin scaled 4x along Z: the world-space
	// surface sits at z=4, so a ray fired from z=10 toward the origin
	// must report T=6, not the renormalized local-space tNear (spec.md
	// §4.1, §4.4 nearest-hit semantics).
	scale := math3d.Scale4(math3d.V3(1, 1, 4))
	inv := scale.Inverse()
	b := Box{
		Center: math3d.V3(0, 0, 0), HalfSize: math3d.V3(1, 1, 1),
		HasChain: true, Chain: scale, ChainInv: inv, NormalMat: inv.Transpose(),
	}
	ray := math3d.NewRay(math3d.V3(0, 0, 10), math3d.V3(0, 0, -1))
	rec, ok := b.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if !aeq(rec.T, 6) {
		t.Errorf("T: got %v want 6 (world-space distance to z=4)", rec.T)
	}
	if !rec.Point.Aeq(math3d.V3(0, 0, 4)) {
		t.Errorf("Point: got %v want (0,0,4)", rec.Point)
	}
}

func TestWorldReturnsNearest(t *testing.T) {
	w := &World{}
	w.Add(Sphere{Center: math3d.V3(0, 0, -10), Radius: 1, MatID: 1})
	w.Add(Sphere{Center: math3d.V3(0, 0, -5), Radius: 1, MatID: 2})
	ray := math3d.NewRay(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1))
	rec, ok := w.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected hit")
	}
	if rec.MaterialID != 2 {
		t.Errorf("expected nearer sphere (mat 2), got mat %d at t=%v", rec.MaterialID, rec.T)
	}
}

func TestAABBSlabParallelAxis(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	// Ray parallel to X axis, lying within the slab on that axis: should hit.
	ray := math3d.NewRay(math3d.V3(-5, 0, 0), math3d.V3(1, 0, 0))
	if _, _, ok := box.Slab(ray, 0.001, math.Inf(1)); !ok {
		t.Error("expected hit for ray parallel to slab but within bounds")
	}
	// Parallel to X, outside slab on Y: should miss.
	ray2 := math3d.NewRay(math3d.V3(-5, 5, 0), math3d.V3(1, 0, 0))
	if _, _, ok := box.Slab(ray2, 0.001, math.Inf(1)); ok {
		t.Error("expected miss for ray parallel to slab and outside bounds")
	}
}

func aeq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
