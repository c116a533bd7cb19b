package math3d

import "testing"

func TestAddSub(t *testing.T) {
	a, b := V3(1, 2, 3), V3(4, 5, 6)
	got := a.Add(b)
	want := V3(5, 7, 9)
	if !got.Aeq(want) {
		t.Errorf("Add: got %v want %v", got, want)
	}
	if back := got.Sub(b); !back.Aeq(a) {
		t.Errorf("Sub: got %v want %v", back, a)
	}
}

func TestDotCross(t *testing.T) {
	x, y := V3(1, 0, 0), V3(0, 1, 0)
	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot: got %v want 0", got)
	}
	if got := x.Cross(y); !got.Aeq(V3(0, 0, 1)) {
		t.Errorf("Cross: got %v want (0,0,1)", got)
	}
}

func TestUnit(t *testing.T) {
	v := V3(3, 4, 0)
	u := v.Unit()
	if !aeq(u.Len(), 1) {
		t.Errorf("Unit length: got %v want 1", u.Len())
	}
	if zero := Zero3().Unit(); !zero.Aeq(Zero3()) {
		t.Errorf("Unit of zero vector should stay zero, got %v", zero)
	}
}

func TestReflect(t *testing.T) {
	// A ray going straight down reflecting off a flat-up normal bounces straight up.
	d := V3(0, -1, 0)
	n := V3(0, 1, 0)
	got := d.Reflect(n)
	if !got.Aeq(V3(0, 1, 0)) {
		t.Errorf("Reflect: got %v want (0,1,0)", got)
	}
}

func TestClamp01(t *testing.T) {
	c := Color{-1, 0.5, 2}
	got := c.Clamp01()
	want := Color{0, 0.5, 1}
	if !got.Aeq(want) {
		t.Errorf("Clamp01: got %v want %v", got, want)
	}
}

func TestComponent(t *testing.T) {
	v := V3(1, 2, 3)
	for axis, want := range []float64{1, 2, 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%d): got %v want %v", axis, got, want)
		}
	}
}
