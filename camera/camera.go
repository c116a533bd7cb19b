// Package camera builds the orthonormal viewing basis and generates
// primary rays for the orthographic and perspective projections
// (spec.md §4.5), plus the optional grid background test and an
// auto-framing helper (SPEC_FULL.md supplemented feature).
package camera

import (
	"fmt"
	"math"

	"github.com/gazed/rtracer/math3d"
)

// Kind discriminates the two supported projections.
type Kind int

const (
	Orthographic Kind = iota
	Perspective
)

// Grid describes the optional orthographic-only coordinate-plane
// background (spec.md §4.5 "Grid background").
type Grid struct {
	Enabled   bool
	Pitch     float64
	Color     math3d.Color
	Thickness float64
}

// Camera holds the orthonormal basis {u, v, w} and the parameters
// needed to generate a primary ray for any pixel.
type Camera struct {
	Kind     Kind
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Orthographic viewport (world units).
	Width, Height float64

	// Perspective.
	FovDegrees float64
	Aspect     float64

	Grid Grid

	u, v, w math3d.Vec3
}

// New builds a Camera, computing the orthonormal basis from position,
// target and up (spec.md §4.5). FovDegrees is ignored for Orthographic.
func New(kind Kind, position, target, up math3d.Vec3) Camera {
	c := Camera{Kind: kind, Position: position, Target: target, Up: up}
	c.w = position.Sub(target).Unit()
	c.u = up.Cross(c.w).Unit()
	c.v = c.w.Cross(c.u)
	return c
}

// Validate checks camera parameters that can only be known once the
// scene has fully configured them (spec.md §4.11 "unsupported camera
// kind, out-of-range FOV").
func (c Camera) Validate() error {
	if c.Kind == Perspective {
		if c.FovDegrees <= 0 || c.FovDegrees >= 180 {
			return fmt.Errorf("camera: fov %v degrees out of range (0,180)", c.FovDegrees)
		}
	}
	return nil
}

// Ray returns the primary ray for viewport coordinates s, t in [0,1]^2
// (s increasing right, t increasing up), per spec.md §4.5.
func (c Camera) Ray(s, t float64) math3d.Ray {
	if c.Kind == Orthographic {
		return c.orthoRay(s, t)
	}
	return c.perspectiveRay(s, t)
}

func (c Camera) orthoRay(s, t float64) math3d.Ray {
	width := c.Width
	if c.Aspect*c.Height > width {
		width = c.Aspect * c.Height
	}
	height := c.Height

	lowerLeft := c.Position.
		Sub(c.u.Scale(width / 2)).
		Sub(c.v.Scale(height / 2))
	origin := lowerLeft.
		Add(c.u.Scale(s * width)).
		Add(c.v.Scale(t * height))
	return math3d.NewRay(origin, c.w.Neg())
}

func (c Camera) perspectiveRay(s, t float64) math3d.Ray {
	halfHeight := math.Tan(deg2rad(c.FovDegrees) / 2)
	halfWidth := c.Aspect * halfHeight
	const focalLength = 1.0

	horizontal := c.u.Scale(2 * halfWidth)
	vertical := c.v.Scale(2 * halfHeight)
	lowerLeft := c.Position.
		Sub(horizontal.Scale(0.5)).
		Sub(vertical.Scale(0.5)).
		Sub(c.w.Scale(focalLength))

	target := lowerLeft.Add(horizontal.Scale(s)).Add(vertical.Scale(t))
	return math3d.NewRay(c.Position, target.Sub(c.Position))
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

const gridPlaneEps = 1e-10

// Background tests ray against the three coordinate planes and
// returns the grid color for a hit within grid_thickness/2 of a
// pitch line, if the camera is orthographic and has a grid configured
// (spec.md §4.5 "Grid background").
func (c Camera) Background(ray math3d.Ray) (math3d.Color, bool) {
	if c.Kind != Orthographic || !c.Grid.Enabled {
		return math3d.Color{}, false
	}
	if c.Grid.Pitch <= 0 || c.Grid.Thickness <= 0 {
		return math3d.Color{}, false
	}

	planes := []struct {
		normalAxis int
		a, b       int // the two in-plane axes
	}{
		{2, 0, 1}, // z=0 plane: x,y in-plane
		{1, 0, 2}, // y=0 plane: x,z in-plane
		{0, 1, 2}, // x=0 plane: y,z in-plane
	}

	for _, p := range planes {
		denom := ray.Dir.Component(p.normalAxis)
		if math.Abs(denom) <= gridPlaneEps {
			continue
		}
		t := -ray.Origin.Component(p.normalAxis) / denom
		if t <= 0 {
			continue
		}
		hit := ray.At(t)
		ca := hit.Component(p.a)
		cb := hit.Component(p.b)
		if onGridLine(ca, c.Grid.Pitch, c.Grid.Thickness) || onGridLine(cb, c.Grid.Pitch, c.Grid.Thickness) {
			return c.Grid.Color, true
		}
	}
	return math3d.Color{}, false
}

func onGridLine(coord, pitch, thickness float64) bool {
	nearest := math.Round(coord/pitch) * pitch
	return math.Abs(coord-nearest) <= thickness/2
}

// AutoFrame positions the camera so that bounds fits within the view
// at the given fill ratio, looking down -Z with +Y up (SPEC_FULL.md
// supplemented feature, ported from original_source/'s auto_camera.rs).
// The returned camera has the given Kind, FovDegrees and Aspect; for
// Orthographic it also sets Height from the bounds and Width as
// Height*aspect.
func AutoFrame(kind Kind, boundsMin, boundsMax math3d.Vec3, fovDegrees, aspect, fill float64) Camera {
	center := boundsMin.Add(boundsMax).Scale(0.5)
	extent := boundsMax.Sub(boundsMin)
	radius := extent.Len() / 2
	if radius <= 0 {
		radius = 1
	}
	if fill <= 0 {
		fill = 0.8
	}

	var distance float64
	switch kind {
	case Perspective:
		halfFov := deg2rad(fovDegrees) / 2
		distance = radius / (fill * math.Sin(halfFov))
	default:
		distance = radius * 2 / fill
	}

	position := center.Add(math3d.V3(0, 0, distance))
	c := New(kind, position, center, math3d.V3(0, 1, 0))
	c.FovDegrees = fovDegrees
	c.Aspect = aspect
	if kind == Orthographic {
		c.Height = 2 * radius / fill
		c.Width = c.Height * aspect
	}
	return c
}
