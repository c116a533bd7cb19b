// Package transform parses the rotate()/translate()/scale() string
// grammar (spec.md §4.10) and composes the results into a single
// affine math3d.Mat4.
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gazed/rtracer/math3d"
)

// Chain is a composed affine transform plus the information needed to
// rescale primitive radii and half-extents (spec.md §4.10: "for
// sphere/cube radii and sizes the per-axis scale factor is the column
// magnitude").
type Chain struct {
	Matrix    math3d.Mat4
	Inverse   math3d.Mat4 // cached for oriented-box local-space tests
	NormalMat math3d.Mat4 // inverse-transpose of the rotation/scale part
}

// Identity returns the identity chain.
func Identity() Chain {
	id := math3d.Identity4()
	return Chain{Matrix: id, Inverse: id, NormalMat: id}
}

// Parse parses an ordered list of transform strings and composes them
// into a single Chain. Composition is M_n · … · M_1: entries later in
// ops act outermost.
func Parse(ops []string) (Chain, error) {
	m := math3d.Identity4()
	for _, op := range ops {
		next, err := parseOne(op)
		if err != nil {
			return Chain{}, err
		}
		m = next.Mul(m)
	}
	inv := m.Inverse()
	return Chain{
		Matrix:    m,
		Inverse:   inv,
		NormalMat: inv.Transpose(),
	}, nil
}

// parseOne parses a single "rotate(rx,ry,rz)" / "translate(tx,ty,tz)" /
// "scale(sx,sy,sz)" string (degrees for rotate) into its matrix.
func parseOne(op string) (math3d.Mat4, error) {
	op = strings.TrimSpace(op)
	open := strings.IndexByte(op, '(')
	if open < 0 || !strings.HasSuffix(op, ")") {
		return math3d.Mat4{}, fmt.Errorf("transform: malformed operation %q", op)
	}
	name := op[:open]
	args, err := parseArgs(op[open+1 : len(op)-1])
	if err != nil {
		return math3d.Mat4{}, fmt.Errorf("transform: %q: %w", op, err)
	}
	if len(args) != 3 {
		return math3d.Mat4{}, fmt.Errorf("transform: %q: expected 3 arguments, got %d", op, len(args))
	}
	v := math3d.V3(args[0], args[1], args[2])

	switch name {
	case "rotate":
		// Rz · Ry · Rx, degrees to radians.
		rx, ry, rz := deg2rad(v.X), deg2rad(v.Y), deg2rad(v.Z)
		return math3d.RotateZ4(rz).Mul(math3d.RotateY4(ry)).Mul(math3d.RotateX4(rx)), nil
	case "translate":
		return math3d.Translate4(v), nil
	case "scale":
		return math3d.Scale4(v), nil
	default:
		return math3d.Mat4{}, fmt.Errorf("transform: unknown operation %q", name)
	}
}

func parseArgs(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func deg2rad(d float64) float64 { return d * 3.141592653589793 / 180 }

// Point applies the chain to a point.
func (c Chain) Point(p math3d.Vec3) math3d.Vec3 { return c.Matrix.MulPoint(p) }

// Vector applies the chain to a direction (no translation).
func (c Chain) Vector(v math3d.Vec3) math3d.Vec3 { return c.Matrix.MulDir(v) }

// Normal transforms a unit normal by the inverse-transpose of the
// rotation part, then re-normalizes.
func (c Chain) Normal(n math3d.Vec3) math3d.Vec3 {
	return c.NormalMat.MulDir(n).Unit()
}

// ScaleAxis returns the per-axis scale factor (column magnitude) used
// to rescale a sphere radius or box half-extent under this chain.
func (c Chain) ScaleAxis(axis int) float64 { return c.Matrix.ColumnScale(axis) }

// UniformScale approximates a single scale factor for primitives (like
// a sphere) that only have one radius, by averaging the three axis
// scales.
func (c Chain) UniformScale() float64 {
	return (c.ScaleAxis(0) + c.ScaleAxis(1) + c.ScaleAxis(2)) / 3
}
