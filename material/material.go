// Package material holds surface shading parameters (spec.md §3).
package material

import "github.com/gazed/rtracer/math3d"

// Texture is a procedural grid texture: a foreground line color drawn
// at intervals of CellSize, LineWidth wide, over the material color.
type Texture struct {
	LineColor math3d.Color
	LineWidth float64
	CellSize  float64
}

// Material describes how a surface is colored and lit.
type Material struct {
	Color       math3d.Color
	Ambient     float64 // in [0,1]
	Diffuse     float64 // in [0,1]
	Specular    float64 // in [0,1]
	Shininess   float64
	Reflectivity float64 // in [0,1], 0 means no reflection ray is cast
	Texture     *Texture // nil if untextured
}

// Default is used when a hit's material id is unknown (spec.md §4.6
// "fall back to a default material if absent").
var Default = Material{
	Color:    math3d.V3(1, 0, 1), // magenta, deliberately conspicuous
	Ambient:  0.1,
	Diffuse:  0.9,
	Specular: 0,
}

// ColorAt returns the material's apparent color at the given (u,v),
// substituting the texture's line color when the point falls on a grid
// line. hasUV must be false for primitives that don't report uv
// (spec.md §4.6 step 2).
func (m Material) ColorAt(u, v float64, hasUV bool) math3d.Color {
	if m.Texture == nil || !hasUV {
		return m.Color
	}
	tex := m.Texture
	if onGridLine(u, tex.CellSize, tex.LineWidth) || onGridLine(v, tex.CellSize, tex.LineWidth) {
		return tex.LineColor
	}
	return m.Color
}

func onGridLine(coord, cellSize, lineWidth float64) bool {
	if cellSize <= 0 {
		return false
	}
	scaled := coord / cellSize
	frac := scaled - floor(scaled)
	dist := frac
	if 1-frac < dist {
		dist = 1 - frac
	}
	return dist*cellSize <= lineWidth/2
}

func floor(x float64) float64 {
	i := float64(int64(x))
	if x < 0 && i != x {
		i--
	}
	return i
}
