package render

import (
	"image"
	"math"

	ximgdraw "golang.org/x/image/draw"

	"github.com/gazed/rtracer/math3d"
)

// OutlineOptions configures the screen-space outline post-pass
// (spec.md §4.9).
type OutlineOptions struct {
	Enabled       bool
	WeightDepth   float64
	WeightNormal  float64
	Threshold     float64
	LineThickness float64
	EdgeColor     math3d.Color
	Neighbors     int // 4 or 8
}

var neighbors4 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var neighbors8 = [][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// applyOutline detects edges from the depth/normal buffers and
// composites the edge color onto img (spec.md §4.9).
func applyOutline(img *image.NRGBA, depths []float64, hasHit []bool, normals []math3d.Vec3, width, height int, opts OutlineOptions) {
	offsets := neighbors4
	if opts.Neighbors == 8 {
		offsets = neighbors8
	}

	edge := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if !hasHit[idx] {
				continue
			}
			z := depths[idx]
			n := normals[idx]

			maxDepthDiff := 0.0
			maxNormalDiff := 0.0
			for _, o := range offsets {
				nx, ny := x+o[0], y+o[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				nidx := ny*width + nx
				var depthDiff, normalDiff float64
				if !hasHit[nidx] {
					depthDiff = math.Inf(1)
					normalDiff = 2
				} else {
					depthDiff = math.Abs(z - depths[nidx])
					normalDiff = clamp(1-n.Dot(normals[nidx]), 0, 2)
				}
				if depthDiff > maxDepthDiff {
					maxDepthDiff = depthDiff
				}
				if normalDiff > maxNormalDiff {
					maxNormalDiff = normalDiff
				}
			}

			denom := 0.1 * z
			if denom < 0.1 {
				denom = 0.1
			}
			depthDiffNorm := maxDepthDiff / denom
			e := opts.WeightDepth*depthDiffNorm + opts.WeightNormal*maxNormalDiff

			var mask float64
			if e > opts.Threshold {
				mask = (e - opts.Threshold) / (1 - opts.Threshold)
			}
			edge[idx] = clamp(mask, 0, 1)
		}
	}

	if opts.LineThickness > 0 {
		edge = dilate(edge, width, height, opts.LineThickness)
	}

	composite(img, edge, width, height, opts.EdgeColor)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// dilate takes, for each pixel, the max of nearby edge strengths within
// thickness pixels, falling off linearly with distance (spec.md §4.9
// step 5).
func dilate(edge []float64, width, height int, thickness float64) []float64 {
	radius := int(math.Ceil(thickness))
	out := make([]float64, len(edge))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := 0.0
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= height {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= width {
						continue
					}
					dist := math.Hypot(float64(dx), float64(dy))
					if dist > thickness {
						continue
					}
					falloff := 1 - dist/thickness
					v := edge[ny*width+nx] * falloff
					if v > best {
						best = v
					}
				}
			}
			out[y*width+x] = best
		}
	}
	return out
}

// composite blends edgeColor over img by mask, using
// golang.org/x/image/draw's Over compositing (spec.md §4.9 step 6).
func composite(img *image.NRGBA, mask []float64, width, height int, edgeColor math3d.Color) {
	layer := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m := mask[y*width+x]
			if m <= 0 {
				continue
			}
			i := layer.PixOffset(x, y)
			layer.Pix[i+0] = toByte(edgeColor.X)
			layer.Pix[i+1] = toByte(edgeColor.Y)
			layer.Pix[i+2] = toByte(edgeColor.Z)
			layer.Pix[i+3] = toByte(m)
		}
	}
	ximgdraw.Draw(img, img.Bounds(), layer, image.Point{}, ximgdraw.Over)
}
