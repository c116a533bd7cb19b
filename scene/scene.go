// Package scene decodes the scene JSON format (spec.md §6) and builds
// a shade.Scene ready to render. Field-by-field parsing mirrors the
// teacher's load/mtl.go (an explicit error per bad value); the container format itself is encoding/json, the only
// JSON library used anywhere in the retrieved pack.
package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gazed/rtracer/camera"
	"github.com/gazed/rtracer/light"
	"github.com/gazed/rtracer/material"
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/mesh"
	"github.com/gazed/rtracer/primitive"
	"github.com/gazed/rtracer/shade"
	"github.com/gazed/rtracer/stl"
	"github.com/gazed/rtracer/transform"
)

// Doc is the top-level scene JSON document (spec.md §6 "Scene JSON").
type Doc struct {
	Camera        cameraDoc      `json:"camera"`
	Objects       []objectDoc    `json:"objects"`
	Lights        []lightDoc     `json:"lights"`
	SceneSettings sceneSettings  `json:"scene_settings"`
}

type cameraDoc struct {
	Kind      string      `json:"kind"`
	Position  *[3]float64 `json:"position"`
	Target    *[3]float64 `json:"target"`
	Up        [3]float64  `json:"up"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Fov       float64     `json:"fov"`
	GridPitch float64     `json:"grid_pitch"`
	GridColor string      `json:"grid_color"`
	GridThick float64     `json:"grid_thickness"`
}

type objectDoc struct {
	Kind       string      `json:"kind"`
	Name       string      `json:"name"`
	Center     [3]float64  `json:"center"`
	Radius     float64     `json:"radius"`
	Point      [3]float64  `json:"point"`
	Normal     [3]float64  `json:"normal"`
	HalfSize   [3]float64  `json:"half_size"`
	Filename   string      `json:"filename"`
	Transform  []string    `json:"transform"`
	BruteForce bool        `json:"brute_force"`
	Material   materialDoc `json:"material"`
}

type materialDoc struct {
	Color        string      `json:"color"`
	Ambient      float64     `json:"ambient"`
	Diffuse      float64     `json:"diffuse"`
	Specular     float64     `json:"specular"`
	Shininess    float64     `json:"shininess"`
	Reflectivity float64     `json:"reflectivity"`
	Texture      *textureDoc `json:"texture"`
}

type textureDoc struct {
	LineColor string  `json:"line_color"`
	LineWidth float64 `json:"line_width"`
	CellSize  float64 `json:"cell_size"`
}

type lightDoc struct {
	Position  [3]float64 `json:"position"`
	Color     string     `json:"color"`
	Intensity float64    `json:"intensity"`
	Diameter  float64    `json:"diameter"`
}

type sceneSettings struct {
	AmbientIllumination struct {
		Color     string  `json:"color"`
		Intensity float64 `json:"intensity"`
	} `json:"ambient_illumination"`
	Fog struct {
		Color   string  `json:"color"`
		Density float64 `json:"density"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
	} `json:"fog"`
	BackgroundColor string `json:"background_color"`
}

// Parse decodes raw scene JSON into a Doc.
func Parse(data []byte) (Doc, error) {
	var doc Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Doc{}, fmt.Errorf("scene: parse: %w", err)
	}
	return doc, nil
}

// Build resolves a parsed Doc into a shade.Scene and a render camera.
// baseDir is the scene JSON's directory; mesh `filename` fields are
// resolved relative to it (spec.md §6).
func Build(doc Doc, baseDir string) (*shade.Scene, error) {
	world := &primitive.World{}
	materials := map[int]material.Material{}
	bounds := primitive.Empty()
	haveBounds := false
	for i, od := range doc.Objects {
		mat, err := buildMaterial(od.Material)
		if err != nil {
			return nil, fmt.Errorf("scene: object %d (%s) material: %w", i, objectLabel(od, i), err)
		}
		materials[i] = mat

		obj, err := buildObject(od, i, baseDir)
		if err != nil {
			return nil, fmt.Errorf("scene: object %d (%s): %w", i, objectLabel(od, i), err)
		}
		world.Add(obj)

		if b, ok := objectBounds(od, obj); ok {
			bounds = bounds.Union(b)
			haveBounds = true
		}
	}

	cam, err := buildCamera(doc.Camera, bounds, haveBounds)
	if err != nil {
		return nil, err
	}

	lights := make([]light.Light, 0, len(doc.Lights))
	for i, ld := range doc.Lights {
		l, err := buildLight(ld)
		if err != nil {
			return nil, fmt.Errorf("scene: light %d: %w", i, err)
		}
		lights = append(lights, l)
	}

	ambientColor, err := parseHexOrDefault(doc.SceneSettings.AmbientIllumination.Color, math3d.V3(1, 1, 1))
	if err != nil {
		return nil, fmt.Errorf("scene: ambient_illumination.color: %w", err)
	}

	fog := shade.Fog{}
	if doc.SceneSettings.Fog.Density > 0 || doc.SceneSettings.Fog.End > 0 {
		fogColor, err := parseHexOrDefault(doc.SceneSettings.Fog.Color, math3d.Zero3())
		if err != nil {
			return nil, fmt.Errorf("scene: fog.color: %w", err)
		}
		fog = shade.Fog{
			Enabled: true,
			Color:   fogColor,
			Density: doc.SceneSettings.Fog.Density,
			Start:   doc.SceneSettings.Fog.Start,
			End:     doc.SceneSettings.Fog.End,
		}
	}

	background := math3d.Zero3()
	if doc.SceneSettings.BackgroundColor != "" {
		background, err = parseHex(doc.SceneSettings.BackgroundColor)
		if err != nil {
			return nil, fmt.Errorf("scene: background_color: %w", err)
		}
	}

	return &shade.Scene{
		World:      world,
		Materials:  materials,
		Lights:     lights,
		Ambient:    shade.Ambient{Color: ambientColor, Intensity: doc.SceneSettings.AmbientIllumination.Intensity},
		Fog:        fog,
		CameraPos:  cam.Position,
		Camera:     cam,
		Background: background,
	}, nil
}

func buildCamera(cd cameraDoc, bounds primitive.AABB, haveBounds bool) (camera.Camera, error) {
	var kind camera.Kind
	switch cd.Kind {
	case "ortho":
		kind = camera.Orthographic
	case "perspective":
		kind = camera.Perspective
	default:
		return camera.Camera{}, fmt.Errorf("scene: unknown camera kind %q", cd.Kind)
	}

	aspect := 1.0
	if cd.Width > 0 && cd.Height > 0 {
		aspect = cd.Width / cd.Height
	}
	if kind == camera.Perspective && cd.Fov == 0 {
		cd.Fov = 45
	}

	var cam camera.Camera
	if cd.Position == nil || cd.Target == nil {
		// spec.md §1's "auto camera bounds helper" collaborator:
		// frame whatever geometry the scene contains when the JSON
		// document omits an explicit position/target (SPEC_FULL.md
		// "Supplemented features").
		if !haveBounds {
			return camera.Camera{}, fmt.Errorf("scene: camera.position/target omitted but no bounded object to auto-frame")
		}
		cam = camera.AutoFrame(kind, bounds.Min, bounds.Max, cd.Fov, aspect, 0.8)
		// AutoFrame already set Fov/Aspect from the values passed in
		// and, for ortho, Width/Height from the scene bounds; only let
		// explicit JSON values override Width/Height.
		if cd.Width > 0 {
			cam.Width = cd.Width
		}
		if cd.Height > 0 {
			cam.Height = cd.Height
		}
	} else {
		cam = camera.New(kind, v3(*cd.Position), v3(*cd.Target), v3(cd.Up))
		cam.Width, cam.Height = cd.Width, cd.Height
		cam.FovDegrees = cd.Fov
		cam.Aspect = aspect
	}

	if cd.GridPitch > 0 {
		color := math3d.Zero3()
		if cd.GridColor != "" {
			c, err := parseHex(cd.GridColor)
			if err != nil {
				return camera.Camera{}, fmt.Errorf("scene: camera.grid_color: %w", err)
			}
			color = c
		}
		cam.Grid = camera.Grid{Enabled: true, Pitch: cd.GridPitch, Color: color, Thickness: cd.GridThick}
	}

	if err := cam.Validate(); err != nil {
		return camera.Camera{}, err
	}
	return cam, nil
}

func buildMaterial(md materialDoc) (material.Material, error) {
	color, err := parseHexOrDefault(md.Color, math3d.V3(1, 1, 1))
	if err != nil {
		return material.Material{}, fmt.Errorf("color: %w", err)
	}
	mat := material.Material{
		Color:        color,
		Ambient:      md.Ambient,
		Diffuse:      md.Diffuse,
		Specular:     md.Specular,
		Shininess:    md.Shininess,
		Reflectivity: md.Reflectivity,
	}
	if md.Texture != nil {
		lineColor, err := parseHex(md.Texture.LineColor)
		if err != nil {
			return material.Material{}, fmt.Errorf("texture.line_color: %w", err)
		}
		mat.Texture = &material.Texture{
			LineColor: lineColor,
			LineWidth: md.Texture.LineWidth,
			CellSize:  md.Texture.CellSize,
		}
	}
	return mat, nil
}

func buildObject(od objectDoc, matID int, baseDir string) (primitive.Intersectable, error) {
	chain := transform.Identity()
	if len(od.Transform) > 0 {
		c, err := transform.Parse(od.Transform)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		chain = c
	}

	switch od.Kind {
	case "sphere":
		center := chain.Point(v3(od.Center))
		radius := od.Radius * chain.UniformScale()
		return primitive.Sphere{Center: center, Radius: radius, MatID: matID}, nil
	case "plane":
		point := chain.Point(v3(od.Point))
		normal := chain.Normal(v3(od.Normal)).Unit()
		return primitive.Plane{Point: point, Normal: normal, MatID: matID}, nil
	case "cube":
		b := primitive.Box{
			Center:   v3(od.Center),
			HalfSize: v3(od.HalfSize),
			MatID:    matID,
		}
		if len(od.Transform) > 0 {
			b.HasChain = true
			b.Chain = chain.Matrix
			b.ChainInv = chain.Inverse
			b.NormalMat = chain.NormalMat
		}
		return b, nil
	case "mesh":
		if od.Filename == "" {
			return nil, fmt.Errorf("mesh object missing filename")
		}
		path := filepath.Join(baseDir, od.Filename)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		m, err := stl.Load(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		name := od.Name
		if name == "" {
			name = od.Filename
		}
		obj := &mesh.Object{Name: name, Mesh: m, MatID: matID, BruteForce: od.BruteForce}
		if len(od.Transform) > 0 {
			obj.HasChain = true
			obj.Chain = chain
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unknown object kind %q", od.Kind)
	}
}

// objectLabel names an object for error messages, defaulting to its
// index when the JSON omits `name` (SPEC_FULL.md "Supplemented
// features": objects[].name carried through from original_source/'s
// src/scene.rs).
func objectLabel(od objectDoc, index int) string {
	if od.Name != "" {
		return od.Name
	}
	return fmt.Sprintf("object[%d]", index)
}

// objectBounds reports a world-space AABB for auto-framing, if the
// built object has one. Planes are unbounded and skipped.
func objectBounds(od objectDoc, obj primitive.Intersectable) (primitive.AABB, bool) {
	switch v := obj.(type) {
	case primitive.Sphere:
		r := math3d.V3(v.Radius, v.Radius, v.Radius)
		return primitive.AABB{Min: v.Center.Sub(r), Max: v.Center.Add(r)}, true
	case primitive.Box:
		local := primitive.AABB{Min: v.Center.Sub(v.HalfSize), Max: v.Center.Add(v.HalfSize)}
		if !v.HasChain {
			return local, true
		}
		return transformAABB(v.Chain, local), true
	case *mesh.Object:
		local := v.Mesh.Bounds()
		if !v.HasChain {
			return local, true
		}
		return transformAABB(v.Chain.Matrix, local), true
	default:
		return primitive.AABB{}, false
	}
}

// transformAABB maps a local AABB's 8 corners through m and returns
// the union's AABB, the standard way to re-bound a transformed box.
func transformAABB(m math3d.Mat4, local primitive.AABB) primitive.AABB {
	out := primitive.Empty()
	for i := 0; i < 8; i++ {
		corner := math3d.V3(
			pick(i&1 != 0, local.Min.X, local.Max.X),
			pick(i&2 != 0, local.Min.Y, local.Max.Y),
			pick(i&4 != 0, local.Min.Z, local.Max.Z),
		)
		p := m.MulPoint(corner)
		out = out.Union(primitive.AABB{Min: p, Max: p})
	}
	return out
}

func pick(hi bool, lo, hiVal float64) float64 {
	if hi {
		return hiVal
	}
	return lo
}

func buildLight(ld lightDoc) (light.Light, error) {
	color, err := parseHex(ld.Color)
	if err != nil {
		return light.Light{}, fmt.Errorf("color: %w", err)
	}
	return light.Light{
		Position:  v3(ld.Position),
		Color:     color,
		Intensity: ld.Intensity,
		Diameter:  ld.Diameter,
	}, nil
}

func v3(a [3]float64) math3d.Vec3 { return math3d.V3(a[0], a[1], a[2]) }

func parseHexOrDefault(hex string, def math3d.Color) (math3d.Color, error) {
	if hex == "" {
		return def, nil
	}
	return parseHex(hex)
}

// parseHex parses a "#RRGGBB" string into a linear RGB color
// (spec.md §6: "color (#RRGGBB)").
func parseHex(hex string) (math3d.Color, error) {
	return math3d.ParseHexColor(hex)
}

// DiagonalSize computes (width, height) in pixels from the diagonal
// and the camera's aspect ratio, per spec.md §6: "H = D/sqrt(R^2+1),
// W = R*H, each rounded to the nearest integer".
func DiagonalSize(diagonal, aspect float64) (width, height int) {
	h := diagonal / math.Sqrt(aspect*aspect+1)
	w := aspect * h
	return int(math.Round(w)), int(math.Round(h))
}
