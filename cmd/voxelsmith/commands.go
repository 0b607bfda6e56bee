package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelsmith/internal/config"
	"github.com/Faultbox/voxelsmith/internal/logger"
	"github.com/Faultbox/voxelsmith/internal/mesh"
	"github.com/Faultbox/voxelsmith/internal/pipeline"
	"github.com/Faultbox/voxelsmith/internal/texture"
	"github.com/Faultbox/voxelsmith/pkg/formats"
)

func cmdTemplate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	geo := fs.String("geo", "", "Geometry file (default: built-in dwarf)")
	res := fs.Int("res", 0, "Target resolution (default from config)")
	out := fs.String("out", cfg.Output.Dir, "Output directory")
	labels := fs.Bool("labels", false, "Also write a labelled preview")
	fs.Parse(args)

	doc, err := loadGeometry(*geo)
	if err != nil {
		return err
	}

	result, err := pipeline.GenerateTemplate(doc, templateOptions(cfg, *res))
	if err != nil {
		return err
	}

	written, err := result.Save(*out, *labels)
	if err != nil {
		return err
	}

	fmt.Printf("Template: %dx%d, %d faces\n", result.Resolution, result.Resolution, result.Template.FaceCount())
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}
	return nil
}

func cmdPaint(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("paint", flag.ExitOnError)
	raw := fs.String("raw", "", "Generated image to mask")
	tmpl := fs.String("template", filepath.Join(cfg.Output.Dir, pipeline.TemplateFile), "Template image")
	out := fs.String("out", filepath.Join(cfg.Output.Dir, "texture"), "Output file")
	format := fs.String("format", cfg.Output.TextureFormat, "Output format when -out has no extension (png or tga)")
	fs.Parse(args)

	if *raw == "" {
		return fmt.Errorf("usage: voxelsmith paint -raw <image> [-template <png>] [-out <file>]")
	}

	img, err := pipeline.ApplyTexture(context.Background(), *raw, *tmpl)
	if err != nil {
		return err
	}
	path, err := pipeline.SaveTexture(*out, img, texture.Format(strings.ToLower(*format)))
	if err != nil {
		return err
	}

	fmt.Printf("Texture: %dx%d, %d opaque pixels\n", img.Rect.Dx(), img.Rect.Dy(), texture.CountOpaque(img))
	fmt.Printf("  %s\n", path)
	return nil
}

func cmdOBJ(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("obj", flag.ExitOnError)
	geo := fs.String("geo", "", "Geometry file (default: built-in dwarf)")
	out := fs.String("out", filepath.Join(cfg.Output.Dir, "model.obj"), "Output file")
	fs.Parse(args)

	doc, err := loadGeometry(*geo)
	if err != nil {
		return err
	}
	m := doc.Primary()
	if err := mesh.SaveOBJ(*out, m, cfg.Mesh.UnitScale); err != nil {
		return err
	}

	fmt.Printf("OBJ: %d cubes, %d faces\n", m.CubeCount(), m.CubeCount()*6)
	fmt.Printf("  %s\n", *out)
	return nil
}

func cmdSTL(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stl", flag.ExitOnError)
	geo := fs.String("geo", "", "Geometry file (default: built-in dwarf)")
	out := fs.String("out", filepath.Join(cfg.Output.Dir, "model.stl"), "Output file")
	fs.Parse(args)

	doc, err := loadGeometry(*geo)
	if err != nil {
		return err
	}
	m := doc.Primary()
	if err := mesh.SaveSTL(*out, m, cfg.Mesh.UnitScale); err != nil {
		return err
	}

	fmt.Printf("STL: %d triangles\n", m.CubeCount()*12)
	fmt.Printf("  %s\n", *out)
	return nil
}

func cmdGLB(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("glb", flag.ExitOnError)
	geo := fs.String("geo", "", "Geometry file (default: built-in dwarf)")
	tex := fs.String("texture", "", "PNG texture to embed")
	res := fs.Int("res", 0, "Template resolution to pack for (default from config)")
	layout := fs.String("layout", "", "Layout record written by the template command (default: "+pipeline.LayoutFile+" beside -geo)")
	uvScale := fs.Float64("uv-scale", 0, "Box-UV scale of the geometry's UVs, overrides -layout")
	native := fs.Bool("native", false, "Use the geometry's own UVs at scale 1 when no layout record is found")
	out := fs.String("out", filepath.Join(cfg.Output.Dir, "model.glb"), "Output file")
	fs.Parse(args)

	doc, err := loadGeometry(*geo)
	if err != nil {
		return err
	}

	scale, source, err := pipeline.ResolveUVScale(doc, pipeline.UVSource{
		GeoPath:    *geo,
		LayoutPath: *layout,
		Scale:      *uvScale,
		Native:     *native,
	}, templateOptions(cfg, *res))
	if err != nil {
		return err
	}
	logger.Named("glb").Debug("uv scale resolved", zap.Float64("scale", scale), zap.String("source", source))

	opts := mesh.GLTFOptions{UnitScale: cfg.Mesh.UnitScale, UVScale: scale}
	if *tex != "" {
		data, err := os.ReadFile(*tex)
		if err != nil {
			return fmt.Errorf("reading texture: %w", err)
		}
		if texture.DetectFormat(data) != texture.FormatPNG {
			return fmt.Errorf("%w: %s: glb textures must be png", texture.ErrDecode, *tex)
		}
		opts.Texture = data
	}

	m := doc.Primary()
	if err := mesh.SaveGLB(*out, m, opts); err != nil {
		return err
	}

	fmt.Printf("GLB: %d bones, %d cubes, uv scale %g (%s)\n", len(m.Bones), m.CubeCount(), scale, source)
	if lo, hi, ok := mesh.Bounds(m, cfg.Mesh.UnitScale); ok {
		size := hi.Sub(lo)
		fmt.Printf("  size %.3g x %.3g x %.3g\n", size.X, size.Y, size.Z)
	}
	fmt.Printf("  %s\n", *out)
	return nil
}

// loadGeometry reads a geometry file, or the built-in dwarf when path is empty.
func loadGeometry(path string) (*formats.Document, error) {
	log := logger.Named("geometry")
	if path == "" {
		log.Debug("using built-in dwarf model")
		return formats.ParseGeo(formats.DwarfGeo())
	}
	doc, err := formats.LoadGeo(path)
	if err != nil {
		return nil, err
	}
	m := doc.Primary()
	log.Debug("geometry loaded",
		zap.String("path", path),
		zap.String("identifier", m.Identifier),
		zap.Int("bones", len(m.Bones)),
		zap.Int("texture_width", m.TextureWidth))
	return doc, nil
}

// templateOptions merges a per-command resolution override into the config.
func templateOptions(cfg *config.Config, res int) pipeline.TemplateOptions {
	opts := pipeline.TemplateOptions{
		TargetResolution:    cfg.Atlas.TargetResolution,
		MaxResolution:       cfg.Atlas.MaxResolution,
		DefaultTextureWidth: cfg.Atlas.DefaultTextureWidth,
	}
	if res > 0 {
		opts.TargetResolution = res
	}
	return opts
}
