// Package pipeline ties the geometry, atlas, texture and mesh packages
// together into the operations the command line exposes.
package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelsmith/internal/atlas"
	"github.com/Faultbox/voxelsmith/internal/logger"
	"github.com/Faultbox/voxelsmith/internal/texture"
	"github.com/Faultbox/voxelsmith/pkg/formats"
)

// Output file names written by TemplateResult.Save.
const (
	TemplateFile = "template.png"
	LabelsFile   = "template_labels.png"
	ColorMapFile = "colormap.json"
	GeometryFile = "geometry.json"
)

// TemplateOptions controls template generation.
type TemplateOptions struct {
	TargetResolution    int
	MaxResolution       int
	DefaultTextureWidth int // base width for geometries that declare none
}

// TemplateResult is everything produced for one geometry.
type TemplateResult struct {
	Template   *atlas.Template
	Resolution int
	Geometry   []byte // the re-serialized document with rewritten UVs
	ColorMap   []byte // JSON object of key color to face label
	Layout     []byte // Manifest JSON
}

// GenerateTemplate packs and renders the primary model of doc. The model is
// rewritten in place (UV offsets, texture size) and re-serialized into
// the result.
func GenerateTemplate(doc *formats.Document, opts TemplateOptions) (*TemplateResult, error) {
	if doc == nil || len(doc.Models) == 0 {
		return nil, formats.ErrNoGeometry
	}
	m := doc.Primary()

	log := logger.Named("template")
	baseWidth := m.TextureWidth
	if baseWidth <= 0 && opts.DefaultTextureWidth > 0 {
		baseWidth = opts.DefaultTextureWidth
	}
	layout, err := atlas.Pack(withTextureWidth(m, baseWidth), atlas.Options{
		TargetResolution: opts.TargetResolution,
		MaxResolution:    opts.MaxResolution,
		OnAttempt: func(res int, fit bool) {
			if !fit {
				log.Debug("atlas did not fit, doubling", zap.Int("resolution", res))
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", m.Identifier, err)
	}

	tmpl, err := atlas.Render(m, layout)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", m.Identifier, err)
	}
	if tmpl.Wrapped() {
		log.Warn("more faces than key colors, labels are ambiguous",
			zap.Int("faces", tmpl.FaceCount()),
			zap.Int("colors", atlas.ColorCapacity))
	}

	geo, err := formats.EncodeGeo(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding geometry: %w", err)
	}
	colors, err := json.MarshalIndent(tmpl.Colors, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding color map: %w", err)
	}
	manifest, err := json.MarshalIndent(NewManifest(tmpl), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}

	log.Info("template generated",
		zap.String("geometry", m.Identifier),
		zap.Int("resolution", layout.Resolution),
		zap.Float64("scale", layout.Scale),
		zap.Int("cubes", len(layout.Items)),
		zap.Int("faces", tmpl.FaceCount()))

	return &TemplateResult{
		Template:   tmpl,
		Resolution: layout.Resolution,
		Geometry:   geo,
		ColorMap:   colors,
		Layout:     manifest,
	}, nil
}

// withTextureWidth returns a shallow copy of m with a different declared
// width, so packing can run without touching m.
func withTextureWidth(m *formats.Model, width int) *formats.Model {
	c := *m
	c.TextureWidth = width
	return &c
}

// Save writes the template, color map, geometry and layout record into dir,
// plus the labelled preview when labels is set. It returns the written paths.
func (r *TemplateResult) Save(dir string, labels bool) ([]string, error) {
	var written []string

	path := filepath.Join(dir, TemplateFile)
	if err := texture.Save(path, r.Template.Image); err != nil {
		return written, err
	}
	written = append(written, path)

	for _, f := range []struct {
		name string
		data []byte
	}{
		{ColorMapFile, r.ColorMap},
		{GeometryFile, r.Geometry},
		{LayoutFile, r.Layout},
	} {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.data); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if labels {
		preview, err := atlas.Annotate(r.Template)
		if err != nil {
			return written, fmt.Errorf("rendering labels: %w", err)
		}
		path := filepath.Join(dir, LabelsFile)
		if err := texture.Save(path, preview); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
