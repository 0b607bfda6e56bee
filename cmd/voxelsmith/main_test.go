package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/voxelsmith/internal/atlas"
	"github.com/Faultbox/voxelsmith/internal/config"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tempalte", "template"},
		{"colour", "colors"},
		{"objj", "obj"},
		{"infos", "info"},
		{"completely-different", ""},
	}
	for _, tt := range tests {
		if got := suggestCommand(tt.in); got != tt.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateOptions(t *testing.T) {
	cfg := config.Default()

	opts := templateOptions(cfg, 0)
	if opts.TargetResolution != 128 || opts.MaxResolution != 4096 || opts.DefaultTextureWidth != 64 {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts := templateOptions(cfg, 512); opts.TargetResolution != 512 {
		t.Errorf("expected override 512, got %d", opts.TargetResolution)
	}
}

func TestLoadGeometry_Default(t *testing.T) {
	doc, err := loadGeometry("")
	if err != nil {
		t.Fatalf("loadGeometry failed: %v", err)
	}
	if doc.Primary().Identifier != "geometry.dwarf" {
		t.Errorf("expected built-in dwarf, got %q", doc.Primary().Identifier)
	}

	if _, err := loadGeometry(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDescribe(t *testing.T) {
	doc, err := loadGeometry("")
	if err != nil {
		t.Fatalf("loadGeometry failed: %v", err)
	}
	out := describe(doc)

	for _, want := range []string{
		"geometry.dwarf",
		"Bones:    8 (depth 3)",
		"Cubes:    7",
		"Faces:    42",
		"Bounds:   -9,0,-7 to 9,28,5",
		"\nroot\n",
		"\n  body",
		"\n      beard",
		"\n  rightLeg",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestSwatchLine(t *testing.T) {
	r := atlas.Region{Label: "head.top", Color: atlas.KeyColor(0)}
	line := swatchLine(r)
	if !strings.Contains(line, "#101010") || !strings.Contains(line, "head.top") {
		t.Errorf("unexpected swatch line %q", line)
	}
}

func TestCommandsRun(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()

	tests := []struct {
		name string
		run  command
		args []string
		file string
	}{
		{"template", cmdTemplate, []string{"-out", dir}, "template.png"},
		{"obj", cmdOBJ, []string{"-out", filepath.Join(dir, "m.obj")}, "m.obj"},
		{"stl", cmdSTL, []string{"-out", filepath.Join(dir, "m.stl")}, "m.stl"},
		{"glb", cmdGLB, []string{"-out", filepath.Join(dir, "m.glb")}, "m.glb"},
		{"glb from template output", cmdGLB, []string{
			"-geo", filepath.Join(dir, "geometry.json"),
			"-texture", filepath.Join(dir, "template.png"),
			"-out", filepath.Join(dir, "t.glb"),
		}, "t.glb"},
		{"glb with explicit scale", cmdGLB, []string{
			"-geo", filepath.Join(dir, "geometry.json"),
			"-uv-scale", "2",
			"-out", filepath.Join(dir, "s.glb"),
		}, "s.glb"},
		{"config", cmdConfig, []string{"-path", filepath.Join(dir, "config.yaml")}, "config.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(cfg, tt.args); err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}
			matches, _ := filepath.Glob(filepath.Join(dir, tt.file))
			if len(matches) != 1 {
				t.Errorf("expected %s to be written", tt.file)
			}
		})
	}

	// paint consumes the template written above.
	raw := filepath.Join(dir, "template.png")
	out := filepath.Join(dir, "skin")
	if err := cmdPaint(cfg, []string{"-raw", raw, "-template", raw, "-out", out, "-format", "tga"}); err != nil {
		t.Fatalf("paint failed: %v", err)
	}
	if matches, _ := filepath.Glob(out + ".tga"); len(matches) != 1 {
		t.Error("expected skin.tga to be written")
	}
}
