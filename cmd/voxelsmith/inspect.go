package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Faultbox/voxelsmith/internal/atlas"
	"github.com/Faultbox/voxelsmith/internal/config"
	"github.com/Faultbox/voxelsmith/internal/mesh"
	"github.com/Faultbox/voxelsmith/internal/pipeline"
	"github.com/Faultbox/voxelsmith/pkg/formats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

func cmdColors(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	geo := fs.String("geo", "", "Geometry file (default: built-in dwarf)")
	res := fs.Int("res", 0, "Target resolution (default from config)")
	fs.Parse(args)

	doc, err := loadGeometry(*geo)
	if err != nil {
		return err
	}
	result, err := pipeline.GenerateTemplate(doc, templateOptions(cfg, *res))
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d faces at %dx%d", result.Template.FaceCount(), result.Resolution, result.Resolution)))
	for _, r := range result.Template.Regions {
		fmt.Println(swatchLine(r))
	}
	if result.Template.Wrapped() {
		fmt.Println(dimStyle.Render(fmt.Sprintf("colors repeat after %d faces", atlas.ColorCapacity)))
	}
	return nil
}

// swatchLine renders one region as a colored block, its hex code, label and
// pixel rectangle.
func swatchLine(r atlas.Region) string {
	hex := atlas.Hex(r.Color)
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
	return fmt.Sprintf("%s %s  %-24s %s", swatch, hex, r.Label, dimStyle.Render(r.Rect.String()))
}

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	geo := fs.String("geo", "", "Geometry file (default: built-in dwarf)")
	fs.Parse(args)

	doc, err := loadGeometry(*geo)
	if err != nil {
		return err
	}
	fmt.Print(describe(doc))
	return nil
}

// describe summarizes a document and draws its bone tree.
func describe(doc *formats.Document) string {
	var sb strings.Builder
	m := doc.Primary()

	maxDepth := 0
	for i := range m.Bones {
		if d := m.Depth(i); d > maxDepth {
			maxDepth = d
		}
	}

	fmt.Fprintf(&sb, "%s\n", headerStyle.Render(m.Identifier))
	if doc.FormatVersion != "" {
		fmt.Fprintf(&sb, "Format:   %s\n", doc.FormatVersion)
	}
	fmt.Fprintf(&sb, "Texture:  %dx%d\n", m.BaseTextureWidth(), m.TextureHeight)
	fmt.Fprintf(&sb, "Bones:    %d (depth %d)\n", len(m.Bones), maxDepth)
	fmt.Fprintf(&sb, "Cubes:    %d\n", m.CubeCount())
	fmt.Fprintf(&sb, "Faces:    %d\n", m.CubeCount()*6)
	if lo, hi, ok := mesh.Bounds(m, 1); ok {
		fmt.Fprintf(&sb, "Bounds:   %g,%g,%g to %g,%g,%g\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	}
	if len(doc.Models) > 1 {
		fmt.Fprintf(&sb, "Models:   %d (only the first is used)\n", len(doc.Models))
	}
	sb.WriteString("\n")

	var walk func(i, depth int)
	walk = func(i, depth int) {
		b := &m.Bones[i]
		line := strings.Repeat("  ", depth) + b.Name
		switch n := len(b.Cubes); n {
		case 0:
		case 1:
			line += dimStyle.Render(" (1 cube)")
		default:
			line += dimStyle.Render(fmt.Sprintf(" (%d cubes)", n))
		}
		sb.WriteString(line + "\n")
		for _, c := range m.Children(i) {
			walk(c, depth+1)
		}
	}
	for _, root := range m.Children(formats.NoParent) {
		walk(root, 0)
	}
	return sb.String()
}

func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Write the effective config to the user config dir")
	path := fs.String("path", "", "Write the effective config to this file instead")
	fs.Parse(args)

	switch {
	case *path != "":
		if err := cfg.SaveTo(*path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Config written to %s\n", *path)
	case *save:
		written, err := cfg.Save()
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Config written to %s\n", written)
	default:
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	}
	return nil
}
