// voxelsmith turns bone/cube geometry into paintable texture templates and
// exports the same geometry as OBJ, GLB or STL meshes.
package main

import (
	"fmt"
	"os"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelsmith/internal/config"
	"github.com/Faultbox/voxelsmith/internal/logger"
)

// command is one subcommand handler.
type command func(cfg *config.Config, args []string) error

var commands = map[string]command{
	"template": cmdTemplate,
	"paint":    cmdPaint,
	"obj":      cmdOBJ,
	"glb":      cmdGLB,
	"stl":      cmdSTL,
	"colors":   cmdColors,
	"info":     cmdInfo,
	"config":   cmdConfig,
}

func main() {
	// Global flags come before the command name
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	name := args[0]
	switch name {
	case "help", "-h", "--help":
		printUsage()
		return
	}
	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
		if s := suggestCommand(name); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", s)
		}
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.BeginCommand(name)
	log.Debug("config loaded",
		zap.Int("target_resolution", cfg.Atlas.TargetResolution),
		zap.Int("max_resolution", cfg.Atlas.MaxResolution),
		zap.String("out_dir", cfg.Output.Dir))

	if err := run(cfg, args[1:]); err != nil {
		log.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

// suggestCommand returns the closest known command within two edits.
func suggestCommand(name string) string {
	best, bestDist := "", 3
	for c := range commands {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	return best
}

func printUsage() {
	fmt.Println(`voxelsmith - voxel geometry texture templates and mesh export

Usage:
  voxelsmith [global options] <command> [options]

Global options:
  -config <file>   Config file (default ./config.yaml or user config dir)
  -debug           Debug logging
  -log-file <file> Also log to a rotated file
  -res N           Default target template resolution
  -max-res N       Maximum template resolution
  -out-dir <dir>   Default output directory

Commands:
  template [-geo file] [-res N] [-out dir] [-labels]
                                     Generate template.png, colormap.json, geometry.json, layout.json
  paint -raw img -template png [-out file] [-format png|tga]
                                     Mask a generated image with a template
  obj [-geo file] [-out file]        Export OBJ mesh
  glb [-geo file] [-texture png] [-res N] [-layout file] [-uv-scale S] [-native] [-out file]
                                     Export binary glTF; UV scale comes from -uv-scale,
                                     the layout record, -native, or a fresh pack
  stl [-geo file] [-out file]        Export STL mesh
  colors [-geo file] [-res N]        List template key colors
  info [-geo file]                   Show bones and cubes
  config [-save] [-path file]        Print or save the effective config

Without -geo the built-in dwarf model is used.

Examples:
  voxelsmith template -geo steve.geo.json -res 256 -labels
  voxelsmith paint -raw generated.jpg -template out/template.png -out out/skin.png
  voxelsmith glb -geo out/geometry.json -texture out/skin.png`)
}
