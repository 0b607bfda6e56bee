package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
	flagRes     = flag.Int("res", 0, "Target template resolution")
	flagMaxRes  = flag.Int("max-res", 0, "Maximum template resolution")
	flagOut     = flag.String("out-dir", "", "Output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagRes > 0 {
		cfg.Atlas.TargetResolution = *flagRes
	}
	if *flagMaxRes > 0 {
		cfg.Atlas.MaxResolution = *flagMaxRes
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
}
