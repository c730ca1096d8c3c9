// Package config reads the compiler's environment overrides.
package config

import (
	"github.com/xyproto/env/v2"

	"tapec/internal/codegen"
)

// Config collects every environment-tunable setting.
type Config struct {
	// Width is the column limit for formatted output (TAPEC_WIDTH).
	Width int
	// StdlibPath overrides where std.lib is loaded from (TAPEC_STDLIB).
	StdlibPath string
	// CacheDir overrides where the std-lib cache is written (TAPEC_CACHE_DIR).
	CacheDir string
	// Color enables colored diagnostics; NO_COLOR turns it off.
	Color bool
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Width:      env.Int("TAPEC_WIDTH", codegen.DefaultWidth),
		StdlibPath: env.Str("TAPEC_STDLIB"),
		CacheDir:   env.Str("TAPEC_CACHE_DIR"),
		Color:      !env.Bool("NO_COLOR"),
	}
}
