// Package config loads the CLI configuration from file, environment
// variables and flags.
package config

// Defaults applied before any configuration source is read.
const (
	DefaultTheme = "light"
)

// Config holds the resolved CLI configuration.
type Config struct {
	// Library is the library directory or metadata.db path commands
	// operate on.
	Library string `koanf:"library"`
	// ConfigDir is the host configuration directory used for preference
	// files and icon overrides.
	ConfigDir string `koanf:"config_dir"`
	// Theme selects themed icon variants.
	Theme string `koanf:"theme"`
	// Verbose switches the logger to debug level.
	Verbose bool `koanf:"verbose"`
}
