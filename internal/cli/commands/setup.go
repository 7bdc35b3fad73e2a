// Package commands implements the lectern subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lectern-dev/lectern/internal/cli/config"
	"github.com/lectern-dev/lectern/internal/library"
)

// ConfigFn retrieves the resolved configuration from the command context.
// The cli package supplies it; taking a function avoids an import cycle.
type ConfigFn func(ctx context.Context) *config.Config

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// LoggerKey returns the context key the root command stores the logger
// under.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// openLibrary opens the configured library, failing with a usage hint when
// none is set.
func openLibrary(ctx context.Context, cfg *config.Config) (*library.Library, error) {
	if cfg.Library == "" {
		return nil, fmt.Errorf("no library configured: pass --library or set it in lectern.yaml")
	}
	return library.Open(cfg.Library, GetLogger(ctx))
}
