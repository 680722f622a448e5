// Package cli implements the lineageweaver command-line interface.
//
// This package provides commands for laying out kinship charts, classifying
// relationships, auditing dataset integrity, serving the REST API, and
// managing datasets. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a render-ready chart from a dataset
//   - classify: Label the kinship between two people
//   - audit: Run the ancestry integrity audit
//   - serve: Expose the store and pipeline over HTTP
//   - dataset: Initialize, import, and export datasets
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/buildinfo"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/store"
)

// appName is the application name used for display.
const appName = "lineageweaver"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Lineageweaver lays out kinship graphs as genealogical charts",
		Long:         `Lineageweaver is a CLI tool for building, validating, and laying out kinship graphs: it audits ancestry integrity, classifies relationships, partitions disconnected family lines, and computes render-ready chart geometry.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.auditCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.datasetCommand())
	root.AddCommand(c.fragmentsCommand())

	return root
}

// loadConfig resolves the effective configuration for a command run.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// openStore opens the configured dataset store.
func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "backend", st.Backend())
	return st, nil
}
