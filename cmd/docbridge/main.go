// Package main provides the docbridge binary entry point. Docbridge
// maintains a workspace knowledge graph over decision-record style
// documentation and runs compliance rules against it, for use from CI
// pipelines and editor integrations.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/docbridge/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "docbridge"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags are shared by all subcommands.
type rootFlags struct {
	configPath string
	root       string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "docbridge",
		Short: "Documentation knowledge graph and compliance checks",
		Long: `Docbridge indexes a workspace of decision-record style documents
into a cross-document knowledge graph and validates it with compliance
rules:

- BRIDGE001: superseded documents must have status Deprecated or Superseded
- BRIDGE002: supersession targets must resolve to a defined anchor
- BRIDGE003: documents must be reachable from an entry point`,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.root, "root", "", "Documentation root (default: auto-detect)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(checkCmd(flags))
	cmd.AddCommand(symbolsCmd(flags))
	cmd.AddCommand(watchCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setupLogging configures the default slog logger and returns it.
func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(flags *rootFlags, logger *slog.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if flags.configPath != "" {
		cfg = config.DefaultConfig()
		fileCfg, loadErr := config.LoadFromFile(flags.configPath)
		if loadErr != nil {
			return nil, loadErr
		}
		cfg.Merge(fileCfg)
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.NewLoader(logger).Load()
		if err != nil {
			return nil, err
		}
	}

	if flags.root != "" {
		absRoot, err := filepath.Abs(flags.root)
		if err != nil {
			return nil, fmt.Errorf("resolve root path: %w", err)
		}
		cfg.Workspace.Root = absRoot
	}

	info, err := os.Stat(cfg.Workspace.Root)
	if err != nil {
		return nil, fmt.Errorf("stat workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", cfg.Workspace.Root)
	}

	return cfg, nil
}
