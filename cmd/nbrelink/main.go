package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/nbrelink/internal/config"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Scan struct {
		Root    string `help:"Document tree to scan (overrides config)"`
		Summary string `help:"Summary file path (overrides config)"`
	} `cmd:"" help:"Report revision-pinned repository links without modifying anything"`

	Rewrite struct {
		Root   string `help:"Document tree to rewrite (overrides config)"`
		DryRun bool   `help:"Classify and report, but do not write documents"`
	} `cmd:"" help:"Rewrite revision-pinned repository links to relative paths"`

	Watch struct {
		Root     string        `help:"Document tree to watch (overrides config)"`
		Debounce time.Duration `default:"2s" help:"Quiet period before a rescan"`
	} `cmd:"" help:"Rescan the tree whenever documents change"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "scan":
		cfg, err := loadConfig(CLI.Scan.Root)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if CLI.Scan.Summary != "" {
			cfg.Summary = CLI.Scan.Summary
		}
		if err := runScan(cfg); err != nil {
			slog.Error("Scan failed", "error", err)
			os.Exit(1)
		}
	case "rewrite":
		cfg, err := loadConfig(CLI.Rewrite.Root)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runRewrite(cfg, CLI.Rewrite.DryRun); err != nil {
			slog.Error("Rewrite failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		cfg, err := loadConfig(CLI.Watch.Root)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runWatch(cfg, CLI.Watch.Debounce); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration file written", "path", CLI.Config)
	}
}

// loadConfig loads the config file, applies the command's root override and
// falls back to the tree's git origin remote for the repository coordinates.
func loadConfig(rootOverride string) (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if rootOverride != "" {
		cfg.Root = rootOverride
	}
	fillRepositoryFromRemote(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
