package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"

	"git.home.luguber.info/inful/nbrelink/internal/config"
	"git.home.luguber.info/inful/nbrelink/internal/docsource"
	"git.home.luguber.info/inful/nbrelink/internal/linkrewrite"
	"git.home.luguber.info/inful/nbrelink/internal/logfields"
	"git.home.luguber.info/inful/nbrelink/internal/report"
	"git.home.luguber.info/inful/nbrelink/internal/rewrite"
	"git.home.luguber.info/inful/nbrelink/internal/scan"
	"git.home.luguber.info/inful/nbrelink/internal/watch"
)

// fillRepositoryFromRemote derives the target repository from the tree's git
// origin remote when the config leaves owner/name empty.
func fillRepositoryFromRemote(cfg *config.Config) {
	if cfg.Repository.Owner != "" && cfg.Repository.Name != "" {
		return
	}
	detected, err := docsource.DetectRepo(cfg.Root)
	if err != nil {
		slog.Debug("No git remote to derive the repository from", logfields.Root(cfg.Root), logfields.Error(err))
		return
	}
	cfg.Repository.Host = detected.Host
	cfg.Repository.Owner = detected.Owner
	cfg.Repository.Name = detected.Name
	slog.Info("Repository derived from origin remote",
		logfields.Repository(detected.Owner+"/"+detected.Name))
}

func buildRules(cfg *config.Config) (*linkrewrite.Rules, error) {
	return linkrewrite.New(linkrewrite.Repo{
		Host:  cfg.Repository.Host,
		Owner: cfg.Repository.Owner,
		Name:  cfg.Repository.Name,
	}, cfg.ArchiveMarker, cfg.Branches)
}

func runScan(cfg *config.Config) error {
	rules, err := buildRules(cfg)
	if err != nil {
		return err
	}

	tree := docsource.NewTree(cfg.Root, cfg.Extension)
	scanner := scan.New(rules, tree, report.NewSlogSink(nil), cfg.Root)

	bar := pb.Full.Start(0)
	scanner.Progress = func(done, total int) {
		bar.SetTotal(int64(total))
		bar.SetCurrent(int64(done))
	}

	result, err := scanner.Run()
	bar.Finish()
	if err != nil {
		return err
	}

	if result.Scanned == 0 {
		slog.Warn("No documents found", logfields.Root(cfg.Root), logfields.Extension(cfg.Extension))
		return nil
	}
	if result.Total == 0 {
		return nil
	}

	if err := scan.WriteSummary(cfg.Summary, result); err != nil {
		return err
	}
	slog.Info("Summary written", logfields.Path(cfg.Summary), logfields.Total(result.Total), logfields.Files(len(result.Documents)))
	return nil
}

func runRewrite(cfg *config.Config, dryRun bool) error {
	rules, err := buildRules(cfg)
	if err != nil {
		return err
	}

	tree := docsource.NewTree(cfg.Root, cfg.Extension)
	rewriter := rewrite.New(rules, tree, report.NewSlogSink(nil), cfg.Root)

	result, err := rewriter.Run(rewrite.Options{DryRun: dryRun})
	if err != nil {
		return err
	}

	if result.Scanned == 0 {
		slog.Warn("No documents found", logfields.Root(cfg.Root), logfields.Extension(cfg.Extension))
		return nil
	}
	if len(result.Modified) == 0 {
		slog.Info("Nothing to rewrite")
		return nil
	}

	slog.Info("Modified documents", logfields.Count(len(result.Modified)), slog.Bool("dry_run", dryRun))
	for _, path := range result.Modified {
		slog.Info("  modified", logfields.Path(path))
	}
	return nil
}

func runWatch(cfg *config.Config, debounce time.Duration) error {
	rules, err := buildRules(cfg)
	if err != nil {
		return err
	}

	tree := docsource.NewTree(cfg.Root, cfg.Extension)
	sink := report.NewSlogSink(nil)

	rescan := func(context.Context) {
		scanner := scan.New(rules, tree, sink, cfg.Root)
		result, err := scanner.Run()
		if err != nil {
			slog.Error("Rescan failed", logfields.Error(err))
			return
		}
		if result.Total == 0 {
			return
		}
		if err := scan.WriteSummary(cfg.Summary, result); err != nil {
			slog.Error("Failed to write summary", logfields.Error(err))
		}
	}

	watcher, err := watch.New(cfg.Root, cfg.Extension, debounce, rescan)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// One full pass up front, then follow changes.
	rescan(ctx)
	return watcher.Run(ctx)
}
