package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tangerg/codewiki/internal/pipeline"
	"github.com/tangerg/codewiki/internal/pkgutil"
	"github.com/tangerg/codewiki/internal/sse"
	"github.com/tangerg/codewiki/internal/wikimodel"
	"github.com/tangerg/codewiki/internal/wikistore/memstore"
)

var (
	flagConfigPath  string
	flagLanguage    string
	flagRemoteURL   string
	flagGitProvider string
	flagGitOwner    string
	flagGitRepo     string
	flagGitToken    string
	flagRecordTo    string
	flagPoolSize    int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Generate a wiki for a local repository checkout",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "wiki output language, overrides config")
	cmd.Flags().StringVar(&flagRemoteURL, "remote-url", "", "remote URL to record against the repository, enabling the changelog stage")
	cmd.Flags().StringVar(&flagGitProvider, "git-provider", "", "github or gitee, enables issue search")
	cmd.Flags().StringVar(&flagGitOwner, "git-owner", "", "issue tracker owner/org")
	cmd.Flags().StringVar(&flagGitRepo, "git-repo", "", "issue tracker repo name")
	cmd.Flags().StringVar(&flagGitToken, "git-token", "", "issue tracker auth token")
	cmd.Flags().StringVar(&flagRecordTo, "record", "", "write a transcript of every streamed LLM delta to this file")
	cmd.Flags().IntVar(&flagPoolSize, "pool-size", 0, "concurrent catalog-generation workers, overrides config")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("repository path: %w", err)
	}

	cfg, err := LoadConfig(flagConfigPath)
	if err != nil {
		return err
	}
	if flagLanguage != "" {
		cfg.Pipeline.Language = flagLanguage
	}
	if flagPoolSize > 0 {
		cfg.Pipeline.PoolSize = flagPoolSize
	}
	if flagGitProvider != "" {
		cfg.Git = GitConfig{Provider: flagGitProvider, Owner: flagGitOwner, Repo: flagGitRepo, Token: flagGitToken}
	}

	var recordWriter *sse.Writer
	if flagRecordTo != "" {
		f, err := os.Create(flagRecordTo)
		if err != nil {
			return fmt.Errorf("open record file: %w", err)
		}
		defer f.Close()
		recordWriter = sse.NewWriter(f)
	}

	k := buildKernel(cfg, root, recordWriter)
	store := memstore.New()

	repo, err := wikimodel.NewRepository(uuid.New(), "local", "local", filepath.Base(root), "", root)
	if err != nil {
		return err
	}
	if flagRemoteURL != "" {
		repo.RemoteURL = &flagRemoteURL
	}
	ctx := cmd.Context()
	if err := store.CreateRepository(ctx, repo); err != nil {
		return err
	}

	doc, err := wikimodel.NewWikiDocument(repo.ID, cfg.Pipeline.Language)
	if err != nil {
		return err
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		return err
	}

	pool, err := buildPool(cfg.Pipeline.PoolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	deps := pipeline.Dependencies{
		Store:                store,
		Kernel:               k,
		Pool:                 pkgutil.PoolOfAnts(pool),
		EnableSmartFilter:    cfg.Pipeline.EnableSmartFilter,
		SmartFilterThreshold: cfg.Pipeline.SmartFilterThreshold,
		CatalogueFormat:      cfg.Pipeline.CatalogueFormat,
		Language:             cfg.Pipeline.Language,
	}

	return runWithProgress(ctx, deps, store, doc.ID)
}

// buildPool constructs a bounded ants pool, defaulting to 4 workers when
// size is non-positive.
func buildPool(size int) (*ants.Pool, error) {
	if size <= 0 {
		size = 4
	}
	return ants.NewPool(size)
}

// runWithProgress drives the pipeline in the background while a
// terminal progress bar polls the document's Progress field, the same
// value the pipeline persists at every stage boundary.
func runWithProgress(ctx context.Context, deps pipeline.Dependencies, store *memstore.Store, documentID uuid.UUID) error {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("generating wiki"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)

	done := make(chan error, 1)
	go func() {
		done <- pipeline.New(deps).Run(ctx, documentID)
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			_ = bar.Set(100)
			_ = bar.Close()
			if err != nil {
				color.Red("wiki generation failed: %v", err)
				return err
			}
			color.Green("wiki generation complete")
			return nil
		case <-ticker.C:
			if doc, err := store.GetDocument(ctx, documentID); err == nil {
				_ = bar.Set(doc.Progress)
			}
		}
	}
}
