package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"projectindex/internal/discover"
	"projectindex/internal/indexbuild"
	"projectindex/internal/model"
	"projectindex/internal/persist"
	"projectindex/internal/semcache"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build a full project index from scratch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		entries, err := discover.Discover(cfg.ProjectRoot, discover.Options{
			Include:     cfg.IncludePatterns,
			Exclude:     cfg.ExcludePatterns,
			MaxFileSize: cfg.MaxFileSize,
		})
		if err != nil {
			return err
		}

		existing, _, _ := persist.LoadIndex(cfg.ProjectRoot)
		createdAt := time.Time{}
		if existing != nil {
			createdAt = existing.CreatedAt
		}
		idx := model.NewProjectIndex(cfg.ProjectRoot, createdAt)

		builder := indexbuild.New(defaultRouter())
		start := time.Now()
		stats, err := builder.Build(context.Background(), cfg.ProjectRoot, entries, idx)
		if err != nil {
			return err
		}
		if err := persist.SaveIndex(cfg.ProjectRoot, idx); err != nil {
			return err
		}

		vectors := 0
		embedder := newEmbedder(cfg)
		if cache, err := semcache.Sync(context.Background(), cfg.ProjectRoot, idx, embedder); err != nil {
			logger.Warn("semantic cache sync failed, continuing without it", "error", err)
		} else {
			vectors = len(cache.Vectors)
		}

		fmt.Printf("Indexed %d files (%d new/changed, %d unchanged) in %s\n",
			stats.FilesTotal, stats.FilesIndexed, stats.FilesUnchanged, time.Since(start).Round(time.Millisecond))
		if vectors > 0 {
			fmt.Printf("Semantic cache: %d vectors\n", vectors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
