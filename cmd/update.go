package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"projectindex/internal/discover"
	"projectindex/internal/errs"
	"projectindex/internal/indexbuild"
	"projectindex/internal/persist"
)

var updateCmd = &cobra.Command{
	Use:   "update [files...]",
	Short: "Incrementally re-index the given files (or everything changed, if none given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idx, err := requireIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}

		opts := discover.Options{
			Include:     cfg.IncludePatterns,
			Exclude:     cfg.ExcludePatterns,
			MaxFileSize: cfg.MaxFileSize,
		}
		currentEntries, err := discover.Discover(cfg.ProjectRoot, opts)
		if err != nil {
			return err
		}
		currentSet := make(map[string]bool, len(currentEntries))
		byPath := make(map[string]discover.Entry, len(currentEntries))
		for _, e := range currentEntries {
			currentSet[e.RelPath] = true
			byPath[e.RelPath] = e
		}

		var changed []discover.Entry
		if len(args) == 0 {
			changed = currentEntries
		} else {
			for _, a := range args {
				rel, err := filepath.Rel(cfg.ProjectRoot, mustAbs(cfg.ProjectRoot, a))
				if err != nil {
					return errs.Wrap(errs.IOError, "resolve path "+a, err)
				}
				rel = filepath.ToSlash(rel)
				if e, ok := byPath[rel]; ok {
					changed = append(changed, e)
				} else {
					// File no longer exists or is excluded; still pass it
					// through so apply() drops it from the index.
					changed = append(changed, discover.Entry{RelPath: rel})
				}
			}
		}

		builder := indexbuild.New(defaultRouter())
		start := time.Now()
		stats, err := builder.Update(context.Background(), changed, currentSet, idx)
		if err != nil {
			return err
		}
		if err := persist.SaveIndex(cfg.ProjectRoot, idx); err != nil {
			return err
		}

		fmt.Printf("Updated %d files (%d removed) in %s\n", stats.FilesIndexed, stats.FilesRemoved, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func mustAbs(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(root, p)
	}
	return filepath.Join(wd, p)
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
