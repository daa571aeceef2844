package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"projectindex/internal/discover"
	"projectindex/internal/indexbuild"
	"projectindex/internal/model"
	"projectindex/internal/persist"
	"projectindex/internal/watch"
)

var flagWatchDaemon bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project tree and keep the index current",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		idx, ok, err := persist.LoadIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}
		opts := discover.Options{
			Include:     cfg.IncludePatterns,
			Exclude:     cfg.ExcludePatterns,
			MaxFileSize: cfg.MaxFileSize,
		}
		if !ok {
			entries, err := discover.Discover(cfg.ProjectRoot, opts)
			if err != nil {
				return err
			}
			idx = model.NewProjectIndex(cfg.ProjectRoot, time.Time{})
			builder := indexbuild.New(defaultRouter())
			if _, err := builder.Build(context.Background(), cfg.ProjectRoot, entries, idx); err != nil {
				return err
			}
			if err := persist.SaveIndex(cfg.ProjectRoot, idx); err != nil {
				return err
			}
		}

		builder := indexbuild.New(defaultRouter())
		apply := func(ctx context.Context, changed []discover.Entry, currentSet map[string]bool) error {
			if _, err := builder.Update(ctx, changed, currentSet, idx); err != nil {
				return err
			}
			return persist.SaveIndex(cfg.ProjectRoot, idx)
		}

		debounce := time.Duration(cfg.Watcher.DebounceMillis) * time.Millisecond
		w := watch.New(cfg.ProjectRoot, opts, logger, debounce, apply)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := w.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("Watching %s (ctrl-C to stop)\n", cfg.ProjectRoot)

		<-ctx.Done()
		w.Stop()
		fmt.Println("Watcher stopped, index persisted.")
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&flagWatchDaemon, "daemon", false, "has no effect: the command runs in the foreground; backgrounding is left to an OS process supervisor")
	rootCmd.AddCommand(watchCmd)
}
