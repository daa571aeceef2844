package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"projectindex/internal/embed"
	"projectindex/internal/persist"
	"projectindex/internal/semcache"
)

var (
	flagSemK       int
	flagSemModel   string
	flagSemProfile bool
	flagSemJSON    bool
)

var semsearchCmd = &cobra.Command{
	Use:   "semsearch <query>",
	Short: "Free-text semantic search over indexed symbols",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := requireIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}

		modelID := flagSemModel
		if modelID == "" {
			modelID = cfg.Embed.Model
		}
		embedder := embed.Singleton(cfg.Embed.BaseURL, modelID)

		entries := semcache.BuildCorpus(idx)
		texts := make([]string, len(entries))
		for i, e := range entries {
			texts[i] = e.Text
		}

		cache, ok, err := persist.LoadDocCache(cfg.ProjectRoot)
		if err != nil {
			return err
		}
		if !ok || semcache.NeedsRebuild(cache, embedder.Model(), texts) {
			cache, err = semcache.Sync(context.Background(), cfg.ProjectRoot, idx, embedder)
			if err != nil {
				return err
			}
		}

		start := time.Now()
		results, err := semcache.Search(context.Background(), cache, args[0], flagSemK, embedder)
		if err != nil {
			return err
		}
		if flagSemProfile {
			fmt.Printf("(%s)\n", time.Since(start).Round(time.Millisecond))
		}

		if flagSemJSON {
			return printJSON(map[string]interface{}{"query": args[0], "results": results})
		}
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%.4f  %s  %s:%d\n", r.Score, r.ID, r.File, r.Line)
		}
		return nil
	},
}

func init() {
	semsearchCmd.Flags().IntVar(&flagSemK, "k", semcache.DefaultTopK, "number of results to return")
	semsearchCmd.Flags().StringVar(&flagSemModel, "model", "", "embedding model override (default: config's embed.model)")
	semsearchCmd.Flags().BoolVar(&flagSemProfile, "profile", false, "print query latency")
	semsearchCmd.Flags().BoolVar(&flagSemJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(semsearchCmd)
}
