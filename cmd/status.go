package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/persist"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an index exists and basic counts about it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idx, ok, err := persist.LoadIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no index found")
			return nil
		}

		cache, cacheOk, err := persist.LoadDocCache(cfg.ProjectRoot)
		if err != nil {
			return err
		}
		vectors := 0
		if cacheOk {
			vectors = len(cache.Vectors)
		}

		fmt.Printf("project_root: %s\n", idx.ProjectRoot)
		fmt.Printf("schema_version: %s\n", idx.SchemaVersion)
		fmt.Printf("created_at: %s\n", idx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		fmt.Printf("updated_at: %s\n", idx.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
		fmt.Printf("files: %d\n", len(idx.Files))
		fmt.Printf("symbols: %d\n", len(idx.SymbolIndex))
		fmt.Printf("vectors: %d\n", vectors)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
