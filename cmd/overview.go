package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/overview"
	"projectindex/internal/persist"
)

var flagOverviewPrint bool

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Synthesize a Markdown architecture overview from the current index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := requireIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}

		chat := overview.NewChat(cfg.Chat.BaseURL, cfg.Chat.Model)
		md, err := overview.Synthesize(context.Background(), idx, chat)
		if err != nil {
			return err
		}
		if err := persist.SaveOverview(cfg.ProjectRoot, md); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", persist.OverviewPath(cfg.ProjectRoot))
		if flagOverviewPrint {
			fmt.Println()
			fmt.Println(md)
		}
		return nil
	},
}

func init() {
	overviewCmd.Flags().BoolVar(&flagOverviewPrint, "print", false, "also print the generated overview to stdout")
	rootCmd.AddCommand(overviewCmd)
}
