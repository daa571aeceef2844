package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/query"
)

var flagSuggestJSON bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <context>",
	Short: "Rank symbol_index entries against a free-text context string",
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

		primary, related := query.Suggest(idx, args[0])
		if flagSuggestJSON {
			return printJSON(map[string]interface{}{"primary": primary, "related": related})
		}
		fmt.Println("primary:")
		for _, s := range primary {
			fmt.Printf("  %s  %s  (confidence %.2f)\n", s.Name, s.Location, s.Confidence)
		}
		fmt.Println("related:")
		for _, s := range related {
			fmt.Printf("  %s  %s  (confidence %.2f)\n", s.Name, s.Location, s.Confidence)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&flagSuggestJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(suggestCmd)
}
