package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/query"
)

var (
	flagSearchExact bool
	flagSearchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the symbol index by substring or exact match",
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

		hits := query.Search(idx, args[0], flagSearchExact)
		if flagSearchJSON {
			return printJSON(map[string]interface{}{"query": args[0], "results": hits})
		}
		if len(hits) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, h := range hits {
			fmt.Printf("%s  %s\n", h.Name, h.Location)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&flagSearchExact, "exact", false, "require an exact symbol name match")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(searchCmd)
}
