package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/query"
)

var (
	flagImpactDepth int
	flagImpactJSON  bool
)

var impactCmd = &cobra.Command{
	Use:   "impact <file>",
	Short: "Show what would be affected by changing a file",
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

		items, tests, err := query.Impact(idx, args[0])
		if err != nil {
			return err
		}
		items = filterDepth(items, flagImpactDepth)

		if flagImpactJSON {
			return printJSON(map[string]interface{}{"target": args[0], "impact": items, "tests": tests})
		}
		for _, it := range items {
			fmt.Printf("%-8s depth %d  %s\n", it.Severity, it.Depth, it.Path)
		}
		if len(tests) > 0 {
			fmt.Println("tests:")
			for _, t := range tests {
				fmt.Printf("  %s\n", t)
			}
		}
		return nil
	},
}

func filterDepth(items []query.ImpactItem, maxDepth int) []query.ImpactItem {
	if maxDepth <= 0 {
		return items
	}
	out := make([]query.ImpactItem, 0, len(items))
	for _, it := range items {
		if it.Depth <= maxDepth {
			out = append(out, it)
		}
	}
	return out
}

func init() {
	impactCmd.Flags().IntVar(&flagImpactDepth, "depth", 0, "maximum BFS depth to report (0 = unbounded)")
	impactCmd.Flags().BoolVar(&flagImpactJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(impactCmd)
}
