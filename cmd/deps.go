package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/query"
)

var (
	flagDepsReverse  bool
	flagDepsOrphans  bool
	flagDepsJSON     bool
)

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "Show a file's imports or importers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := requireIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}

		if flagDepsOrphans {
			orphans := query.Orphans(idx)
			if flagDepsJSON {
				return printJSON(map[string]interface{}{"orphans": orphans})
			}
			for _, p := range orphans {
				fmt.Println(p)
			}
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("deps requires a file argument unless --orphans is set")
		}

		edges, err := query.Dependencies(idx, args[0], flagDepsReverse)
		if err != nil {
			return err
		}
		if flagDepsJSON {
			key := "imports"
			if flagDepsReverse {
				key = "imported_by"
			}
			return printJSON(map[string]interface{}{"file": args[0], key: edges})
		}
		for _, e := range edges {
			fmt.Println(e)
		}
		return nil
	},
}

func init() {
	depsCmd.Flags().BoolVar(&flagDepsReverse, "reverse", false, "show importers instead of imports")
	depsCmd.Flags().BoolVar(&flagDepsOrphans, "orphans", false, "list files with no imports and no importers")
	depsCmd.Flags().BoolVar(&flagDepsJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(depsCmd)
}
