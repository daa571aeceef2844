package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/query"
)

var (
	flagDeadCodeIncludePrivate bool
	flagDeadCodeJSON           bool
)

var deadCodeCmd = &cobra.Command{
	Use:   "dead-code",
	Short: "List symbols never referenced in any call list",
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

		dead := query.DeadCode(idx, flagDeadCodeIncludePrivate)
		if flagDeadCodeJSON {
			return printJSON(map[string]interface{}{"dead_code": dead})
		}
		for _, name := range dead {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	deadCodeCmd.Flags().BoolVar(&flagDeadCodeIncludePrivate, "include-private", false, "include names prefixed with _")
	deadCodeCmd.Flags().BoolVar(&flagDeadCodeJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(deadCodeCmd)
}
