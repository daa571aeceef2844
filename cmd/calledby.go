package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/callgraph"
)

var flagCalledByJSON bool

var calledByCmd = &cobra.Command{
	Use:   "called-by <symbol>",
	Short: "List the callers of a symbol",
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

		name, err := resolveSymbolName(idx, args[0])
		if err != nil {
			return err
		}
		graph := callgraph.Build(idx)
		callers := graph.Incoming[name]

		if flagCalledByJSON {
			return printJSON(map[string]interface{}{"symbol": name, "called_by": callers})
		}
		for _, c := range callers {
			fmt.Println(c)
		}
		return nil
	},
}

func init() {
	calledByCmd.Flags().BoolVar(&flagCalledByJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(calledByCmd)
}
