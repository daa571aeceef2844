package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/callgraph"
)

var flagCallsJSON bool

var callsCmd = &cobra.Command{
	Use:   "calls <symbol>",
	Short: "List the outgoing calls of a symbol",
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
		targets := graph.Outgoing[name]

		if flagCallsJSON {
			return printJSON(map[string]interface{}{"symbol": name, "calls": targets})
		}
		for _, t := range targets {
			fmt.Println(t)
		}
		return nil
	},
}

func init() {
	callsCmd.Flags().BoolVar(&flagCallsJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(callsCmd)
}
