package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectindex/internal/callgraph"
	"projectindex/internal/errs"
)

var (
	flagCallChainDepth int
	flagCallChainJSON  bool
)

var callChainCmd = &cobra.Command{
	Use:   "call-chain <from> <to>",
	Short: "Find the shortest call path between two symbols",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := requireIndex(cfg.ProjectRoot)
		if err != nil {
			return err
		}

		from, err := resolveSymbolName(idx, args[0])
		if err != nil {
			return err
		}
		to, err := resolveSymbolName(idx, args[1])
		if err != nil {
			return err
		}

		graph := callgraph.Build(idx)
		chain := graph.Chain(from, to, flagCallChainDepth)
		if chain == nil {
			if flagCallChainJSON {
				return printJSON(map[string]interface{}{"from": from, "to": to, "chain": nil})
			}
			return errs.New(errs.SymbolNotFound, "no call chain found from "+from+" to "+to)
		}

		if flagCallChainJSON {
			return printJSON(map[string]interface{}{"from": from, "to": to, "chain": chain})
		}
		for i, name := range chain {
			if i > 0 {
				fmt.Print(" -> ")
			}
			fmt.Print(name)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	callChainCmd.Flags().IntVar(&flagCallChainDepth, "depth", 10, "maximum BFS depth to search")
	callChainCmd.Flags().BoolVar(&flagCallChainJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(callChainCmd)
}
