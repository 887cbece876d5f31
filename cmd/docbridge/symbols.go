package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/docbridge/source"
	"github.com/c360studio/docbridge/workspace"
)

func symbolsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols [query]",
		Short: "Search workspace symbols (headers and anchors)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(flags.logLevel)

			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			g := workspace.NewGraph()
			loader := source.NewLoader(cfg.Workspace.Root, cfg.Workspace.Include, logger)
			if _, err := loader.Load(g); err != nil {
				return err
			}

			symbols := g.QuerySymbols(query)
			if len(symbols) == 0 {
				fmt.Println("No symbols found.")
				return nil
			}
			for _, s := range symbols {
				fmt.Printf("%s:%d:%d\t%s\t%s\n", s.DocumentID, s.Line+1, s.Column+1, s.Kind, s.Name)
			}
			return nil
		},
	}
}
