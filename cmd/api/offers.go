package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xavierca1/garage-leads/internal/offer"
)

func newOffersCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Validate and print the offer catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := offer.LoadFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, code := range catalog.Codes() {
				o, _ := catalog.Lookup(code)
				fmt.Fprintf(out, "%-16s %-6s %s\n", o.Code, o.Value, o.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "catalog YAML (defaults to the embedded catalog)")
	return cmd
}
