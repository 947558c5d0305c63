package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/desk"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <station.entry>",
		Short: "Resolve a catalogue reference to its entry",
		Long: `Resolve a reference of the form station.entry (or station:entry) and
print the catalogued entry it names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			station, entry, err := desk.Default().Resolve(args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"station": station.Name(),
					"entry":   entry.Name,
					"kind":    entry.Kind,
					"doc":     entry.Doc,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s\n", station.Name(), entry.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "  Kind: %s\n", entry.Kind)
			fmt.Fprintf(cmd.OutOrStdout(), "  Doc:  %s\n", entry.Doc)
			return nil
		},
	}
}
