package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/desk"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the guidance desk by entry or station name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")

			matches, err := desk.Default().Search(args[0], caseSensitive)
			if err != nil {
				return err
			}

			if format == "json" {
				if matches == nil {
					matches = []desk.Match{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"query":   args[0],
					"matches": matches,
					"count":   len(matches),
				})
			}

			if len(matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No matches for %q.\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Matches for %q (%d):\n\n", args[0], len(matches))
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s.%s - %s\n", m.Station, m.Entry, m.Doc)
			}
			return nil
		},
	}

	cmd.Flags().Bool("case-sensitive", false, "Match the query case-sensitively")

	return cmd
}
