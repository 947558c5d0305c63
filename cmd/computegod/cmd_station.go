package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/desk"
)

func newStationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "station <name>",
		Short: "Show one station's catalogued entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			station, ok := desk.Default().Station(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", desk.ErrUnknownStation, args[0])
			}

			if format == "json" {
				type entryInfo struct {
					Name string `json:"name"`
					Kind string `json:"kind"`
					Doc  string `json:"doc"`
				}
				entries := make([]entryInfo, 0, station.Len())
				for _, e := range station.Entries() {
					entries = append(entries, entryInfo{Name: e.Name, Kind: e.Kind, Doc: e.Doc})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"station":     station.Name(),
					"description": station.Description(),
					"entries":     entries,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n\n", station.Name(), station.Description())
			for _, e := range station.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s [%s] %s\n", e.Name, e.Kind, e.Doc)
			}
			return nil
		},
	}
}
