package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/desk"
)

func newStationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List the guidance desk stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			stations := desk.Default().Stations()

			if format == "json" {
				type stationInfo struct {
					Name        string `json:"name"`
					Description string `json:"description"`
					Entries     int    `json:"entries"`
				}
				out := make([]stationInfo, 0, len(stations))
				for _, s := range stations {
					out = append(out, stationInfo{Name: s.Name(), Description: s.Description(), Entries: s.Len()})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"stations": out,
					"count":    len(out),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Guidance desk stations (%d):\n\n", len(stations))
			for _, s := range stations {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s (%d entries)\n", s.Name(), s.Description(), s.Len())
			}
			return nil
		},
	}
}
