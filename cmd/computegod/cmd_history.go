package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/internal/runlog"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded fixpoint runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.RunLog.Disabled {
				return fmt.Errorf("run recording is disabled in the configuration")
			}

			store, err := runlog.Open(cfg.RunLog.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if format == "json" {
				type runInfo struct {
					ID        string    `json:"id"`
					Command   string    `json:"command"`
					Converged bool      `json:"converged"`
					Epochs    int       `json:"epochs"`
					Delta     float64   `json:"delta"`
					CreatedAt time.Time `json:"created_at"`
				}
				out := make([]runInfo, 0, len(runs))
				for _, r := range runs {
					out = append(out, runInfo(r))
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"runs":  out,
					"count": len(out),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded runs (%d):\n\n", len(runs))
			for i, r := range runs {
				status := "converged"
				if !r.Converged {
					status = "maxed out"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %s - %s after %d epochs (delta %g)\n",
					i+1, r.CreatedAt.Format(time.RFC3339), r.Command, status, r.Epochs, r.Delta)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")

	return cmd
}
