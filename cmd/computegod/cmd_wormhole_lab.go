package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/domains/wormhole"
	"github.com/uminoko/computegod/internal/runlog"
)

func newWormholeLabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wormhole-lab",
		Short: "Relax a wormhole diagram to its fixpoint and summarize the bridges",
		Long: `Load a YAML scenario describing diagram legs and propagators, relax the
leg weights to a fixpoint, and report the propagators that bridge the two
boundaries.

Example scenario:

  legs:
    - label: in
      boundary: left
    - label: out
      boundary: right
  propagators:
    - source: in
      target: out
      amplitude: 2.0
      proper_time: 1.0
  temperature: 1.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("scenario")
			epsilon, _ := cmd.Flags().GetFloat64("epsilon")
			maxEpoch, _ := cmd.Flags().GetInt("max-epoch")

			scenario, err := wormhole.LoadScenario(path)
			if err != nil {
				return err
			}

			cfg := wormhole.DefaultLabConfig()
			cfg.Epsilon = epsilon
			cfg.MaxEpoch = maxEpoch

			summary, err := scenario.Run(cfg)
			if err != nil {
				return err
			}
			slog.Debug("wormhole lab finished",
				"epochs", summary.Epochs,
				"converged", summary.Converged,
				"bridges", summary.Bridges)

			if err := recordRun(cmd, "wormhole-lab", summary); err != nil {
				// Recording is best-effort; the run itself succeeded.
				slog.Warn("could not record run", "err", err)
			}

			if format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wormhole lab (T=%g):\n", summary.Temperature)
			fmt.Fprintf(out, "  Bridges:          %d\n", summary.Bridges)
			fmt.Fprintf(out, "  Total amplitude:  %g\n", summary.TotalAmplitude)
			fmt.Fprintf(out, "  Mean proper time: %g\n", summary.MeanProperTime)
			fmt.Fprintf(out, "  Partition weight: %g\n", summary.PartitionWeight)
			fmt.Fprintf(out, "  Epochs:           %d (converged: %v, delta: %g)\n", summary.Epochs, summary.Converged, summary.Delta)
			fmt.Fprintln(out, "\nRelaxed leg weights:")

			labels := make([]string, 0, len(summary.Weights))
			for label := range summary.Weights {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, label := range labels {
				fmt.Fprintf(out, "  %-12s %.6f\n", label, summary.Weights[label])
			}
			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Path to the YAML scenario file (required)")
	cmd.Flags().Float64("epsilon", wormhole.DefaultLabConfig().Epsilon, "Convergence threshold")
	cmd.Flags().Int("max-epoch", wormhole.DefaultLabConfig().MaxEpoch, "Epoch bound")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

// recordRun appends the run to the local history store unless recording is
// disabled in the configuration. The summary's delta is persisted alongside
// the permissive converged flag; a delta above epsilon is what marks a run
// that exhausted its epoch budget.
func recordRun(cmd *cobra.Command, command string, summary wormhole.BridgeSummary) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.RunLog.Disabled {
		return nil
	}

	store, err := runlog.Open(cfg.RunLog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(cmd.Context(), runlog.Run{
		Command:   command,
		Converged: summary.Converged,
		Epochs:    summary.Epochs,
		Delta:     summary.Delta,
	})
	return err
}
