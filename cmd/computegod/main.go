package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/uminoko/computegod/internal/config"
)

// Set via -ldflags at release time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "computegod",
		Short: "Fixpoint workbench - iterate rule universes to convergence",
		Long: `computegod drives rule-based universes toward fixpoints and ships a
guidance desk cataloguing everything the library exports.

Browse the catalogue with 'stations', 'station', 'search' and 'resolve';
run the bundled labs with commands like 'wormhole-lab'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("root", ".", "Project root directory")
	root.PersistentFlags().String("format", "", "Output format: text or json (overrides config)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
			Level:      cfg.SlogLevel(),
			TimeFormat: "15:04:05",
		})))
		return nil
	}

	root.AddCommand(
		newVersionCmd(),
		newStationsCmd(),
		newStationCmd(),
		newSearchCmd(),
		newResolveCmd(),
		newWormholeLabCmd(),
		newHistoryCmd(),
	)

	return root
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	root, _ := cmd.Flags().GetString("root")
	return config.Load(root)
}

// outputFormat resolves the effective output format: the --format flag when
// set, the configured default otherwise.
func outputFormat(cmd *cobra.Command) (string, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		if f != "text" && f != "json" {
			return "", fmt.Errorf("unknown format %q (want text or json)", f)
		}
		return f, nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.Format, nil
}
