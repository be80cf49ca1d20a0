// Command wsnsim runs the WSN tree/mesh discrete-event simulation from
// a YAML config file, in the spirit of ployzd's cobra root command
// (_examples/getployz-ployz/cmd/ployzd/main.go): a small root command,
// flags bound directly into local variables, one subcommand per verb.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kprusa/wsnsim/config"
	"github.com/kprusa/wsnsim/runner"
	"github.com/kprusa/wsnsim/trace"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.WithField("err", err).Error("command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wsnsim",
		Short: "Discrete-event simulator for a self-organising WSN tree/mesh network",
	}
	cmd.AddCommand(runCmd(), validateCmd())
	return cmd
}

func runCmd() *cobra.Command {
	var configPath string
	var outDir string
	var seed int64
	var nodeCount int
	var duration float64
	txRangeOverrides := map[string]string{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and emit CSV traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("nodes") {
				cfg.SimNodeCount = nodeCount
			}
			if cmd.Flags().Changed("duration") {
				cfg.SimDuration = duration
			}
			for level, rng := range txRangeOverrides {
				l, err := strconv.Atoi(level)
				if err != nil {
					return fmt.Errorf("--tx-range key %q must be an integer power level: %w", level, err)
				}
				r, err := strconv.ParseFloat(rng, 64)
				if err != nil {
					return fmt.Errorf("--tx-range value %q must be a float: %w", rng, err)
				}
				cfg.NodeTxRanges[l] = r
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			rec, err := trace.NewCSVRecorder(outDir)
			if err != nil {
				return fmt.Errorf("open trace output: %w", err)
			}
			defer rec.Close()

			result, err := runner.Run(&cfg, rec)
			if err != nil {
				return fmt.Errorf("run simulation: %w", err)
			}
			fmt.Printf("run %s: %d/%d nodes registered in %.2fs simulated time\n",
				result.RunID, result.Registered, result.NodeCount, result.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults applied for any key it omits)")
	cmd.Flags().StringVar(&outDir, "out", "traces", "directory to write CSV trace files into")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override the config's PRNG seed")
	cmd.Flags().IntVar(&nodeCount, "nodes", 0, "override the config's node count")
	cmd.Flags().Float64Var(&duration, "duration", 0, "override the config's simulated duration, in seconds")
	var flags *pflag.FlagSet = cmd.Flags()
	flags.StringToStringVar(&txRangeOverrides, "tx-range", nil, "override node_tx_ranges entries as level=meters (repeatable)")
	return cmd
}

func validateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate a config file without running a simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			fmt.Printf("config ok: %d nodes, %d clusters available\n", cfg.SimNodeCount, cfg.NumOfClusters())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	return cmd
}
