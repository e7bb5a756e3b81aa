package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	logLevel     string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "hocsim",
	Short: "Stochastic contagion simulator for higher-order networks",
}

// runCmd loads a scenario file, builds the named variant, evolves it,
// and prints every attached measurement hook's result.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a contagion scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := LoadScenarioConfig(scenarioPath)
		if err != nil {
			return err
		}

		edges, err := LoadEdgeList(cfg.EdgeListPath)
		if err != nil {
			return err
		}

		logrus.Infof("building variant=%s from %s (%d edges)", cfg.Variant, cfg.EdgeListPath, len(edges))

		return runScenario(cfg, edges)
	},
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a scenario YAML file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
