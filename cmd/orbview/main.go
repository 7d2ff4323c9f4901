package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ChristopherRabotin/orbview"
	"github.com/ChristopherRabotin/orbview/metrics"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:               "orbview",
	Short:             "Propagate and draw planar Keplerian orbits",
	Long:              "orbview solves Kepler's equation for elliptical orbits and projects them onto a 2D viewport as SVG.",
	PersistentPreRunE: initConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "scenario TOML file (default $ORBVIEW_CONFIG/scenario.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("step", orbview.NewtonStep.String(), "kepler iteration step (newton or reference)")
	_ = viper.BindPFlag("solver.step", rootCmd.PersistentFlags().Lookup("step"))
}

// initConfig reads the scenario into the global viper, which also holds the bound flags.
func initConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	err := orbview.ReadScenario(viper.GetViper(), cfgFile)
	if cfgFile == "" {
		// Without --config, a missing scenario draws the reference orbit.
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, orbview.ErrNoScenario) || errors.As(err, &notFound) {
			return nil
		}
	}
	return err
}

// newLogger returns a logfmt logger on stderr, at debug level if verbose.
func newLogger(cmd *cobra.Command) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// loadScenario returns the scenario from the loaded configuration.
func loadScenario() (*orbview.Scenario, error) {
	return orbview.ScenarioFromViper(viper.GetViper())
}

// solveMetrics exports every solve to Prometheus.
var solveMetrics = orbview.WithRecorder(orbview.SolveRecorderFunc(metrics.RecordSolve))
