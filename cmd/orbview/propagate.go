package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/orbview"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Print the state of an orbit after some time",
	RunE:  runPropagate,
}

func init() {
	f := propagateCmd.Flags()
	f.Float64("ex", 0.4, "eccentricity vector X component")
	f.Float64("ey", 0.3, "eccentricity vector Y component")
	f.Float64("a", 6.571e6, "semi-major axis in meters")
	f.Float64("mue", 0, "primary mass parameter (default: mass of --planet)")
	f.String("planet", "earth", "primary body")
	f.Float64("t", 0, "seconds since periapsis passage")
	f.Bool("json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(propagateCmd)
}

// snapshotView is the printed form of a snapshot.
type snapshotView struct {
	Name             string  `json:"name,omitempty"`
	Time             float64 `json:"time"`
	MeanAnomaly      float64 `json:"mean_anomaly"`
	EccentricAnomaly float64 `json:"eccentric_anomaly"`
	TrueAnomaly      float64 `json:"true_anomaly"`
	Radius           float64 `json:"radius"`
	Speed            float64 `json:"speed"`
	Iterations       int     `json:"iterations"`
	Converged        bool    `json:"converged"`
}

func newSnapshotView(name string, s orbview.OrbitTimeSnapshot) snapshotView {
	return snapshotView{name, s.Time, s.MeanAnomaly, s.EccentricAnomaly, s.TrueAnomaly, s.Radius(), s.Speed(), s.Iterations, s.Converged}
}

func runPropagate(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	f := cmd.Flags()
	ex, _ := f.GetFloat64("ex")
	ey, _ := f.GetFloat64("ey")
	a, _ := f.GetFloat64("a")
	mue, _ := f.GetFloat64("mue")
	name, _ := f.GetString("planet")
	dt, _ := f.GetFloat64("t")
	asJSON, _ := f.GetBool("json")

	planet, err := orbview.PlanetFromString(name)
	if err != nil {
		return err
	}
	if mue == 0 {
		mue = planet.Mass
	}
	orbit, err := orbview.NewOrbit(orbview.Vec2(ex, ey), a, mue)
	if err != nil {
		return err
	}
	step, err := orbview.KeplerStepFromString(viper.GetString("solver.step"))
	if err != nil {
		return err
	}
	solver := orbview.NewKeplerSolver(orbview.WithStep(step), orbview.WithLogger(logger), solveMetrics)
	snapshot := solver.Propagate(orbit, dt)
	level.Debug(logger).Log("msg", "propagated", "orbit", orbit, "period", orbit.Period(), "step", step)
	if math.IsNaN(snapshot.Speed()) {
		level.Warn(logger).Log("msg", "speed is NaN, orbital elements are degenerate", "orbit", orbit)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newSnapshotView("", snapshot))
	}
	fmt.Fprintf(out, "orbit: %s\n", orbit)
	fmt.Fprintf(out, "state: %s\n", snapshot)
	fmt.Fprintf(out, "velocity (m/s): %f\n", snapshot.Speed())
	return nil
}
