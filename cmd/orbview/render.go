package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChristopherRabotin/orbview"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the scenario as a sequence of SVG frames",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("prefix", "frame", "frame file name prefix")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	sc, err := loadScenario()
	if err != nil {
		return err
	}
	prefix, _ := cmd.Flags().GetString("prefix")
	if err := os.MkdirAll(sc.Output, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	files, err := renderFrames(sc, sc.Solver(logger, solveMetrics), prefix, logger)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "render complete", "frames", len(files), "output", sc.Output)
	return nil
}

// renderFrames writes one SVG file per frame and returns their paths.
func renderFrames(sc *orbview.Scenario, solver *orbview.KeplerSolver, prefix string, logger kitlog.Logger) ([]string, error) {
	frames := sc.Frames
	if frames < 1 {
		frames = 1
	}
	files := make([]string, 0, frames)
	for i := 0; i < frames; i++ {
		dt := float64(i) * sc.FrameStep
		drawer := orbview.NewSVGDrawer(sc.Scene.Viewport, sc.Scene.Viewport)
		snapshots := sc.Scene.Render(drawer, solver, dt)
		name := filepath.Join(sc.Output, fmt.Sprintf("%s-%04d.svg", prefix, i))
		if err := os.WriteFile(name, drawer.Bytes(), 0o644); err != nil {
			return files, fmt.Errorf("could not write frame %d: %w", i, err)
		}
		for j, s := range snapshots {
			level.Debug(logger).Log("frame", i, "orbit", sc.OrbitNames[j], "state", s)
		}
		files = append(files, name)
	}
	return files, nil
}
