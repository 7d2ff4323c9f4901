package orbview

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
	"github.com/spf13/viper"
)

const scenarioTOML = `
[viewport]
size = 600.0
center_x = 300.0
center_y = 310.0

[primary]
planet = "mars"

[solver]
step = "reference"
max_iterations = 50

[render]
step_seconds = 60.0
frames = 12
output = "frames"

[[orbit]]
name = "phobos-ish"
ex = 0.015
ey = 0.0
a = 9.376e6

[[orbit]]
name = "transfer"
periapsis = 4.0e6
apoapsis = 2.0e7
arg_periapsis = 90.0
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, t.TempDir(), "mars.toml", scenarioTOML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Scene.Viewport != 600 || sc.Scene.Center != Vec2(300.0, 310.0) {
		t.Fatalf("viewport %f at %s", sc.Scene.Viewport, sc.Scene.Center)
	}
	if sc.Scene.Primary != Mars {
		t.Fatalf("primary=%s", sc.Scene.Primary)
	}
	if sc.Step != ReferenceStep || sc.MaxIter != 50 || sc.Tolerance != defaultTolerance {
		t.Fatalf("solver %s %d %g", sc.Step, sc.MaxIter, sc.Tolerance)
	}
	if sc.FrameStep != 60 || sc.Frames != 12 || sc.Output != "frames" {
		t.Fatalf("render %f %d %s", sc.FrameStep, sc.Frames, sc.Output)
	}
	if len(sc.Scene.Orbits) != 2 || sc.OrbitNames[0] != "phobos-ish" || sc.OrbitNames[1] != "transfer" {
		t.Fatalf("orbits %v", sc.OrbitNames)
	}
	phobos := sc.Scene.Orbits[0]
	if phobos.Mue != Mars.Mass || phobos.A != 9.376e6 {
		t.Fatalf("phobos=%s", phobos)
	}
	transfer := sc.Scene.Orbits[1]
	if !floats.EqualWithinAbs(transfer.A, 1.2e7, 1e-6) || !floats.EqualWithinAbs(transfer.Eccentricity(), 2.0/3, 1e-12) {
		t.Fatalf("transfer=%s", transfer)
	}
	if !floats.EqualWithinAbs(transfer.ArgPeriapsis(), math.Pi/2, 1e-12) {
		t.Fatalf("transfer ω=%f", transfer.ArgPeriapsis())
	}
	solver := sc.Solver(kitlog.NewNopLogger())
	if solver.Step != ReferenceStep || solver.MaxIterations != 50 {
		t.Fatalf("solver=%+v", solver)
	}
}

func TestLoadScenarioFromEnv(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "scenario.toml", "[primary]\nplanet = \"jupiter\"\n")
	t.Setenv(ConfigEnv, dir)
	t.Setenv("ORBVIEW_VIEWPORT_SIZE", "800")
	sc, err := LoadScenario("")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Scene.Primary != Jupiter || sc.Scene.Viewport != 800 {
		t.Fatalf("primary=%s viewport=%f", sc.Scene.Primary, sc.Scene.Viewport)
	}
	// Without orbits, the reference orbit is drawn.
	if len(sc.Scene.Orbits) != 1 || sc.Scene.Orbits[0].A != 6.571e6 || sc.Scene.Orbits[0].Mue != Jupiter.Mass {
		t.Fatalf("orbits=%v", sc.Scene.Orbits)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	if _, err := LoadScenario(""); err == nil {
		t.Fatal("expected an error without a scenario")
	}
	dir := t.TempDir()
	if _, err := LoadScenario(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	for name, content := range map[string]string{
		"planet.toml":    "[primary]\nplanet = \"vulcan\"\n",
		"step.toml":      "[solver]\nstep = \"halley\"\n",
		"viewport.toml":  "[viewport]\nsize = -1.0\n",
		"hyperbola.toml": "[[orbit]]\nex = 1.2\na = 7e6\n",
		"radii.toml":     "[[orbit]]\nperiapsis = 2e7\napoapsis = 4e6\n",
		"iter0.toml":     "[solver]\nmax_iterations = 0\n",
		"iterneg.toml":   "[solver]\nmax_iterations = -5\n",
		"tol0.toml":      "[solver]\ntolerance = 0.0\n",
		"tolneg.toml":    "[solver]\ntolerance = -1e-9\n",
		"tolnan.toml":    "[solver]\ntolerance = nan\n",
		"tolinf.toml":    "[solver]\ntolerance = inf\n",
		"malformed.toml": "[solver\nstep = \n",
	} {
		if _, err := LoadScenario(writeScenario(t, dir, name, content)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
	_, err := LoadScenario(writeScenario(t, dir, "bad.toml", "[[orbit]]\na = -1.0\n"))
	if !errors.Is(err, ErrInvalidElements) {
		t.Fatalf("expected ErrInvalidElements, got %v", err)
	}
}

func TestScenarioDefaults(t *testing.T) {
	v := viper.New()
	SetScenarioDefaults(v)
	sc, err := ScenarioFromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Scene.Viewport != 300 || sc.Scene.Center != Vec2(150.0, 150.0) || sc.Scene.Primary != Earth {
		t.Fatalf("scene=%+v", sc.Scene)
	}
	if ok, err := sc.Scene.Orbits[0].Equals(Orbit{Vec2(0.4, 0.3), 6.571e6, Earth.Mass}); !ok {
		t.Fatal(err)
	}
	if sc.Step != NewtonStep || sc.MaxIter != defaultMaxIterations || sc.Frames != 1 || sc.FrameStep != 10 {
		t.Fatalf("scenario=%+v", sc)
	}
}

func TestScenarioSolverLimits(t *testing.T) {
	for key, value := range map[string]any{
		"solver.max_iterations": -5,
		"solver.tolerance":      0.0,
	} {
		v := viper.New()
		SetScenarioDefaults(v)
		v.Set(key, value)
		if _, err := ScenarioFromViper(v); err == nil || !strings.Contains(err.Error(), "solver") {
			t.Fatalf("%s=%v: expected a solver error, got %v", key, value, err)
		}
	}
}

func TestReadScenarioWithoutFile(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	v := viper.New()
	if err := ReadScenario(v, ""); !errors.Is(err, ErrNoScenario) {
		t.Fatalf("expected ErrNoScenario, got %v", err)
	}
	// The defaults are still usable.
	if sc, err := ScenarioFromViper(v); err != nil || sc.Scene.Viewport != 300 {
		t.Fatalf("sc=%v err=%v", sc, err)
	}
}
