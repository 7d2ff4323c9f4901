package orbview

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of scenario.toml,
// used when no scenario path is provided.
const ConfigEnv = "ORBVIEW_CONFIG"

// ErrNoScenario is returned when neither a scenario path nor ORBVIEW_CONFIG is set.
var ErrNoScenario = errors.New("no scenario provided")

// orbitConf is one [[orbit]] table. Either a or both radii must be set.
type orbitConf struct {
	Name         string  `mapstructure:"name"`
	Ex           float64 `mapstructure:"ex"`
	Ey           float64 `mapstructure:"ey"`
	A            float64 `mapstructure:"a"`
	Mue          float64 `mapstructure:"mue"`
	Periapsis    float64 `mapstructure:"periapsis"`
	Apoapsis     float64 `mapstructure:"apoapsis"`
	ArgPeriapsis float64 `mapstructure:"arg_periapsis"` // degrees
}

func (c orbitConf) orbit(primary Planet) (Orbit, error) {
	mue := c.Mue
	if mue == 0 {
		mue = primary.Mass
	}
	if c.A == 0 && c.Apoapsis > 0 && c.Periapsis > 0 {
		if c.Apoapsis < c.Periapsis {
			return Orbit{}, fmt.Errorf("%w: periapsis greater than apoapsis", ErrInvalidElements)
		}
		a, e := Radii2ae(c.Apoapsis, c.Periapsis)
		sinω, cosω := math.Sincos(c.ArgPeriapsis * math.Pi / 180)
		return NewOrbit(Vec2(e*cosω, e*sinω), a, mue)
	}
	return NewOrbit(Vec2(c.Ex, c.Ey), c.A, mue)
}

// Scenario is a scene along with how to propagate and render it.
type Scenario struct {
	Scene      Scene
	OrbitNames []string
	Step       KeplerStep
	MaxIter    int
	Tolerance  float64
	FrameStep  float64 // seconds between two frames
	Frames     int
	Output     string // directory where frames are written
}

// Solver returns the Kepler solver configured by this scenario, further
// configured by opts.
func (s *Scenario) Solver(logger kitlog.Logger, opts ...SolverOption) *KeplerSolver {
	base := []SolverOption{WithStep(s.Step), WithMaxIterations(s.MaxIter), WithTolerance(s.Tolerance), WithLogger(logger)}
	return NewKeplerSolver(append(base, opts...)...)
}

// SetScenarioDefaults sets the defaults of a scenario, which reproduce the
// reference drawing: a 300 px canvas and an eccentric low Earth orbit.
func SetScenarioDefaults(v *viper.Viper) {
	v.SetDefault("viewport.size", 300.0)
	v.SetDefault("viewport.center_x", 150.0)
	v.SetDefault("viewport.center_y", 150.0)
	v.SetDefault("primary.planet", "earth")
	v.SetDefault("solver.step", NewtonStep.String())
	v.SetDefault("solver.max_iterations", defaultMaxIterations)
	v.SetDefault("solver.tolerance", defaultTolerance)
	v.SetDefault("render.step_seconds", 10.0)
	v.SetDefault("render.frames", 1)
	v.SetDefault("render.output", ".")
}

// LoadScenario reads the scenario TOML file at path. If path is empty, the
// file scenario.toml is looked up in the directory named by ORBVIEW_CONFIG.
// Settings may be overwritten by ORBVIEW_ prefixed environment variables,
// e.g. ORBVIEW_VIEWPORT_SIZE.
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	if err := ReadScenario(v, path); err != nil {
		return nil, err
	}
	return ScenarioFromViper(v)
}

// ReadScenario sets the scenario defaults and environment overrides on v, then
// reads the scenario file as LoadScenario does. ErrNoScenario is returned,
// with the defaults in place, when there is no file to read.
func ReadScenario(v *viper.Viper, path string) error {
	SetScenarioDefaults(v)
	v.SetEnvPrefix("ORBVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		confPath := os.Getenv(ConfigEnv)
		if confPath == "" {
			return fmt.Errorf("%w: environment variable `%s` is missing or empty", ErrNoScenario, ConfigEnv)
		}
		v.SetConfigName("scenario")
		v.SetConfigType("toml")
		v.AddConfigPath(confPath)
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read scenario: %w", err)
	}
	return nil
}

// ScenarioFromViper builds a scenario from already loaded settings.
func ScenarioFromViper(v *viper.Viper) (*Scenario, error) {
	primary, err := PlanetFromString(v.GetString("primary.planet"))
	if err != nil {
		return nil, err
	}
	step, err := KeplerStepFromString(v.GetString("solver.step"))
	if err != nil {
		return nil, err
	}
	var confs []orbitConf
	if err := v.UnmarshalKey("orbit", &confs); err != nil {
		return nil, fmt.Errorf("could not understand [[orbit]]: %w", err)
	}
	if len(confs) == 0 {
		confs = []orbitConf{{Name: "default", Ex: 0.4, Ey: 0.3, A: 6.571e6}}
	}
	sc := &Scenario{
		Scene: Scene{
			Center:   Vec2(v.GetFloat64("viewport.center_x"), v.GetFloat64("viewport.center_y")),
			Viewport: v.GetFloat64("viewport.size"),
			Primary:  primary,
		},
		Step:      step,
		MaxIter:   v.GetInt("solver.max_iterations"),
		Tolerance: v.GetFloat64("solver.tolerance"),
		FrameStep: v.GetFloat64("render.step_seconds"),
		Frames:    v.GetInt("render.frames"),
		Output:    v.GetString("render.output"),
	}
	if sc.Scene.Viewport <= 0 {
		return nil, fmt.Errorf("viewport size must be positive (got %f)", sc.Scene.Viewport)
	}
	if sc.MaxIter < 1 {
		return nil, fmt.Errorf("solver max_iterations must be at least 1 (got %d)", sc.MaxIter)
	}
	if !(sc.Tolerance > 0) || math.IsInf(sc.Tolerance, 0) {
		return nil, fmt.Errorf("solver tolerance must be positive and finite (got %g)", sc.Tolerance)
	}
	for i, c := range confs {
		o, err := c.orbit(primary)
		if err != nil {
			return nil, fmt.Errorf("orbit #%d (%s): %w", i, c.Name, err)
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("orbit-%d", i)
		}
		sc.Scene.Orbits = append(sc.Scene.Orbits, o)
		sc.OrbitNames = append(sc.OrbitNames, name)
	}
	return sc, nil
}
