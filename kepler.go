package orbview

import (
	"fmt"
	"math"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

const (
	defaultMaxIterations = 100
	defaultTolerance     = 1e-9 // radians
)

// KeplerStep selects the update applied when iterating on Kepler's equation.
type KeplerStep uint8

const (
	// NewtonStep is the Newton-Raphson update on E - e·sin(E) - M.
	NewtonStep KeplerStep = iota + 1
	// ReferenceStep uses e·E in place of e·sin(E) in the residual, which makes
	// it converge to M/(1-e) instead of the true eccentric anomaly. It is kept
	// to reproduce drawings made with the historical solver.
	ReferenceStep
)

func (s KeplerStep) String() string {
	switch s {
	case NewtonStep:
		return "newton"
	case ReferenceStep:
		return "reference"
	default:
		return fmt.Sprintf("KeplerStep(%d)", s)
	}
}

// KeplerStepFromString returns the step from its name.
func KeplerStepFromString(name string) (KeplerStep, error) {
	switch strings.ToLower(name) {
	case "", "newton":
		return NewtonStep, nil
	case "reference", "legacy":
		return ReferenceStep, nil
	default:
		return 0, fmt.Errorf("unknown kepler step '%s'", name)
	}
}

// SolveRecorder observes every solve of Kepler's equation.
type SolveRecorder interface {
	RecordSolve(step string, iterations int, converged bool)
}

// SolveRecorderFunc adapts a function to a SolveRecorder.
type SolveRecorderFunc func(step string, iterations int, converged bool)

// RecordSolve calls f.
func (f SolveRecorderFunc) RecordSolve(step string, iterations int, converged bool) {
	f(step, iterations, converged)
}

type nopRecorder struct{}

func (nopRecorder) RecordSolve(string, int, bool) {}

// KeplerSolver propagates orbits by solving Kepler's equation.
// It holds no state between calls and is safe for concurrent use.
type KeplerSolver struct {
	MaxIterations int
	Tolerance     float64
	Step          KeplerStep
	logger        kitlog.Logger
	recorder      SolveRecorder
}

// SolverOption configures a KeplerSolver.
type SolverOption func(*KeplerSolver)

// WithMaxIterations caps the number of iterations.
func WithMaxIterations(n int) SolverOption {
	return func(s *KeplerSolver) { s.MaxIterations = n }
}

// WithTolerance sets the convergence threshold between successive iterates.
func WithTolerance(tol float64) SolverOption {
	return func(s *KeplerSolver) { s.Tolerance = tol }
}

// WithStep sets the iteration update.
func WithStep(step KeplerStep) SolverOption {
	return func(s *KeplerSolver) { s.Step = step }
}

// WithLogger sets the logger used to report non convergence. A nil logger discards.
func WithLogger(logger kitlog.Logger) SolverOption {
	return func(s *KeplerSolver) {
		if logger == nil {
			s.logger = kitlog.NewNopLogger()
			return
		}
		s.logger = kitlog.With(logger, "component", "kepler")
	}
}

// WithRecorder sets the recorder notified after every solve. A nil recorder discards.
func WithRecorder(r SolveRecorder) SolverOption {
	return func(s *KeplerSolver) {
		if r == nil {
			r = nopRecorder{}
		}
		s.recorder = r
	}
}

// NewKeplerSolver returns a solver which defaults to 100 Newton iterations
// with a tolerance of 1e-9 radians. An iteration cap below one or a tolerance
// which is not positive falls back to these defaults.
func NewKeplerSolver(opts ...SolverOption) *KeplerSolver {
	s := &KeplerSolver{defaultMaxIterations, defaultTolerance, NewtonStep, kitlog.NewNopLogger(), nopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.MaxIterations < 1 {
		s.MaxIterations = defaultMaxIterations
	}
	if !(s.Tolerance > 0) {
		s.Tolerance = defaultTolerance
	}
	return s
}

var defaultSolver = NewKeplerSolver()

// Propagate returns the state of the orbit Δt seconds after periapsis passage
// using the default solver.
func Propagate(o Orbit, Δt float64) OrbitTimeSnapshot {
	return defaultSolver.Propagate(o, Δt)
}

// Propagate returns the state of the orbit Δt seconds after periapsis passage.
// It always returns: a solution which did not converge is the last iterate,
// flagged as such in the snapshot.
func (s *KeplerSolver) Propagate(o Orbit, Δt float64) OrbitTimeSnapshot {
	e := o.Eccentricity()
	M := MeanAnomaly(o.MeanMotion(), Δt)
	E, iterations, converged := s.EccentricAnomaly(M, e)
	if s.recorder != nil {
		s.recorder.RecordSolve(s.Step.String(), iterations, converged)
	}
	if !converged && s.logger != nil {
		level.Warn(s.logger).Log("msg", "kepler iteration did not converge", "orbit", o, "dt", Δt, "M", M, "E", E, "iterations", iterations)
	}
	return OrbitTimeSnapshot{
		Orbit:            o,
		Time:             Δt,
		TrueAnomaly:      TrueAnomaly(E, e),
		MeanAnomaly:      M,
		EccentricAnomaly: E,
		Iterations:       iterations,
		Converged:        converged,
	}
}

// EccentricAnomaly solves Kepler's equation for the provided mean anomaly,
// starting from E₀ = M. It returns the last iterate, how many iterations were
// performed and whether successive iterates came within the tolerance.
func (s *KeplerSolver) EccentricAnomaly(M, e float64) (E float64, iterations int, converged bool) {
	E = M
	for iterations = 1; iterations <= s.MaxIterations; iterations++ {
		var residual float64
		if s.Step == ReferenceStep {
			residual = E - e*E - M
		} else {
			residual = E - e*math.Sin(E) - M
		}
		next := E - residual/(1-e*math.Cos(E))
		converged = math.Abs(next-E) < s.Tolerance
		E = next
		if converged {
			return
		}
	}
	// A cap below one performs no iteration.
	return E, iterations - 1, false
}

// MeanAnomaly returns n·Δt reduced into [0, 2π), including for negative Δt.
func MeanAnomaly(n, Δt float64) float64 {
	M := math.Mod(n*Δt, 2*math.Pi)
	if M < 0 {
		M += 2 * math.Pi
	}
	if M >= 2*math.Pi {
		// -ε + 2π may round up.
		M = 0
	}
	return M
}

// TrueAnomaly converts the eccentric anomaly into the true anomaly, in (-π, π].
func TrueAnomaly(E, e float64) float64 {
	sinE2, cosE2 := math.Sincos(E / 2)
	return wrapπ(2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2))
}

// wrapπ maps an angle into (-π, π].
func wrapπ(θ float64) float64 {
	θ = math.Mod(θ, 2*math.Pi)
	if θ > math.Pi {
		θ -= 2 * math.Pi
	} else if θ <= -math.Pi {
		θ += 2 * math.Pi
	}
	return θ
}
