package orbview

import (
	"fmt"
	"math"
)

// OrbitTimeSnapshot is the state of an orbit at a given time. Only a
// KeplerSolver creates these.
type OrbitTimeSnapshot struct {
	Orbit            Orbit   // copy of the propagated orbit
	Time             float64 // seconds since periapsis passage
	TrueAnomaly      float64 // ν in (-π, π]
	MeanAnomaly      float64 // M in [0, 2π)
	EccentricAnomaly float64 // E as returned by the solver
	Iterations       int
	Converged        bool
}

// Radius returns the distance to the focus from the orbit equation.
func (s OrbitTimeSnapshot) Radius() float64 {
	return s.Orbit.RNorm(s.TrueAnomaly)
}

// Speed returns the instantaneous speed from the vis-viva equation.
// A NaN is returned for degenerate orbits where the radius is not positive.
func (s OrbitTimeSnapshot) Speed() float64 {
	r := s.Radius()
	if r <= 0 {
		return math.NaN()
	}
	return math.Sqrt(G * s.Orbit.Mue * (2/r - 1/s.Orbit.A))
}

// String implements the stringer interface.
func (s OrbitTimeSnapshot) String() string {
	return fmt.Sprintf("t=%.1fs ν=%.3f° r=%.1f v=%.3f (%d iterations)", s.Time, s.TrueAnomaly*180/math.Pi, s.Radius(), s.Speed(), s.Iterations)
}
