package orbview

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

// G is the gravitational constant in m^3 kg^-1 s^-2.
const G = 6.67430e-11

const (
	circularε     = 1e-12 // below this, the line of apsides is undefined
	eccentricityε = 5e-5
	distanceε     = 1 // 1 m
	mueε          = 1e-12
)

// ErrInvalidElements is returned when orbital elements cannot describe a bound ellipse.
var ErrInvalidElements = errors.New("invalid orbital elements")

// Orbit defines a planar elliptical orbit.
// NOTE: Mue is multiplied by G in every formula, so it is the mass of the
// primary body in kg rather than a gravitational parameter proper.
type Orbit struct {
	E   Vector2d[float64] // Eccentricity vector, points to periapsis
	A   float64           // Semi-major axis in meters
	Mue float64           // Primary mass parameter
}

// Eccentricity returns the scalar eccentricity.
func (o Orbit) Eccentricity() float64 {
	return Norm(o.E)
}

// MeanMotion returns the mean motion in radians per second.
func (o Orbit) MeanMotion() float64 {
	return math.Sqrt(G * o.Mue / math.Pow(o.A, 3))
}

// Period returns the period of this orbit.
func (o Orbit) Period() time.Duration {
	return time.Duration(o.PeriodSeconds() * float64(time.Second))
}

// PeriodSeconds returns the period of this orbit in seconds.
func (o Orbit) PeriodSeconds() float64 {
	return 2 * math.Pi / o.MeanMotion()
}

// SemiParameter returns the semi parameter p.
func (o Orbit) SemiParameter() float64 {
	e := o.Eccentricity()
	return o.A * (1 - e*e)
}

// Apoapsis returns the apoapsis radius.
func (o Orbit) Apoapsis() float64 {
	return o.A * (1 + o.Eccentricity())
}

// Periapsis returns the periapsis radius.
func (o Orbit) Periapsis() float64 {
	return o.A * (1 - o.Eccentricity())
}

// RNorm returns the distance to the focus at the provided true anomaly.
func (o Orbit) RNorm(ν float64) float64 {
	return o.SemiParameter() / (1 + o.Eccentricity()*math.Cos(ν))
}

// ArgPeriapsis returns the signed angle from the X axis to periapsis.
// A circular orbit has no line of apsides, so zero is returned.
func (o Orbit) ArgPeriapsis() float64 {
	if o.Eccentricity() < circularε {
		return 0
	}
	return math.Atan2(o.E.Y, o.E.X)
}

// IsCircular returns whether the eccentricity vector is (numerically) null.
func (o Orbit) IsCircular() bool {
	return floats.EqualWithinAbs(o.Eccentricity(), 0, circularε)
}

// String implements the stringer interface.
func (o Orbit) String() string {
	if o.IsCircular() {
		return fmt.Sprintf("a=%.1f e=0 μ=%g", o.A, o.Mue)
	}
	return fmt.Sprintf("a=%.1f e=%.4f ω=%.3f μ=%g", o.A, o.Eccentricity(), o.ArgPeriapsis()*180/math.Pi, o.Mue)
}

// Equals returns whether two orbits are identical.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if !floats.EqualWithinAbs(o.A, o1.A, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.E.X, o1.E.X, eccentricityε) || !floats.EqualWithinAbs(o.E.Y, o1.E.Y, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinRel(o.Mue, o1.Mue, mueε) {
		return false, errors.New("mass parameter invalid")
	}
	return true, nil
}

// NewOrbit returns a validated orbit. A circular orbit (null e) is valid.
func NewOrbit(e Vector2d[float64], a, mue float64) (Orbit, error) {
	for _, v := range []float64{e.X, e.Y, a, mue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Orbit{}, fmt.Errorf("%w: non finite value", ErrInvalidElements)
		}
	}
	if a <= 0 {
		return Orbit{}, fmt.Errorf("%w: semi major axis must be positive (got %g)", ErrInvalidElements, a)
	}
	if mue <= 0 {
		return Orbit{}, fmt.Errorf("%w: mass parameter must be positive (got %g)", ErrInvalidElements, mue)
	}
	if ecc := Norm(e); ecc >= 1 {
		return Orbit{}, fmt.Errorf("%w: eccentricity %f is not elliptical", ErrInvalidElements, ecc)
	}
	return Orbit{e, a, mue}, nil
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
