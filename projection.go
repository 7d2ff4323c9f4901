package orbview

import (
	"math"

	"github.com/gonum/floats"
)

// HighlightHalfWidth is half the angular width of the arc marking the orbiting body.
const HighlightHalfWidth = 0.01 * math.Pi

const (
	singleOrbitFraction = 0.4 // of the viewport, when a single orbit is drawn
	sharedScaleFraction = 0.5 // of the viewport, for the largest orbit of a scene
)

// EllipseGeometry is the screen space description of a projected orbit.
// StartAngle and EndAngle bound the highlighted arc, as parametric angles.
type EllipseGeometry struct {
	Center               Vector2d[float64]
	RadiusX, RadiusY     float64
	Rotation             float64 // angle between the line of apsides and the X axis, in [0, π]
	StartAngle, EndAngle float64
}

// ScreenRotation returns the rotation to hand to a surface whose Y axis points down.
func (g EllipseGeometry) ScreenRotation() float64 {
	return 2*math.Pi - g.Rotation
}

// PointAt returns the screen point of the ellipse at the parametric angle θ.
func (g EllipseGeometry) PointAt(θ float64) Vector2d[float64] {
	sinθ, cosθ := math.Sincos(θ)
	sinρ, cosρ := math.Sincos(g.ScreenRotation())
	x := g.RadiusX * cosθ
	y := g.RadiusY * sinθ
	return Add(g.Center, Vec2(x*cosρ-y*sinρ, x*sinρ+y*cosρ))
}

// BodyDisc is the screen space description of a body drawn to scale.
type BodyDisc struct {
	Center Vector2d[float64]
	Radius float64
	Color  string
}

// ProjectOrbit projects the orbit of the snapshot into a viewport of the given
// size, centered on center. If maxOrbit is not positive, the orbit alone fills
// the viewport; otherwise its size is normalized against maxOrbit so that
// several orbits share a scale.
func ProjectOrbit(s OrbitTimeSnapshot, center Vector2d[float64], viewport, maxOrbit float64) EllipseGeometry {
	o := s.Orbit
	ecc := o.Eccentricity()
	radiusX := viewport * singleOrbitFraction
	if maxOrbit > 0 {
		radiusX = viewport * sharedScaleFraction * (o.A / maxOrbit)
	}
	ratio := radiusX / o.A
	radiusY := o.A * math.Sqrt(1-ecc*ecc) * ratio
	return EllipseGeometry{
		Center:     center,
		RadiusX:    radiusX,
		RadiusY:    radiusY,
		Rotation:   apsidesRotation(o.E, radiusX),
		StartAngle: s.TrueAnomaly - HighlightHalfWidth,
		EndAngle:   s.TrueAnomaly + HighlightHalfWidth,
	}
}

// apsidesRotation returns the unsigned angle between e and the X axis.
// A circle has no line of apsides: its rotation is zero.
func apsidesRotation(e Vector2d[float64], radiusX float64) float64 {
	ecc := Norm(e)
	if floats.EqualWithinAbs(ecc, 0, circularε) || radiusX == 0 {
		return 0
	}
	cosθ := dot(e, Vec2(radiusX, 0)) / (ecc * radiusX)
	// Rounding may push |cosθ| slightly above 1.
	return math.Acos(math.Max(-1, math.Min(1, cosθ)))
}

// ProjectBody returns the drawable radius of the body in the shared scale.
// Zero is returned if maxOrbit is not positive since there is no scale to draw against.
func ProjectBody(p Planet, viewport, maxOrbit float64) float64 {
	if maxOrbit <= 0 {
		return 0
	}
	return viewport * (p.Radius / maxOrbit)
}

// ProjectBodyDisc returns the filled circle describing the body.
func ProjectBodyDisc(p Planet, center Vector2d[float64], viewport, maxOrbit float64) BodyDisc {
	return BodyDisc{center, ProjectBody(p, viewport, maxOrbit), p.DisplayColor}
}

// MaxOrbit returns the largest semi-major axis of the provided orbits, which
// is the reference size of a multi orbit scene.
func MaxOrbit(orbits ...Orbit) float64 {
	max := 0.0
	for _, o := range orbits {
		if o.A > max {
			max = o.A
		}
	}
	return max
}
