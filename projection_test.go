package orbview

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

var center = Vec2(150.0, 150.0)

func TestProjectOrbitSingle(t *testing.T) {
	s := Propagate(leo, 6000)
	g := ProjectOrbit(s, center, 300, 0)
	if g.Center != center {
		t.Fatalf("center=%s", g.Center)
	}
	if !floats.EqualWithinAbs(g.RadiusX, 120, 1e-12) {
		t.Fatalf("rX=%f", g.RadiusX)
	}
	if exp := 120 * math.Sqrt(0.75); !floats.EqualWithinAbs(g.RadiusY, exp, 1e-9) {
		t.Fatalf("rY=%f want %f", g.RadiusY, exp)
	}
	if exp := math.Acos(0.8); !floats.EqualWithinAbs(g.Rotation, exp, 1e-12) {
		t.Fatalf("rotation=%f want %f", g.Rotation, exp)
	}
	if !floats.EqualWithinAbs(g.EndAngle-g.StartAngle, 2*HighlightHalfWidth, 1e-15) ||
		!floats.EqualWithinAbs((g.StartAngle+g.EndAngle)/2, s.TrueAnomaly, 1e-15) {
		t.Fatalf("arc [%f, %f] not centered on ν=%f", g.StartAngle, g.EndAngle, s.TrueAnomaly)
	}
}

func TestProjectOrbitShared(t *testing.T) {
	s := Propagate(leo, 0)
	g := ProjectOrbit(s, center, 300, 14e6)
	if !floats.EqualWithinAbs(g.RadiusX, 300*0.5*0.5, 1e-12) {
		t.Fatalf("rX=%f", g.RadiusX)
	}
	if g.RadiusX <= g.RadiusY {
		t.Fatalf("rX=%f <= rY=%f for an eccentric orbit", g.RadiusX, g.RadiusY)
	}
	// The largest orbit spans half the viewport.
	if g := ProjectOrbit(s, center, 300, leo.A); !floats.EqualWithinAbs(g.RadiusX, 150, 1e-12) {
		t.Fatalf("rX=%f", g.RadiusX)
	}
}

func TestProjectOrbitScaling(t *testing.T) {
	s := Propagate(Orbit{Vec2(-0.2, 0.35), 9e6, Earth.Mass}, 1234)
	for _, maxOrbit := range []float64{0, 2e7} {
		g0 := ProjectOrbit(s, center, 300, maxOrbit)
		for _, k := range []float64{0.5, 2, 3.7} {
			g1 := ProjectOrbit(s, center, 300*k, maxOrbit)
			if !floats.EqualWithinRel(g1.RadiusX, k*g0.RadiusX, 1e-12) || !floats.EqualWithinRel(g1.RadiusY, k*g0.RadiusY, 1e-12) {
				t.Fatalf("k=%f: radii (%f, %f) not scaled from (%f, %f)", k, g1.RadiusX, g1.RadiusY, g0.RadiusX, g0.RadiusY)
			}
			if !floats.EqualWithinAbs(g1.Rotation, g0.Rotation, 1e-12) {
				t.Fatalf("k=%f: rotation changed %f -> %f", k, g0.Rotation, g1.Rotation)
			}
		}
	}
}

func TestProjectOrbitCircular(t *testing.T) {
	s := Propagate(Orbit{Vec2(0.0, 0.0), 7e6, Earth.Mass}, 1000)
	g := ProjectOrbit(s, center, 300, 0)
	if math.IsNaN(g.Rotation) || g.Rotation != 0 {
		t.Fatalf("rotation=%f", g.Rotation)
	}
	if !floats.EqualWithinAbs(g.RadiusX, g.RadiusY, 1e-12) {
		t.Fatalf("circle projected as (%f, %f)", g.RadiusX, g.RadiusY)
	}
	if g := ProjectOrbit(s, center, 0, 0); g.Rotation != 0 {
		t.Fatalf("null viewport rotation=%f", g.Rotation)
	}
}

func TestApsidesRotation(t *testing.T) {
	for _, tc := range []struct {
		e   Vector2d[float64]
		exp float64
	}{
		{Vec2(0.5, 0.0), 0},
		{Vec2(0.0, 0.5), math.Pi / 2},
		{Vec2(-0.5, 0.0), math.Pi},
		// The sign of the angle is lost.
		{Vec2(0.0, -0.5), math.Pi / 2},
		{Vec2(0.3, -0.3), math.Pi / 4},
	} {
		if r := apsidesRotation(tc.e, 100); !floats.EqualWithinAbs(r, tc.exp, 1e-12) {
			t.Errorf("e=%s: rotation=%f want %f", tc.e, r, tc.exp)
		}
	}
}

func TestEllipsePointAt(t *testing.T) {
	g := EllipseGeometry{Center: center, RadiusX: 100, RadiusY: 50}
	if p := g.PointAt(0); !vectorsEqual(p, Vec2(250.0, 150.0)) {
		t.Fatalf("p(0)=%s", p)
	}
	if p := g.PointAt(math.Pi / 2); !vectorsEqual(p, Vec2(150.0, 200.0)) {
		t.Fatalf("p(π/2)=%s", p)
	}
	// Periapsis up the screen: the surface rotates by 2π - π/2.
	g.Rotation = math.Pi / 2
	if p := g.PointAt(0); !vectorsEqual(p, Vec2(150.0, 50.0)) {
		t.Fatalf("rotated p(0)=%s", p)
	}
}

func TestProjectBody(t *testing.T) {
	if r := ProjectBody(Earth, 300, 30e6); !floats.EqualWithinAbs(r, 300*Earth.Radius/30e6, 1e-12) {
		t.Fatalf("r=%f", r)
	}
	if r := ProjectBody(Earth, 300, 0); r != 0 {
		t.Fatalf("r=%f without a reference orbit", r)
	}
	d := ProjectBodyDisc(Mars, center, 300, 30e6)
	if d.Center != center || d.Color != Mars.DisplayColor || d.Radius != ProjectBody(Mars, 300, 30e6) {
		t.Fatalf("disc=%+v", d)
	}
}

func TestMaxOrbit(t *testing.T) {
	if m := MaxOrbit(); m != 0 {
		t.Fatalf("max of nothing=%f", m)
	}
	if m := MaxOrbit(leo, Orbit{A: 4.2e7}, Orbit{A: 1e6}); m != 4.2e7 {
		t.Fatalf("max=%f", m)
	}
}
