package orbview

// Drawer paints projected geometry onto a surface.
type Drawer interface {
	DrawOrbitEllipse(g EllipseGeometry)
	DrawBody(b BodyDisc)
}

// Scene is a primary body and the orbits around it, drawn in a square viewport.
type Scene struct {
	Center   Vector2d[float64]
	Viewport float64
	Primary  Planet
	Orbits   []Orbit
}

// Render propagates every orbit of the scene by Δt and draws it.
// A scene with a single orbit uses the whole viewport; otherwise all orbits
// share the scale of the largest one and the primary is drawn to that scale.
func (sc Scene) Render(d Drawer, solver *KeplerSolver, Δt float64) []OrbitTimeSnapshot {
	maxOrbit := 0.0
	if len(sc.Orbits) > 1 {
		maxOrbit = MaxOrbit(sc.Orbits...)
	}
	if maxOrbit > 0 {
		d.DrawBody(ProjectBodyDisc(sc.Primary, sc.Center, sc.Viewport, maxOrbit))
	}
	snapshots := make([]OrbitTimeSnapshot, len(sc.Orbits))
	for i, o := range sc.Orbits {
		snapshots[i] = solver.Propagate(o, Δt)
		d.DrawOrbitEllipse(ProjectOrbit(snapshots[i], sc.Center, sc.Viewport, maxOrbit))
	}
	return snapshots
}
