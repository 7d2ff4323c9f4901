package orbview

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// SVG drawing constants, matching the reference canvas.
const (
	orbitStrokeColor     = "#000"
	orbitStrokeWidth     = 1.0
	highlightStrokeColor = "red"
	highlightStrokeWidth = 10.0
	backgroundColor      = "white"
)

// SVGDrawer is a Drawer which produces an SVG document.
type SVGDrawer struct {
	Width, Height float64
	body          strings.Builder
}

// NewSVGDrawer returns a drawer for a surface of the given size.
func NewSVGDrawer(width, height float64) *SVGDrawer {
	return &SVGDrawer{Width: width, Height: height}
}

// DrawOrbitEllipse strokes the orbit and its highlighted arc.
func (d *SVGDrawer) DrawOrbitEllipse(g EllipseGeometry) {
	rotDeg := g.ScreenRotation() * 180 / math.Pi
	d.body.WriteString(fmt.Sprintf(`<ellipse cx="%f" cy="%f" rx="%f" ry="%f" transform="rotate(%f %f %f)" stroke="%s" stroke-width="%.0f" fill="none"/>`,
		g.Center.X, g.Center.Y, g.RadiusX, g.RadiusY, rotDeg, g.Center.X, g.Center.Y, orbitStrokeColor, orbitStrokeWidth))
	start, end := g.PointAt(g.StartAngle), g.PointAt(g.EndAngle)
	largeArc := 0
	if g.EndAngle-g.StartAngle > math.Pi {
		largeArc = 1
	}
	d.body.WriteString(fmt.Sprintf(`<path d="M %f %f A %f %f %f %d 1 %f %f" stroke="%s" stroke-width="%.0f" fill="none"/>`,
		start.X, start.Y, g.RadiusX, g.RadiusY, rotDeg, largeArc, end.X, end.Y, highlightStrokeColor, highlightStrokeWidth))
}

// DrawBody fills the disc of a body.
func (d *SVGDrawer) DrawBody(b BodyDisc) {
	d.body.WriteString(fmt.Sprintf(`<circle cx="%f" cy="%f" r="%f" fill="%s"/>`, b.Center.X, b.Center.Y, b.Radius, b.Color))
}

// Bytes returns the SVG document drawn so far.
func (d *SVGDrawer) Bytes() []byte {
	var svgBuilder strings.Builder
	svgBuilder.WriteString(fmt.Sprintf(`<svg width="%.0f" height="%.0f" xmlns="http://www.w3.org/2000/svg" style="background-color:%s;">`, d.Width, d.Height, backgroundColor))
	svgBuilder.WriteString(d.body.String())
	svgBuilder.WriteString("</svg>")
	return []byte(svgBuilder.String())
}

// WriteTo writes the SVG document to w.
func (d *SVGDrawer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}
