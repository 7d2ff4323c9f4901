package orbview

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPlanet is returned when looking up a body which is not in the catalogue.
var ErrUnknownPlanet = errors.New("unknown planet")

// Planet describes a body drawn at the focus of an orbit.
type Planet struct {
	Name         string
	Mass         float64 // kg
	Radius       float64 // m
	DisplayColor string  // any CSS color
}

// NewPlanet returns a new Planet.
func NewPlanet(name string, mass, radius float64, displayColor string) Planet {
	return Planet{name, mass, radius, displayColor}
}

// String implements the Stringer interface.
func (p Planet) String() string {
	return p.Name + " body"
}

// OrbitAround returns the orbit of eccentricity vector e and semi-major axis a around this body.
func (p Planet) OrbitAround(e Vector2d[float64], a float64) (Orbit, error) {
	return NewOrbit(e, a, p.Mass)
}

// PlanetFromString returns the body from its name.
func PlanetFromString(name string) (Planet, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	default:
		return Planet{}, fmt.Errorf("%w '%s'", ErrUnknownPlanet, name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = Planet{"Sun", 1.98847e30, 695700e3, "gold"}

// Venus is poisonous.
var Venus = Planet{"Venus", 4.8675e24, 6051.8e3, "khaki"}

// Earth is home.
var Earth = Planet{"Earth", 5.972e24, 6378.1363e3, "royalblue"}

// Moon is where we went.
var Moon = Planet{"Moon", 7.342e22, 1737.4e3, "silver"}

// Mars is the vacation place.
var Mars = Planet{"Mars", 6.4171e23, 3396.19e3, "firebrick"}

// Jupiter is big.
var Jupiter = Planet{"Jupiter", 1.8982e27, 71492.0e3, "peru"}
