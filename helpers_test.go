package orbview

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

const angleε = 1e-8

// anglesEqual returns whether two angles in radians are equal modulo 2π.
func anglesEqual(a, b float64) (bool, error) {
	δ := math.Mod(math.Abs(a-b), 2*math.Pi)
	if floats.EqualWithinAbs(δ, 0, angleε) || floats.EqualWithinAbs(δ, 2*math.Pi, angleε) {
		return true, nil
	}
	return false, errors.New("angles differ")
}

func vectorsEqual(a, b Vector2d[float64]) bool {
	return floats.EqualWithinAbs(a.X, b.X, 1e-9) && floats.EqualWithinAbs(a.Y, b.Y, 1e-9)
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("code did not panic")
		}
	}()
	f()
}
