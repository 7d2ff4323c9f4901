package orbview

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"golang.org/x/exp/constraints"
)

// Number is any scalar a Vector2d can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Vector2d is a two dimensional value vector.
type Vector2d[T Number] struct {
	X, Y T
}

// Vec2 returns the vector (x, y).
func Vec2[T Number](x, y T) Vector2d[T] {
	return Vector2d[T]{x, y}
}

// Add returns a + b.
func Add[T Number](a, b Vector2d[T]) Vector2d[T] {
	return Vector2d[T]{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b.
func Sub[T Number](a, b Vector2d[T]) Vector2d[T] {
	return Vector2d[T]{a.X - b.X, a.Y - b.Y}
}

// Dot returns the inner product of a and b. Note that this is a scalar.
func Dot[T Number](a, b Vector2d[T]) T {
	return a.X*b.X + a.Y*b.Y
}

// Scale returns k*v.
func Scale[T Number](v Vector2d[T], k T) Vector2d[T] {
	return Vector2d[T]{v.X * k, v.Y * k}
}

// DivScalar divides each component by k. Floats divided by zero yield ±Inf or NaN.
func DivScalar[T Number](v Vector2d[T], k T) Vector2d[T] {
	return Vector2d[T]{v.X / k, v.Y / k}
}

// String implements the Stringer interface.
func (v Vector2d[T]) String() string {
	return fmt.Sprintf("(%v, %v)", v.X, v.Y)
}

// Norm returns the norm of a given vector.
func Norm(v Vector2d[float64]) float64 {
	return math.Sqrt(dot(v, v))
}

// Unit returns the unit vector of a given vector, or the nil vector if its norm is zero.
func Unit(v Vector2d[float64]) Vector2d[float64] {
	n := Norm(v)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return Vector2d[float64]{}
	}
	return DivScalar(v, n)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b Vector2d[float64]) float64 {
	return mat64.Dot(mat64.NewVector(2, []float64{a.X, a.Y}), mat64.NewVector(2, []float64{b.X, b.Y}))
}
