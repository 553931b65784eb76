package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewtonSolve(t *testing.T) {
	{ // Circle intersected with a line, root at (sqrt(2), sqrt(2))
		f := func(y, x []float64) {
			y[0] = x[0]*x[0] + x[1]*x[1] - 4
			y[1] = x[0] - x[1]
		}
		nr := NewtonSolve(f, []float64{1, 0.5}, DefaultNewtonSettings())
		assert.True(t, nr.Converged())
		assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt2}, nr.X, 1.e-9)
		assert.True(t, nr.Norm < 1.e-10)
		assert.True(t, nr.Iterations > 0 && nr.Iterations < 20)
	}
	{ // Already at the root
		f := func(y, x []float64) { y[0] = x[0] - 3 }
		nr := NewtonSolve(f, []float64{3}, NewtonSettings{})
		assert.Equal(t, NewtonConverged, nr.Status)
		assert.Equal(t, 0, nr.Iterations)
		assert.Equal(t, 1, nr.Evaluations)
	}
	{ // No real root, the line search stalls or runs out of iterations
		f := func(y, x []float64) { y[0] = x[0]*x[0] + 1 }
		nr := NewtonSolve(f, []float64{0.5}, NewtonSettings{MaxIterations: 10})
		assert.False(t, nr.Converged())
		assert.Contains(t, []NewtonStatus{NewtonStalled, NewtonIterationLimit}, nr.Status)
	}
	{ // Iteration cap
		f := func(y, x []float64) { y[0] = math.Atan(x[0]) }
		nr := NewtonSolve(f, []float64{10}, NewtonSettings{MaxIterations: 1})
		assert.False(t, nr.Converged())
	}
	{ // Non finite start
		f := func(y, x []float64) { y[0] = 1 / x[0] }
		nr := NewtonSolve(f, []float64{0}, DefaultNewtonSettings())
		assert.Equal(t, NewtonNonFinite, nr.Status)
		assert.Equal(t, "NonFinite", nr.Status.String())
	}
	{ // Singular Jacobian at the start point falls back to the regularized step
		f := func(y, x []float64) {
			y[0] = x[0] + x[1] - 2
			y[1] = x[0] + x[1] - 2 + (x[0]-x[1])*(x[0]-x[1])
		}
		nr := NewtonSolve(f, []float64{0, 0}, DefaultNewtonSettings())
		assert.True(t, nr.Converged(), nr.Status.String())
		assert.InDeltaSlice(t, []float64{1, 1}, nr.X, 1.e-6)
	}
}
