package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ResidualFunc writes F(x) into y, it must not retain or modify x
type ResidualFunc func(y, x []float64)

type NewtonStatus uint8

const (
	NewtonConverged NewtonStatus = iota
	NewtonIterationLimit
	NewtonEvaluationLimit
	NewtonStalled
	NewtonNonFinite
)

func (ns NewtonStatus) String() string {
	switch ns {
	case NewtonConverged:
		return "Converged"
	case NewtonIterationLimit:
		return "IterationLimit"
	case NewtonEvaluationLimit:
		return "EvaluationLimit"
	case NewtonStalled:
		return "Stalled"
	case NewtonNonFinite:
		return "NonFinite"
	}
	return fmt.Sprintf("NewtonStatus(%d)", uint8(ns))
}

type NewtonSettings struct {
	MaxIterations  int
	MaxEvaluations int     // residual evaluations, including those spent on the Jacobian
	Tolerance      float64 // on the infinity norm of the residual
	MinStep        float64 // smallest line search fraction before the iteration is declared stalled
	FDStep         float64
	Verbose        bool
}

func DefaultNewtonSettings() NewtonSettings {
	return NewtonSettings{
		MaxIterations:  50,
		MaxEvaluations: 2000,
		Tolerance:      1.e-10,
		MinStep:        1.e-8,
		FDStep:         6.e-6,
	}
}

func (ns NewtonSettings) withDefaults() NewtonSettings {
	def := DefaultNewtonSettings()
	if ns.MaxIterations <= 0 {
		ns.MaxIterations = def.MaxIterations
	}
	if ns.MaxEvaluations <= 0 {
		ns.MaxEvaluations = def.MaxEvaluations
	}
	if ns.Tolerance <= 0 {
		ns.Tolerance = def.Tolerance
	}
	if ns.MinStep <= 0 {
		ns.MinStep = def.MinStep
	}
	if ns.FDStep <= 0 {
		ns.FDStep = def.FDStep
	}
	return ns
}

type NewtonResult struct {
	X           []float64
	Residual    []float64
	Norm        float64 // infinity norm of Residual
	Iterations  int
	Evaluations int
	Status      NewtonStatus
}

func (nr NewtonResult) Converged() bool { return nr.Status == NewtonConverged }

// NewtonSolve finds a root of f from x0 with a damped Newton iteration. The Jacobian is
// formed by central differences, the step is backtracked until the squared residual norm
// satisfies the Armijo condition and a regularized step replaces the Newton step when the
// Jacobian is singular.
func NewtonSolve(f ResidualFunc, x0 []float64, settings NewtonSettings) (nr NewtonResult) {
	var (
		n     = len(x0)
		x     = make([]float64, n)
		F     = make([]float64, n)
		xn    = make([]float64, n)
		Fn    = make([]float64, n)
		negF  = make([]float64, n)
		jac   = mat.NewDense(n, n, nil)
		fdSet = &fd.JacobianSettings{Formula: fd.Central}
	)
	settings = settings.withDefaults()
	fdSet.Step = settings.FDStep
	copy(x, x0)
	f(F, x)
	nr.Evaluations = 1
	finish := func(status NewtonStatus) NewtonResult {
		nr.X, nr.Residual, nr.Status = x, F, status
		nr.Norm = floats.Norm(F, math.Inf(1))
		return nr
	}
	if !IsFinite(F) {
		return finish(NewtonNonFinite)
	}
	for {
		norm := floats.Norm(F, math.Inf(1))
		if settings.Verbose {
			fmt.Printf("Newton iteration %d, residual %8.5e\n", nr.Iterations, norm)
		}
		switch {
		case norm < settings.Tolerance:
			return finish(NewtonConverged)
		case nr.Iterations >= settings.MaxIterations:
			return finish(NewtonIterationLimit)
		case nr.Evaluations+2*n > settings.MaxEvaluations:
			return finish(NewtonEvaluationLimit)
		}
		fd.Jacobian(jac, f, x, fdSet)
		nr.Evaluations += 2 * n
		J := Matrix{M: jac, name: "Jacobian"}
		copy(negF, F)
		floats.Scale(-1, negF)
		dx, _, err := J.Solve(negF)
		if err != nil {
			if settings.Verbose {
				fmt.Print(J.Print())
			}
			lambda := 1.e-8*mat.Norm(jac, 2)*mat.Norm(jac, 2) + 1.e-14
			if dx, err = J.SolveRegularized(negF, lambda); err != nil || !IsFinite(dx) {
				return finish(NewtonStalled)
			}
		}
		var (
			f0 = floats.Dot(F, F)
			t  = 1.
		)
		for {
			floats.AddScaledTo(xn, x, t, dx)
			f(Fn, xn)
			nr.Evaluations++
			if IsFinite(Fn) && floats.Dot(Fn, Fn) <= (1-1.e-4*t)*f0 {
				break
			}
			if t *= 0.5; t < settings.MinStep {
				return finish(NewtonStalled)
			}
			if nr.Evaluations >= settings.MaxEvaluations {
				return finish(NewtonEvaluationLimit)
			}
		}
		copy(x, xn)
		copy(F, Fn)
		nr.Iterations++
	}
}
