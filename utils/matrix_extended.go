package utils

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MaxCond is the largest condition number accepted by Solve
const MaxCond = 1.e12

var ErrIllConditioned = errors.New("matrix is singular or ill-conditioned")

type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) MulVec(x []float64) (y []float64) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: matrix has %d columns, vector has %d entries", nc, len(x)))
	}
	y = make([]float64, nr)
	yV := mat.NewVecDense(nr, y)
	yV.MulVec(m.M, mat.NewVecDense(nc, x))
	return
}

// Solve factors the square receiver with LU and solves m*x = b.
// The LU condition estimate is returned with every solve, ErrIllConditioned when it exceeds MaxCond.
func (m Matrix) Solve(b []float64) (x []float64, cond float64, err error) {
	var (
		nr, nc = m.Dims()
		lu     mat.LU
	)
	if nr != nc || len(b) != nr {
		err = fmt.Errorf("dimension mismatch: Solve on %dx%d with rhs of %d", nr, nc, len(b))
		return
	}
	lu.Factorize(m.M)
	if cond = lu.Cond(); cond > MaxCond {
		err = fmt.Errorf("%w: %s, condition %8.3e", ErrIllConditioned, m.name, cond)
		return
	}
	x = make([]float64, nr)
	xV := mat.NewVecDense(nr, x)
	if err = lu.SolveVecTo(xV, false, mat.NewVecDense(nr, b)); err != nil {
		err = fmt.Errorf("%w: %v", ErrIllConditioned, err)
		return
	}
	return
}

// SolveRegularized solves (mᵀm + lambda*I) x = mᵀ b, usable when m itself is singular
func (m Matrix) SolveRegularized(b []float64, lambda float64) (x []float64, err error) {
	var (
		_, nc = m.Dims()
		mtm   = mat.NewDense(nc, nc, nil)
		mtb   = mat.NewVecDense(nc, nil)
	)
	mtm.Mul(m.M.T(), m.M)
	for i := 0; i < nc; i++ {
		mtm.Set(i, i, mtm.At(i, i)+lambda)
	}
	mtb.MulVec(m.M.T(), mat.NewVecDense(len(b), b))
	R := Matrix{M: mtm, name: "regularized normal equations"}
	x, _, err = R.Solve(mtb.RawVector().Data)
	return
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = m.name
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	o = fmt.Sprintf("%s = \n%v\n", name, mat.Formatted(m.M, mat.Squeeze()))
	return
}
