package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary of keys assembly matrix, entries are set by coordinate and
// converted to a dense Matrix for factorization
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

// SetRow assigns (column, value) pairs into row i, zero values are skipped
func (m DOK) SetRow(i int, cols []int, vals []float64) DOK { // Changes receiver
	if len(cols) != len(vals) {
		panic(fmt.Errorf("SetRow: %d columns and %d values", len(cols), len(vals)))
	}
	for n, j := range cols {
		if vals[n] != 0 {
			m.Set(i, j, vals[n])
		}
	}
	return m
}

func (m DOK) ToMatrix() (R Matrix) {
	R = Matrix{
		M:    m.M.ToDense(),
		name: m.name,
	}
	return
}
