package types

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the power flow and thrust balance solvers.
// ErrParameterRange and ErrInfeasibleTopology stop a solve and are returned to the caller,
// ErrNonConvergence and ErrNonPhysicalResult are recorded per element.
var (
	ErrParameterRange     = errors.New("gohybrid: parameter out of valid range")
	ErrInfeasibleTopology = errors.New("gohybrid: infeasible energy network topology")
	ErrNonConvergence     = errors.New("gohybrid: root finder did not converge")
	ErrNonPhysicalResult  = errors.New("gohybrid: non-physical result clamped")
)

// ParameterError names the offending input
type ParameterError struct {
	Name  string
	Value float64
	Valid string // human readable valid range, e.g. "[0,1]"
}

func NewParameterError(name string, value float64, valid string) *ParameterError {
	return &ParameterError{Name: name, Value: value, Valid: valid}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s = %g, valid %s", ErrParameterRange, e.Name, e.Value, e.Valid)
}

func (e *ParameterError) Unwrap() error { return ErrParameterRange }

// InfeasibleError carries the topology and the reason a power flow could not be realised
type InfeasibleError struct {
	Topology  TopologyType
	Component string  // empty when the matrix itself is singular
	Value     float64 // offending solved value or condition number
	Reason    string
}

func (e *InfeasibleError) Error() string {
	if len(e.Component) == 0 {
		return fmt.Sprintf("%v: %s, %s (%g)", ErrInfeasibleTopology, e.Topology, e.Reason, e.Value)
	}
	return fmt.Sprintf("%v: %s, %s = %g, %s", ErrInfeasibleTopology, e.Topology, e.Component, e.Value, e.Reason)
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasibleTopology }

// ElementError is recorded in a per element solution, it never stops a batch
type ElementError struct {
	Element    int
	Iterations int
	Residual   float64
	Flags      ElementFlag
	Wrapped    error
}

func (e *ElementError) Error() string {
	if errors.Is(e.Wrapped, ErrNonConvergence) {
		return fmt.Sprintf("element %d: %v after %d iterations, residual %8.3e",
			e.Element, e.Wrapped, e.Iterations, e.Residual)
	}
	return fmt.Sprintf("element %d: %v [%s]", e.Element, e.Wrapped, e.Flags)
}

func (e *ElementError) Unwrap() error { return e.Wrapped }
