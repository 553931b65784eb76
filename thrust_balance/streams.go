package thrust_balance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// StreamModel closes the thrust balance for the mechanical and electrical streams
type StreamModel interface {
	Type() types.StreamModelType
	Validate(in Inputs) error
	solve(fc FlightCondition, in Inputs, ns utils.NewtonSettings) streamState
}

// streamState is the raw root finder outcome for one element, before clamping
type streamState struct {
	x          [numUnknowns]float64
	status     utils.NewtonStatus
	iterations int
	norm       float64
}

// FixedGeometry sizes the mass flow through the installed jet areas, a nil group is an
// absent propulsor type whose stream carries no flow
type FixedGeometry struct {
	Mech *PropulsorGroup `json:"mech,omitempty"`
	Elec *PropulsorGroup `json:"elec,omitempty"`
}

func (FixedGeometry) Type() types.StreamModelType { return types.FixedGeometry }

func (fg FixedGeometry) Validate(in Inputs) (err error) {
	switch {
	case fg.Mech == nil && fg.Elec == nil:
		return fmt.Errorf("%w: at least one propulsor group is required", types.ErrParameterRange)
	case fg.Mech == nil && in.Mix.FL != 1:
		return types.NewParameterError("fL", in.Mix.FL, "1 without mechanical propulsors")
	case fg.Mech == nil && in.BLI.Mech != 0:
		return types.NewParameterError("fBLIm", in.BLI.Mech, "0 without mechanical propulsors")
	case fg.Elec == nil && in.Mix.FL != 0:
		return types.NewParameterError("fL", in.Mix.FL, "0 without electrical propulsors")
	case fg.Elec == nil && in.BLI.Elec != 0:
		return types.NewParameterError("fBLIe", in.BLI.Elec, "0 without electrical propulsors")
	}
	if fg.Mech != nil {
		if err = fg.Mech.validate("mech"); err != nil {
			return
		}
	}
	if fg.Elec != nil {
		err = fg.Elec.validate("elec")
	}
	return
}

func (fg FixedGeometry) solve(fc FlightCondition, in Inputs, ns utils.NewtonSettings) (ss streamState) {
	var (
		r        = newFixedGeometryResidual(fc, in, fg)
		jetScale = 1.
	)
	for restart := 0; ; restart++ {
		nr := utils.NewtonSolve(r.Evaluate, r.InitialGuess(jetScale), ns)
		ss = streamState{
			x:          r.unscale(nr.X),
			status:     nr.Status,
			iterations: ss.iterations + nr.Iterations,
			norm:       nr.Norm,
		}
		if !nr.Converged() || r.forwardBranch(ss.x) || restart == maxRestarts {
			return
		}
		if ns.Verbose {
			fmt.Printf("reversed jet at %s, restarting with jets x%g\n", fc, 2*jetScale)
		}
		jetScale *= 2
	}
}

// PowerSplit fixes each jet velocity from its propulsive efficiency,
// Vjet = V(2/eta_prop - 1), leaving a linear problem in powers and mass flows
type PowerSplit struct {
	EtaPropMech float64 `json:"etaPropMech"`
	EtaPropElec float64 `json:"etaPropElec"`
}

func (PowerSplit) Type() types.StreamModelType { return types.PowerSplit }

func (ps PowerSplit) Validate(_ Inputs) error {
	if !utils.IsFinite(ps.EtaPropMech) || ps.EtaPropMech <= 0 || ps.EtaPropMech >= 1 {
		return types.NewParameterError("etaPropMech", ps.EtaPropMech, "(0,1)")
	}
	if !utils.IsFinite(ps.EtaPropElec) || ps.EtaPropElec <= 0 || ps.EtaPropElec >= 1 {
		return types.NewParameterError("etaPropElec", ps.EtaPropElec, "(0,1)")
	}
	return nil
}

func JetVelocity(V, etaProp float64) float64 {
	return V * (2/etaProp - 1)
}

func (ps PowerSplit) solve(fc FlightCondition, in Inputs, _ utils.NewtonSettings) (ss streamState) {
	var (
		V        = fc.Velocity
		fL       = in.Mix.FL
		Vjm, Vje = JetVelocity(V, ps.EtaPropMech), JetVelocity(V, ps.EtaPropElec)
		km, ke   = 0.5 * (Vjm*Vjm - V*V), 0.5 * (Vje*Vje - V*V)
		A        = utils.NewDOK(4, 4)
		b        = []float64{
			0,
			fc.NetDrag(in.BLI),
			fc.bliPower(in.BLI.Mech, in.BLI.Surface),
			fc.bliPower(in.BLI.Elec, in.BLI.Surface),
		}
	)
	// unknowns PKm, PKe, mdotm, mdote
	A.SetRow(0, []int{0, 1}, []float64{fL, fL - 1})
	A.SetRow(1, []int{2, 3}, []float64{Vjm - V, Vje - V})
	A.SetRow(2, []int{0, 2}, []float64{1, -km})
	A.SetRow(3, []int{1, 3}, []float64{1, -ke})
	A.SetReadOnly("power split")
	x, _, err := A.ToMatrix().Solve(b)
	if err != nil {
		ss.status = utils.NewtonStalled
		ss.norm = fc.NetDrag(in.BLI)
		return
	}
	ss.x = [numUnknowns]float64{x[0], x[1], x[2], x[3], Vjm, Vje}
	ss.status = utils.NewtonConverged
	floats.Sub(b, A.ToMatrix().MulVec(x))
	ss.norm = floats.Norm(b, math.Inf(1)) / math.Max(math.Abs(fc.NetDrag(in.BLI))*V, 1)
	return
}
