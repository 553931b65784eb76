package power_balance

import (
	"fmt"
	"math"

	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// PowerFlowSolution holds the eleven component powers in watts.
// Plink is signed, positive when the bus drives the link motor and negative when the
// link generator feeds the bus. All other powers are non-negative.
type PowerFlowSolution struct {
	Topology     types.TopologyType
	PKe, PKm     float64 // propulsive power of the electrical and mechanical streams
	PfanE, PfanM float64
	Pmot         float64
	Pinv         float64
	Pbat         float64
	Pturb        float64
	PlinkMachine float64
	Pconv        float64
	Plink        float64
	Cond         float64 // condition estimate of the factored system
}

func newPowerFlowSolution(tt types.TopologyType, x []float64, cond float64) *PowerFlowSolution {
	return &PowerFlowSolution{
		Topology:     tt,
		PKe:          x[IPKe],
		PKm:          x[IPKm],
		PfanE:        x[IPfanE],
		PfanM:        x[IPfanM],
		Pmot:         x[IPmot],
		Pinv:         x[IPinv],
		Pbat:         x[IPbat],
		Pturb:        x[IPturb],
		PlinkMachine: x[IPlinkMachine],
		Pconv:        x[IPconv],
		Plink:        x[IPlink],
		Cond:         cond,
	}
}

// Vector returns the powers in the order of PowerNames
func (pfs *PowerFlowSolution) Vector() (x []float64) {
	x = make([]float64, NumPowers)
	x[IPKe], x[IPKm] = pfs.PKe, pfs.PKm
	x[IPfanE], x[IPfanM] = pfs.PfanE, pfs.PfanM
	x[IPmot], x[IPinv] = pfs.Pmot, pfs.Pinv
	x[IPbat], x[IPturb] = pfs.Pbat, pfs.Pturb
	x[IPlinkMachine], x[IPconv], x[IPlink] = pfs.PlinkMachine, pfs.Pconv, pfs.Plink
	return
}

func (pfs *PowerFlowSolution) IsSeries() bool { return pfs.Topology == types.SeriesHybrid }

func (pfs *PowerFlowSolution) PKtot() float64 { return pfs.PKe + pfs.PKm }

// Supplied is the power drawn from the two sources
func (pfs *PowerFlowSolution) Supplied() float64 { return pfs.Pbat + pfs.Pturb }

func (pfs *PowerFlowSolution) Print() {
	fmt.Printf("[%s]\t\t= Topology, link machine is a %s\n", pfs.Topology, pfs.Topology.LinkRole())
	for i, p := range pfs.Vector() {
		fmt.Printf("%14.3f\t= %s [W]\n", p, PowerNames[i])
	}
	fmt.Printf("%14.3e\t= Condition estimate\n", pfs.Cond)
}

// SolvePowerFlow distributes the total propulsive power PKtot through the energy network.
// The topology is selected once from the mixing parameters and efficiencies, the 11x11
// system is assembled sparsely and solved by LU. Negative powers within round-off of zero
// are clamped, anything larger is reported as an infeasible topology.
func SolvePowerFlow(PKtot float64, mix MixingParameters, eff ComponentEfficiencies) (pfs *PowerFlowSolution, err error) {
	if math.IsNaN(PKtot) || math.IsInf(PKtot, 0) || PKtot < 0 {
		err = types.NewParameterError("PKtot", PKtot, "[0,Inf)")
		return
	}
	if err = mix.Validate(); err != nil {
		return
	}
	if err = eff.Validate(); err != nil {
		return
	}
	var (
		tt   = SelectTopology(mix, eff)
		A    = NewTopology(tt).Coefficients(mix, eff)
		b    = make([]float64, NumPowers)
		tol  = utils.ROUNDOFF * math.Max(PKtot, 1)
		x    []float64
		cond float64
	)
	A.SetReadOnly(tt.String() + " power flow")
	b[0] = PKtot
	if x, cond, err = A.ToMatrix().Solve(b); err != nil {
		err = &types.InfeasibleError{Topology: tt, Value: cond, Reason: "singular power flow system"}
		return
	}
	if err = checkPowers(tt, x, tol); err != nil {
		return
	}
	pfs = newPowerFlowSolution(tt, x, cond)
	return
}

// checkPowers clamps negative powers within tol of zero in place and rejects anything a
// topology cannot deliver, a negative component or a link flowing against its machine role
func checkPowers(tt types.TopologyType, x []float64, tol float64) (err error) {
	for i, val := range x {
		if i == IPlink {
			continue
		}
		if val < -tol || math.IsNaN(val) {
			return &types.InfeasibleError{Topology: tt, Component: PowerNames[i], Value: val,
				Reason: "negative beyond round-off"}
		}
		// also turns -0 into 0
		x[i] = math.Max(val, 0)
	}
	switch {
	case tt == types.SeriesHybrid && x[IPlink] > tol,
		tt == types.ParallelHybrid && x[IPlink] < -tol:
		return &types.InfeasibleError{Topology: tt, Component: "Plink", Value: x[IPlink],
			Reason: "link power direction contradicts the " + tt.LinkRole()}
	}
	if math.Abs(x[IPlink]) <= tol {
		x[IPlink] = 0
	}
	return
}
