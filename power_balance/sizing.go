package power_balance

import (
	"fmt"
	"math"
)

// Rating is the set of design point component powers used to size the network.
// Each machine is rated for the magnitude of the power it handles at PKtotMax.
type Rating struct {
	PowerFlowSolution
	Mix        MixingParameters
	Efficiency ComponentEfficiencies
}

// Size solves the power flow at the design total propulsive power
func Size(PKtotMax float64, mix MixingParameters, eff ComponentEfficiencies) (r *Rating, err error) {
	var pfs *PowerFlowSolution
	if pfs, err = SolvePowerFlow(PKtotMax, mix, eff); err != nil {
		err = fmt.Errorf("sizing at PKtot = %g: %w", PKtotMax, err)
		return
	}
	r = &Rating{
		PowerFlowSolution: *pfs,
		Mix:               mix,
		Efficiency:        eff,
	}
	r.Plink = math.Abs(r.Plink)
	return
}

// PerUnit divides the fan and stream ratings across the installed propulsors, the
// shared electrical chain stays a single rating
func (r *Rating) PerUnit(nMech, nElec int) (fanMech, fanElec, motor float64) {
	if nMech > 0 {
		fanMech = r.PfanM / float64(nMech)
	}
	if nElec > 0 {
		fanElec = r.PfanE / float64(nElec)
		motor = r.Pmot / float64(nElec)
	}
	return
}

// Covers reports whether a solved operating point stays within the rating
func (r *Rating) Covers(pfs *PowerFlowSolution) bool {
	const slack = 1 + 1.e-9
	var (
		rated = r.Vector()
		op    = pfs.Vector()
	)
	for i := range rated {
		if math.Abs(op[i]) > rated[i]*slack+1.e-9 {
			return false
		}
	}
	return true
}

func (r *Rating) Print() {
	fmt.Printf("Design point rating, %s\n", r.Mix)
	r.PowerFlowSolution.Print()
}
