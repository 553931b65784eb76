package power_balance

import (
	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// Positions of the unknowns in the power flow vector
const (
	IPKe = iota
	IPKm
	IPfanE
	IPfanM
	IPmot
	IPinv
	IPbat
	IPturb
	IPlinkMachine
	IPconv
	IPlink
	NumPowers
)

var PowerNames = [NumPowers]string{
	"PKe", "PKm", "PfanE", "PfanM", "Pmot", "Pinv", "Pbat", "Pturb", "PlinkMachine", "Pconv", "Plink",
}

// Topology builds the coefficient matrix of one energy network variant.
// The variants differ only in the link chain rows 5, 7 and 8.
type Topology interface {
	Type() types.TopologyType
	Coefficients(mix MixingParameters, eff ComponentEfficiencies) utils.DOK
}

// SelectTopology is a pure function of the inputs, the link machine generates when the
// electrical load share outruns what the battery branch can supply
func SelectTopology(mix MixingParameters, eff ComponentEfficiencies) types.TopologyType {
	var (
		lhs = (1 - mix.FS) * mix.FL
		rhs = eff.PowerElectronics * eff.Motor * mix.FS * (1 - mix.FL)
	)
	if lhs > rhs {
		return types.SeriesHybrid
	}
	return types.ParallelHybrid
}

func NewTopology(tt types.TopologyType) Topology {
	switch tt {
	case types.SeriesHybrid:
		return seriesHybrid{}
	case types.ParallelHybrid:
		return parallelHybrid{}
	}
	panic("unknown topology " + tt.String())
}

type seriesHybrid struct{}

func (seriesHybrid) Type() types.TopologyType { return types.SeriesHybrid }

func (seriesHybrid) Coefficients(mix MixingParameters, eff ComponentEfficiencies) (A utils.DOK) {
	A = sharedRows(mix, eff)
	// eta_pe*Pconv = -Plink
	A.SetRow(5, []int{IPconv, IPlink}, []float64{eff.PowerElectronics, 1})
	// eta_mot*PlinkMachine = Pconv
	A.SetRow(7, []int{IPlinkMachine, IPconv}, []float64{eff.Motor, -1})
	// Pturb = PfanM + PlinkMachine
	A.SetRow(8, []int{IPturb, IPfanM, IPlinkMachine}, []float64{1, -1, -1})
	return
}

type parallelHybrid struct{}

func (parallelHybrid) Type() types.TopologyType { return types.ParallelHybrid }

func (parallelHybrid) Coefficients(mix MixingParameters, eff ComponentEfficiencies) (A utils.DOK) {
	A = sharedRows(mix, eff)
	// Pconv = eta_pe*Plink
	A.SetRow(5, []int{IPconv, IPlink}, []float64{1, -eff.PowerElectronics})
	// PlinkMachine = eta_mot*Pconv
	A.SetRow(7, []int{IPlinkMachine, IPconv}, []float64{1, -eff.Motor})
	// PfanM = Pturb + PlinkMachine
	A.SetRow(8, []int{IPfanM, IPturb, IPlinkMachine}, []float64{1, -1, -1})
	return
}

func sharedRows(mix MixingParameters, eff ComponentEfficiencies) (A utils.DOK) {
	A = NewDOK()
	A.SetRow(0, []int{IPKe, IPKm}, []float64{1, 1})
	// conversion rows are written eta*Pin = Pout, every coefficient is at most one in magnitude
	A.SetRow(1, []int{IPfanE, IPKe}, []float64{eff.Fan, -1})
	A.SetRow(2, []int{IPmot, IPfanE}, []float64{eff.Motor, -1})
	A.SetRow(3, []int{IPinv, IPmot}, []float64{eff.PowerElectronics, -1})
	A.SetRow(4, []int{IPfanM, IPKm}, []float64{eff.Fan, -1})
	// DC bus, Pbat = Pinv + Plink
	A.SetRow(6, []int{IPinv, IPbat, IPlink}, []float64{1, -1, 1})
	// fS*(Pbat+Pturb) = Pbat
	A.SetRow(9, []int{IPbat, IPturb}, []float64{mix.FS - 1, mix.FS})
	// fL*(PKe+PKm) = PKe
	A.SetRow(10, []int{IPKe, IPKm}, []float64{mix.FL - 1, mix.FL})
	return
}

func NewDOK() utils.DOK {
	return utils.NewDOK(NumPowers, NumPowers)
}
