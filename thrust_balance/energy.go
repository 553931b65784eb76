package thrust_balance

import (
	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// FuelModel converts turbine shaft power into fuel mass flow, mdot = Multiplier*SFC*Pturb
type FuelModel struct {
	SFC        float64 `json:"sfc"` // kg/J
	Multiplier float64 `json:"k"`
}

// FromCp takes the specific fuel consumption in g/kW/hr
func FromCp(gPerKWHr, k float64) FuelModel {
	return FuelModel{
		SFC:        gPerKWHr * types.GPerKWHr,
		Multiplier: k,
	}
}

// FromThermal derives the consumption from the fuel heating value (J/kg) and thermal efficiency
func FromThermal(hFuel, etaThermal, k float64) FuelModel {
	var fm = FuelModel{Multiplier: k}
	if hFuel > 0 && etaThermal > 0 {
		fm.SFC = 1 / (hFuel * etaThermal)
	}
	return fm
}

func (fm FuelModel) FlowRate(Pturb float64) float64 {
	return fm.Multiplier * fm.SFC * Pturb
}

func (fm FuelModel) Validate() error {
	if !utils.IsFinite(fm.SFC) || fm.SFC < 0 {
		return types.NewParameterError("sfc", fm.SFC, "[0,Inf)")
	}
	if !utils.IsFinite(fm.Multiplier) || fm.Multiplier < 0 {
		return types.NewParameterError("k", fm.Multiplier, "[0,Inf)")
	}
	return nil
}

const DefaultEtaMin = 0.5

// BatteryModel derates the battery along a linear Ragone line, the discharge efficiency
// falls from 1 at no load to EtaMin at MaxPower. A zero MaxPower disables derating.
type BatteryModel struct {
	MaxPower float64 `json:"maxPower"` // W
	EtaMin   float64 `json:"etaMin"`
}

// Derate returns the power drawn from the cells to deliver Pbat to the bus
func (bm BatteryModel) Derate(Pbat float64) (Pdrawn, eta float64, overload bool) {
	if bm.MaxPower <= 0 {
		return Pbat, 1, false
	}
	var (
		etaMin = bm.EtaMin
		psi    = Pbat / bm.MaxPower
	)
	if etaMin == 0 {
		etaMin = DefaultEtaMin
	}
	if psi > 1 {
		psi, overload = 1, true
	}
	eta = 1 - (1-etaMin)*psi
	Pdrawn = Pbat / eta
	return
}

func (bm BatteryModel) Validate() error {
	if !utils.IsFinite(bm.MaxPower) || bm.MaxPower < 0 {
		return types.NewParameterError("maxPower", bm.MaxPower, "[0,Inf)")
	}
	if !utils.InRange(bm.EtaMin, 0, 1) {
		return types.NewParameterError("etaMin", bm.EtaMin, "[0,1], 0 selects the default")
	}
	return nil
}
