package thrust_balance

import (
	"fmt"
	"math"

	"github.com/notargets/gohybrid/power_balance"
	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// Inputs are shared by every element of a batch
type Inputs struct {
	Mix        power_balance.MixingParameters
	Efficiency power_balance.ComponentEfficiencies
	BLI        BLIFractions
	Streams    StreamModel
	Fuel       FuelModel
	Battery    BatteryModel
}

func (in Inputs) Validate() (err error) {
	if in.Streams == nil {
		return fmt.Errorf("%w: no stream model", types.ErrParameterRange)
	}
	for _, v := range []interface{ Validate() error }{in.Mix, in.Efficiency, in.BLI, in.Fuel, in.Battery} {
		if err = v.Validate(); err != nil {
			return
		}
	}
	return in.Streams.Validate(in)
}

type Settings struct {
	Parallel int // number of goroutines, values below 2 solve on the calling goroutine
	Verbose  bool
	Newton   utils.NewtonSettings
}

// ElementSolution is the balanced state of one flight condition. Fields that could not be
// resolved are NaN and Err records why.
type ElementSolution struct {
	Condition         FlightCondition
	PKm, PKe          float64 // propulsive power per stream, W
	MdotM, MdotE      float64 // kg/s
	VjetM, VjetE      float64 // m/s
	Power             *power_balance.PowerFlowSolution
	Pturb             float64 // W
	Pbat              float64 // W drawn from the cells, after derating
	BatteryEfficiency float64
	FuelFlow          float64 // kg/s
	Thrust            float64 // jet momentum thrust, N
	EffectiveThrust   float64 // jet thrust plus the ingested drag credit, N
	Converged         bool
	Flags             types.ElementFlag
	Iterations        int
	ResidualNorm      float64
	Err               error
}

func (es *ElementSolution) PKtot() float64 { return es.PKm + es.PKe }

func (es *ElementSolution) Print() {
	fmt.Printf("%s\n", es.Condition)
	if !es.Converged {
		fmt.Printf("\tunconverged: %v\n", es.Err)
		return
	}
	fmt.Printf("%12.3f\t= PKm [W]\n%12.3f\t= PKe [W]\n", es.PKm, es.PKe)
	fmt.Printf("%12.4f\t= mdotm [kg/s]\n%12.4f\t= mdote [kg/s]\n", es.MdotM, es.MdotE)
	fmt.Printf("%12.4f\t= Vjetm [m/s]\n%12.4f\t= Vjete [m/s]\n", es.VjetM, es.VjetE)
	fmt.Printf("%12.3f\t= Pturb [W]\n%12.3f\t= Pbat [W]\n", es.Pturb, es.Pbat)
	fmt.Printf("%12.6f\t= Fuel flow [kg/s]\n", es.FuelFlow)
	if es.Flags != 0 {
		fmt.Printf("[%s]\t= Flags\n", es.Flags)
	}
}

func unresolved(fc FlightCondition) ElementSolution {
	var nan = math.NaN()
	return ElementSolution{
		Condition: fc,
		PKm:       nan, PKe: nan,
		MdotM: nan, MdotE: nan,
		VjetM: nan, VjetE: nan,
		Pturb: nan, Pbat: nan,
		BatteryEfficiency: nan,
		FuelFlow:          nan,
		Thrust:            nan, EffectiveThrust: nan,
	}
}

// Solve balances thrust and drag independently for every flight condition. Parameter
// range and infeasible topology errors stop the batch, an element that fails to converge
// or needed clamping is reported in its own solution and the rest proceed.
func Solve(conds []FlightCondition, in Inputs, s Settings) (sols []ElementSolution, err error) {
	if err = in.Validate(); err != nil {
		return
	}
	for i, fc := range conds {
		if err = fc.Validate(); err != nil {
			err = fmt.Errorf("flight condition %d: %w", i, err)
			return
		}
	}
	sols = make([]ElementSolution, len(conds))
	if len(conds) == 0 {
		return
	}
	var (
		pm   = utils.NewPartitionMap(s.Parallel, len(conds))
		errs = make([]error, len(conds))
	)
	pm.RunPartitioned(func(bn, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			sols[k], errs[k] = solveElement(k, conds[k], in, s)
		}
	})
	for k, e := range errs {
		if e != nil {
			err = fmt.Errorf("flight condition %d: %w", k, e)
			sols = nil
			return
		}
	}
	return
}

func solveElement(k int, fc FlightCondition, in Inputs, s Settings) (es ElementSolution, err error) {
	ss := in.Streams.solve(fc, in, s.Newton)
	if ss.status != utils.NewtonConverged {
		es = unresolved(fc)
		es.Iterations, es.ResidualNorm = ss.iterations, ss.norm
		es.Err = &types.ElementError{Element: k, Iterations: ss.iterations, Residual: ss.norm,
			Wrapped: fmt.Errorf("%w (%s)", types.ErrNonConvergence, ss.status)}
		if s.Verbose {
			fmt.Printf("%v\n", es.Err)
		}
		return
	}
	es = ElementSolution{
		Condition:    fc,
		Converged:    true,
		Iterations:   ss.iterations,
		ResidualNorm: ss.norm,
	}
	x := ss.x
	es.Flags = clampStreams(&x, fc.Velocity, math.Max(math.Abs(fc.NetDrag(in.BLI)), 1))
	es.Thrust = x[iMdotM]*(x[iVjetM]-fc.Velocity) + x[iMdotE]*(x[iVjetE]-fc.Velocity)
	es.EffectiveThrust = es.Thrust + (in.BLI.Mech+in.BLI.Elec)*fc.ParasiteFraction*fc.Drag
	es.PKm, es.PKe = x[iPKm], x[iPKe]
	es.MdotM, es.MdotE = x[iMdotM], x[iMdotE]
	es.VjetM, es.VjetE = x[iVjetM], x[iVjetE]
	if es.Power, err = power_balance.SolvePowerFlow(es.PKtot(), in.Mix, in.Efficiency); err != nil {
		return
	}
	es.Pturb = es.Power.Pturb
	es.FuelFlow = in.Fuel.FlowRate(es.Pturb)
	var overload bool
	es.Pbat, es.BatteryEfficiency, overload = in.Battery.Derate(es.Power.Pbat)
	if overload {
		es.Flags |= types.FlagBatteryOverload
	}
	if es.Flags.Clamped() {
		es.Err = &types.ElementError{Element: k, Iterations: ss.iterations, Residual: ss.norm,
			Flags: es.Flags, Wrapped: types.ErrNonPhysicalResult}
	}
	if s.Verbose && es.Flags != 0 {
		fmt.Printf("element %d: flags [%s]\n", k, es.Flags)
	}
	return
}

// clampStreams removes non-physical parts of a converged state, negative powers and mass
// flows go to zero and a jet slower than the free stream is raised to it. Departures within
// round-off of the bound are zeroed without a flag. A stream left inactive by a clamp
// hands no power to the network.
func clampStreams(x *[numUnknowns]float64, V, dRef float64) (flags types.ElementFlag) {
	var (
		pTol  = utils.ROUNDOFF * math.Max(math.Abs(x[iPKm])+math.Abs(x[iPKe]), dRef*V)
		mTol  = utils.ROUNDOFF * math.Max(math.Abs(x[iMdotM])+math.Abs(x[iMdotE]), dRef/V)
		vTol  = utils.ROUNDOFF * V
		clamp = func(i int, floor, tol float64, flag types.ElementFlag) {
			if _, clamped := utils.ClampBelow(x[i], floor-tol); clamped {
				flags |= flag
			}
			// also reports -0 as 0
			x[i] = math.Max(x[i], floor)
		}
	)
	clamp(iPKm, 0, pTol, types.FlagNegativePowerMech)
	clamp(iPKe, 0, pTol, types.FlagNegativePowerElec)
	clamp(iMdotM, 0, mTol, types.FlagNegativeMassFlowMech)
	clamp(iMdotE, 0, mTol, types.FlagNegativeMassFlowElec)
	clamp(iVjetM, V, vTol, types.FlagSubFreestreamJetMech)
	clamp(iVjetE, V, vTol, types.FlagSubFreestreamJetElec)
	// a clamped stream has either no flow or no jet excess, so it produces no thrust
	if flags.Has(types.FlagNegativeMassFlowMech) || flags.Has(types.FlagSubFreestreamJetMech) {
		x[iPKm] = 0
	}
	if flags.Has(types.FlagNegativeMassFlowElec) || flags.Has(types.FlagSubFreestreamJetElec) {
		x[iPKe] = 0
	}
	return
}
