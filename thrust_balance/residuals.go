package thrust_balance

import (
	"math"
)

// Positions of the unknowns of one element
const (
	iPKm = iota
	iPKe
	iMdotM
	iMdotE
	iVjetM
	iVjetE
	numUnknowns
)

// Fixed starting point for every element, elements are never warm started
const (
	guessPower    = 3.e5 // W
	guessJet      = 150. // m/s
	guessJetRatio = 1.25
	maxRestarts   = 3
)

// fixedGeometryResidual evaluates the six balance equations on variables scaled by the
// reference power, mass flow and velocity of the element so all residuals are order one
type fixedGeometryResidual struct {
	V, rho     float64
	fL         float64
	dNet, dRef float64
	pRef, mRef float64
	cm, ce     float64 // boundary layer ingestion power credit
	mech, elec *PropulsorGroup
	scale      [numUnknowns]float64
}

func newFixedGeometryResidual(fc FlightCondition, in Inputs, fg FixedGeometry) (r *fixedGeometryResidual) {
	r = &fixedGeometryResidual{
		V:    fc.Velocity,
		rho:  fc.Density,
		fL:   in.Mix.FL,
		dNet: fc.NetDrag(in.BLI),
		cm:   fc.bliPower(in.BLI.Mech, in.BLI.Surface),
		ce:   fc.bliPower(in.BLI.Elec, in.BLI.Surface),
		mech: fg.Mech,
		elec: fg.Elec,
	}
	r.dRef = math.Max(math.Abs(r.dNet), 1)
	r.pRef = r.dRef * r.V
	r.mRef = r.dRef / r.V
	r.scale = [numUnknowns]float64{r.pRef, r.pRef, r.mRef, r.mRef, r.V, r.V}
	return
}

// InitialGuess starts every present stream on the forward branch of continuity,
// mdot = rho*A*Vjet with the jet faster than the free stream. An absent stream starts at
// its pinned state. Restarts scale the jet velocity of the first guess by jetScale.
func (r *fixedGeometryResidual) InitialGuess(jetScale float64) (z []float64) {
	var (
		vj = jetScale * math.Max(guessJet, guessJetRatio*r.V)
		x  = [numUnknowns]float64{0, 0, 0, 0, r.V, r.V}
	)
	if r.mech != nil {
		x[iPKm], x[iMdotM], x[iVjetM] = guessPower, r.rho*r.mech.FlowArea()*vj, vj
	}
	if r.elec != nil {
		x[iPKe], x[iMdotE], x[iVjetE] = guessPower, r.rho*r.elec.FlowArea()*vj, vj
	}
	z = make([]float64, numUnknowns)
	for i := range z {
		z[i] = x[i] / r.scale[i]
	}
	return
}

// forwardBranch is false when a present stream sits on the mirror root of continuity,
// where a reversed jet and a reversed mass flow still balance momentum
func (r *fixedGeometryResidual) forwardBranch(x [numUnknowns]float64) bool {
	if r.mech != nil && x[iVjetM] < 0 {
		return false
	}
	if r.elec != nil && x[iVjetE] < 0 {
		return false
	}
	return true
}

func (r *fixedGeometryResidual) unscale(z []float64) (x [numUnknowns]float64) {
	for i := range x {
		x[i] = z[i] * r.scale[i]
	}
	return
}

// Evaluate writes the scaled residual at the scaled point z into y
func (r *fixedGeometryResidual) Evaluate(y, z []float64) {
	var (
		V        = r.V
		x        = r.unscale(z)
		PKm, PKe = x[iPKm], x[iPKe]
		mm, me   = x[iMdotM], x[iMdotE]
		Vjm, Vje = x[iVjetM], x[iVjetE]
	)
	// load split, the linear form of fL = PKe/(PKe+PKm)
	y[0] = (r.fL*(PKm+PKe) - PKe) / r.pRef
	// momentum
	y[1] = (mm*(Vjm-V) + me*(Vje-V) - r.dNet) / r.dRef
	// energy per stream, continuity through the jet area
	if r.mech != nil {
		y[2] = (PKm - 0.5*mm*(Vjm*Vjm-V*V) - r.cm) / r.pRef
		y[4] = (mm - r.rho*r.mech.FlowArea()*Vjm) / r.mRef
	} else {
		y[2] = (Vjm - V) / V
		y[4] = mm / r.mRef
	}
	if r.elec != nil {
		y[3] = (PKe - 0.5*me*(Vje*Vje-V*V) - r.ce) / r.pRef
		y[5] = (me - r.rho*r.elec.FlowArea()*Vje) / r.mRef
	} else {
		y[3] = (Vje - V) / V
		y[5] = me / r.mRef
	}
}
