package thrust_balance

import (
	"fmt"
	"math"

	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// FlightCondition is one element of a thrust balance batch, in SI units
type FlightCondition struct {
	Velocity         float64 `json:"V"`   // true airspeed, m/s
	Density          float64 `json:"rho"` // kg/m^3
	Drag             float64 `json:"Dp"`  // drag to be balanced, N
	ParasiteFraction float64 `json:"Dpp"` // share of the drag available to boundary layer ingestion
	Time             float64 `json:"t"`   // s, only used when a segment is integrated
}

// FromCoefficients builds a condition from drag coefficients, Dp = CD*q*S and Dpp = CDpar/CD
func FromCoefficients(V, rho, S, CD, CDpar float64) (fc FlightCondition) {
	fc = FlightCondition{
		Velocity: V,
		Density:  rho,
	}
	fc.Drag = CD * fc.DynamicPressure() * S
	if CD != 0 {
		fc.ParasiteFraction = CDpar / CD
	}
	return
}

func (fc FlightCondition) DynamicPressure() float64 {
	return 0.5 * fc.Density * fc.Velocity * fc.Velocity
}

// NetDrag is the drag left for the jets once the ingested share is credited
func (fc FlightCondition) NetDrag(bli BLIFractions) float64 {
	return fc.Drag * (1 - bli.Mech*fc.ParasiteFraction - bli.Elec*fc.ParasiteFraction)
}

// bliPower is the power credit recovered by a stream ingesting fraction fBLI of the boundary layer
func (fc FlightCondition) bliPower(fBLI, fSurface float64) float64 {
	return fBLI * fSurface * fc.ParasiteFraction * fc.Drag * fc.Velocity
}

func (fc FlightCondition) Validate() error {
	switch {
	case !utils.IsFinite(fc.Velocity) || fc.Velocity <= 0:
		return types.NewParameterError("V", fc.Velocity, "(0,Inf)")
	case !utils.IsFinite(fc.Density) || fc.Density <= 0:
		return types.NewParameterError("rho", fc.Density, "(0,Inf)")
	case !utils.IsFinite(fc.Drag):
		return types.NewParameterError("Dp", fc.Drag, "finite")
	case !utils.InRange(fc.ParasiteFraction, 0, 1):
		return types.NewParameterError("Dpp", fc.ParasiteFraction, "[0,1]")
	}
	return nil
}

func (fc FlightCondition) String() string {
	return fmt.Sprintf("V = %8.3f m/s, rho = %6.4f kg/m^3, Dp = %10.3f N, Dpp = %5.3f",
		fc.Velocity, fc.Density, fc.Drag, fc.ParasiteFraction)
}

// BLIFractions are the shares of the boundary layer ingested by each stream and the
// fraction of the ingested drag that is recovered at the fan face
type BLIFractions struct {
	Mech    float64 `json:"fBLIm"`
	Elec    float64 `json:"fBLIe"`
	Surface float64 `json:"fsurf"`
}

func (bf BLIFractions) Validate() error {
	for _, e := range []struct {
		name string
		val  float64
	}{
		{"fBLIm", bf.Mech},
		{"fBLIe", bf.Elec},
		{"fsurf", bf.Surface},
	} {
		if !utils.InRange(e.val, 0, 1) {
			return types.NewParameterError(e.name, e.val, "[0,1]")
		}
	}
	if bf.Mech+bf.Elec > 1 {
		return types.NewParameterError("fBLIm+fBLIe", bf.Mech+bf.Elec, "[0,1]")
	}
	return nil
}

// PropulsorGroup is a set of identical fans with the given jet exit area each
type PropulsorGroup struct {
	Count   int     `json:"count"`
	JetArea float64 `json:"jetArea"` // m^2
}

func (pg *PropulsorGroup) FlowArea() float64 {
	if pg == nil {
		return 0
	}
	return float64(pg.Count) * pg.JetArea
}

// FanDiameter is the diameter of a circular exit of JetArea
func (pg *PropulsorGroup) FanDiameter() float64 {
	if pg == nil {
		return 0
	}
	return math.Sqrt(4 * pg.JetArea / math.Pi)
}

func (pg *PropulsorGroup) validate(label string) error {
	if pg.Count < 1 {
		return types.NewParameterError(label+".count", float64(pg.Count), "[1,Inf)")
	}
	if !utils.IsFinite(pg.JetArea) || pg.JetArea <= 0 {
		return types.NewParameterError(label+".jetArea", pg.JetArea, "(0,Inf)")
	}
	return nil
}
