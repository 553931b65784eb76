package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"

	"github.com/notargets/gohybrid/network"
	"github.com/notargets/gohybrid/power_balance"
	"github.com/notargets/gohybrid/thrust_balance"
	"github.com/notargets/gohybrid/types"
)

// Parameters obtained from the YAML case deck. ghodss/yaml converts the YAML to JSON
// first, so the keys follow the json tags and match case insensitively.
type InputParameters struct {
	Title         string                               `json:"Title"`
	FS            float64                              `json:"fS"`
	FL            float64                              `json:"fL"`
	Efficiency    *power_balance.ComponentEfficiencies `json:"Efficiency,omitempty"`
	BLI           thrust_balance.BLIFractions          `json:"BLI"`
	StreamModel   string                               `json:"StreamModel"`
	Propulsors    thrust_balance.FixedGeometry         `json:"Propulsors"`
	PowerSplit    thrust_balance.PowerSplit            `json:"PowerSplit"`
	Fuel          FuelParameters                       `json:"Fuel"`
	Battery       BatteryParameters                    `json:"Battery"`
	ThrustAngle   float64                              `json:"ThrustAngle"` // degrees
	MaxIterations int                                  `json:"MaxIterations"`
	Segments      []SegmentParameters                  `json:"Segments"`
}

// FuelParameters take either Cp in g/kW/hr or a heating value in MJ/kg with a thermal efficiency
type FuelParameters struct {
	Cp         float64 `json:"Cp"`
	HFuel      float64 `json:"hFuel"`
	EtaThermal float64 `json:"etaTh"`
	K          float64 `json:"k"` // omitted means 1
}

type BatteryParameters struct {
	MaxPower       float64 `json:"maxPower"` // W
	EtaMin         float64 `json:"etaMin"`
	Mass           float64 `json:"mass"`           // kg
	SpecificEnergy float64 `json:"specificEnergy"` // Wh/kg
}

func (bp BatteryParameters) Energy() float64 {
	return bp.Mass * bp.SpecificEnergy * types.WhPerKg
}

type SegmentParameters struct {
	Name       string                `json:"Name"`
	Conditions []ConditionParameters `json:"Conditions"`
}

// ConditionParameters give the drag directly (Dp, Dpp) or from coefficients (CD, CDpar, S).
// KTAS replaces V when set.
type ConditionParameters struct {
	T     float64 `json:"t"`
	V     float64 `json:"V"`
	KTAS  float64 `json:"KTAS"`
	Rho   float64 `json:"rho"`
	Dp    float64 `json:"Dp"`
	Dpp   float64 `json:"Dpp"`
	CD    float64 `json:"CD"`
	CDpar float64 `json:"CDpar"`
	S     float64 `json:"S"`
}

func (cp ConditionParameters) FlightCondition() (fc thrust_balance.FlightCondition) {
	V := cp.V
	if cp.KTAS != 0 {
		V = cp.KTAS * types.Knot
	}
	if cp.CD != 0 {
		fc = thrust_balance.FromCoefficients(V, cp.Rho, cp.S, cp.CD, cp.CDpar)
	} else {
		fc = thrust_balance.FlightCondition{
			Velocity:         V,
			Density:          cp.Rho,
			Drag:             cp.Dp,
			ParasiteFraction: cp.Dpp,
		}
	}
	fc.Time = cp.T
	return
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%s\t= Mixing\n", ip.Mix())
	eff := ip.Efficiencies()
	fmt.Printf("%8.5f\t\t= Fan efficiency\n", eff.Fan)
	fmt.Printf("%8.5f\t\t= Motor efficiency\n", eff.Motor)
	fmt.Printf("%8.5f\t\t= Power electronics efficiency\n", eff.PowerElectronics)
	fmt.Printf("[%s]\t\t= Stream Model\n", ip.StreamModel)
	fmt.Printf("%8.5f, %8.5f, %8.5f\t= BLI fractions mech, elec, surface\n", ip.BLI.Mech, ip.BLI.Elec, ip.BLI.Surface)
	if ip.Propulsors.Mech != nil {
		fmt.Printf("[%d] x %8.5f m^2, D = %6.3f m\t= Mechanical propulsors\n", ip.Propulsors.Mech.Count,
			ip.Propulsors.Mech.JetArea, ip.Propulsors.Mech.FanDiameter())
	}
	if ip.Propulsors.Elec != nil {
		fmt.Printf("[%d] x %8.5f m^2, D = %6.3f m\t= Electrical propulsors\n", ip.Propulsors.Elec.Count,
			ip.Propulsors.Elec.JetArea, ip.Propulsors.Elec.FanDiameter())
	}
	fmt.Printf("%12.5e\t\t= Fuel SFC [kg/J]\n", ip.FuelModel().SFC)
	fmt.Printf("%12.1f\t\t= Battery max power [W]\n", ip.Battery.MaxPower)
	fmt.Printf("%12.1f\t\t= Battery energy [J]\n", ip.Battery.Energy())
	for _, seg := range ip.Segments {
		fmt.Printf("Segment[%s] = %d conditions\n", seg.Name, len(seg.Conditions))
	}
}

func (ip *InputParameters) Mix() power_balance.MixingParameters {
	return power_balance.MixingParameters{FS: ip.FS, FL: ip.FL}
}

func (ip *InputParameters) Efficiencies() power_balance.ComponentEfficiencies {
	if ip.Efficiency == nil {
		return power_balance.DefaultEfficiencies()
	}
	return *ip.Efficiency
}

func (ip *InputParameters) FuelModel() thrust_balance.FuelModel {
	k := ip.Fuel.K
	if k == 0 {
		k = 1
	}
	if ip.Fuel.Cp != 0 {
		return thrust_balance.FromCp(ip.Fuel.Cp, k)
	}
	return thrust_balance.FromThermal(ip.Fuel.HFuel*types.MJPerKg, ip.Fuel.EtaThermal, k)
}

func (ip *InputParameters) Inputs() (in thrust_balance.Inputs, err error) {
	var smt types.StreamModelType
	if len(ip.StreamModel) != 0 {
		if smt, err = types.NewStreamModelType(ip.StreamModel); err != nil {
			return
		}
	}
	in = thrust_balance.Inputs{
		Mix:        ip.Mix(),
		Efficiency: ip.Efficiencies(),
		BLI:        ip.BLI,
		Fuel:       ip.FuelModel(),
		Battery: thrust_balance.BatteryModel{
			MaxPower: ip.Battery.MaxPower,
			EtaMin:   ip.Battery.EtaMin,
		},
	}
	// any architecture with a turbine share burns fuel and must say how much
	if ip.FS < 1 && !(in.Fuel.SFC > 0) {
		err = types.NewParameterError("Fuel", in.Fuel.SFC, "Cp or hFuel with etaTh when fS < 1")
		return
	}
	switch smt {
	case types.FixedGeometry:
		in.Streams = ip.Propulsors
	case types.PowerSplit:
		in.Streams = ip.PowerSplit
	}
	err = in.Validate()
	return
}

func (ip *InputParameters) NetworkSegments() (segs []network.Segment) {
	segs = make([]network.Segment, len(ip.Segments))
	for i, sp := range ip.Segments {
		segs[i].Name = sp.Name
		segs[i].Conditions = make([]thrust_balance.FlightCondition, len(sp.Conditions))
		for j, cp := range sp.Conditions {
			segs[i].Conditions[j] = cp.FlightCondition()
		}
	}
	return
}

// Network builds the propulsion network described by the deck with a charged battery
func (ip *InputParameters) Network(s thrust_balance.Settings) (net *network.Network, err error) {
	var in thrust_balance.Inputs
	if in, err = ip.Inputs(); err != nil {
		return
	}
	if s.Newton.MaxIterations == 0 {
		s.Newton.MaxIterations = ip.MaxIterations
	}
	net = network.NewNetwork(in, s, ip.Battery.Energy())
	net.ThrustAngle = ip.ThrustAngle * math.Pi / 180
	return
}
