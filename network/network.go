package network

import (
	"fmt"
	"math"

	"github.com/notargets/gohybrid/power_balance"
	"github.com/notargets/gohybrid/thrust_balance"
	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// Network is a unified propulsion system evaluated segment by segment. It carries the
// battery state of charge and the peak power trackers from one segment to the next.
type Network struct {
	Inputs          thrust_balance.Inputs
	Settings        thrust_balance.Settings
	BatteryEnergy   float64 // J remaining
	MaxPower        float64 // largest total propulsive power seen, W
	MaxBatteryPower float64 // largest battery draw seen, W
	ThrustAngle     float64 // inclination of the thrust line to the body x axis, rad
}

func NewNetwork(in thrust_balance.Inputs, s thrust_balance.Settings, batteryEnergy float64) *Network {
	return &Network{
		Inputs:        in,
		Settings:      s,
		BatteryEnergy: batteryEnergy,
	}
}

// Segment is an ordered set of flight conditions, each stamped with its time
type Segment struct {
	Name       string
	Conditions []thrust_balance.FlightCondition
}

func (seg Segment) validate() error {
	for i := 1; i < len(seg.Conditions); i++ {
		if seg.Conditions[i].Time < seg.Conditions[i-1].Time {
			return fmt.Errorf("segment %q, condition %d: %w", seg.Name, i,
				types.NewParameterError("t", seg.Conditions[i].Time, "non-decreasing"))
		}
	}
	return nil
}

type SegmentResult struct {
	Segment       Segment
	Elements      []thrust_balance.ElementSolution
	Throttle      []float64    // PKtot over the peak power after this segment
	BatteryEnergy []float64    // J remaining at each condition
	FuelBurned    []float64    // kg burned since the start of the segment
	ThrustVector  [][3]float64 // body axes, N
}

// Unconverged lists the elements the root finder could not resolve
func (sr *SegmentResult) Unconverged() (idx []int) {
	for i, es := range sr.Elements {
		if !es.Converged {
			idx = append(idx, i)
		}
	}
	return
}

// Degraded lists the converged elements that needed clamping or overloaded the battery
func (sr *SegmentResult) Degraded() (idx []int) {
	for i, es := range sr.Elements {
		if es.Converged && es.Flags != 0 {
			idx = append(idx, i)
		}
	}
	return
}

func (sr *SegmentResult) TotalFuel() float64 {
	if len(sr.FuelBurned) == 0 {
		return 0
	}
	return sr.FuelBurned[len(sr.FuelBurned)-1]
}

func (sr *SegmentResult) Print() {
	fmt.Printf("Segment \"%s\", %d conditions\n", sr.Segment.Name, len(sr.Elements))
	fmt.Printf("%8s %10s %12s %12s %12s %12s %10s %14s %10s\n",
		"t[s]", "V[m/s]", "PKm[W]", "PKe[W]", "Pturb[W]", "Pbat[W]", "Throttle", "Ebat[J]", "Fuel[kg]")
	for i, es := range sr.Elements {
		fmt.Printf("%8.1f %10.3f %12.1f %12.1f %12.1f %12.1f %10.4f %14.1f %10.3f",
			es.Condition.Time, es.Condition.Velocity, es.PKm, es.PKe, es.Pturb, es.Pbat,
			sr.Throttle[i], sr.BatteryEnergy[i], sr.FuelBurned[i])
		switch {
		case !es.Converged:
			fmt.Printf("  unconverged")
		case es.Flags != 0:
			fmt.Printf("  [%s]", es.Flags)
		}
		fmt.Printf("\n")
	}
}

// Evaluate solves every condition of the segment, updates the peak power trackers and
// integrates battery energy and fuel with the trapezoidal rule. Once an element is
// unconverged the integrated quantities are NaN for the rest of the segment, and the
// battery state of the network is only advanced by a fully resolved segment.
func (n *Network) Evaluate(seg Segment) (sr *SegmentResult, err error) {
	if err = seg.validate(); err != nil {
		return
	}
	var sols []thrust_balance.ElementSolution
	if sols, err = thrust_balance.Solve(seg.Conditions, n.Inputs, n.Settings); err != nil {
		err = fmt.Errorf("segment %q: %w", seg.Name, err)
		return
	}
	var (
		N = len(sols)
	)
	sr = &SegmentResult{
		Segment:       seg,
		Elements:      sols,
		Throttle:      make([]float64, N),
		BatteryEnergy: make([]float64, N),
		FuelBurned:    make([]float64, N),
		ThrustVector:  make([][3]float64, N),
	}
	for _, es := range sols {
		if es.Converged {
			n.MaxPower = math.Max(n.MaxPower, es.PKtot())
			n.MaxBatteryPower = math.Max(n.MaxBatteryPower, es.Pbat)
		}
	}
	var (
		cosT, sinT = math.Cos(n.ThrustAngle), math.Sin(n.ThrustAngle)
		energy     = n.BatteryEnergy
		fuel       = 0.
	)
	for i, es := range sols {
		switch {
		case !es.Converged:
			sr.Throttle[i] = math.NaN()
		case n.MaxPower > 0:
			sr.Throttle[i] = es.PKtot() / n.MaxPower
		}
		T := es.EffectiveThrust
		sr.ThrustVector[i] = [3]float64{T * cosT, 0, -T * sinT}
		if i > 0 {
			var (
				prev = sols[i-1]
				dt   = es.Condition.Time - prev.Condition.Time
			)
			energy -= 0.5 * dt * (prev.Pbat + es.Pbat)
			fuel += 0.5 * dt * (prev.FuelFlow + es.FuelFlow)
		}
		if !es.Converged {
			energy, fuel = math.NaN(), math.NaN()
		}
		sr.BatteryEnergy[i], sr.FuelBurned[i] = energy, fuel
	}
	if N > 0 && !utils.IsNan(energy) {
		n.BatteryEnergy = energy
	}
	if n.Settings.Verbose {
		if bad := sr.Unconverged(); len(bad) != 0 {
			fmt.Printf("segment %q: %d unconverged elements %v\n", seg.Name, len(bad), bad)
		}
		if deg := sr.Degraded(); len(deg) != 0 {
			fmt.Printf("segment %q: %d degraded elements %v\n", seg.Name, len(deg), deg)
		}
	}
	return
}

// Size rates the energy network for the peak total propulsive power seen so far
func (n *Network) Size() (r *power_balance.Rating, err error) {
	if n.MaxPower <= 0 {
		err = types.NewParameterError("MaxPower", n.MaxPower, "(0,Inf), evaluate a segment first")
		return
	}
	return power_balance.Size(n.MaxPower, n.Inputs.Mix, n.Inputs.Efficiency)
}

// Reset clears the peak power trackers and recharges the battery
func (n *Network) Reset(batteryEnergy float64) {
	n.MaxPower, n.MaxBatteryPower = 0, 0
	n.BatteryEnergy = batteryEnergy
}
