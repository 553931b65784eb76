package types

import (
	"fmt"
	"strings"
)

// TopologyType tags which of the two energy network variants is realised by a solve.
// It is derived from the mixing parameters and never stored between solves.
type TopologyType uint8

const (
	SeriesHybrid   TopologyType = iota // link machine is a generator
	ParallelHybrid                     // link machine is a motor
)

func (tt TopologyType) String() string {
	switch tt {
	case SeriesHybrid:
		return "SeriesHybrid"
	case ParallelHybrid:
		return "ParallelHybrid"
	}
	return fmt.Sprintf("TopologyType(%d)", uint8(tt))
}

// LinkRole is the role the link machine plays in the topology
func (tt TopologyType) LinkRole() string {
	if tt == SeriesHybrid {
		return "generator"
	}
	return "motor"
}

// StreamModelType selects the closure used by the thrust balance for the two propulsive streams
type StreamModelType uint8

const (
	FixedGeometry StreamModelType = iota // continuity through installed jet areas, six unknowns
	PowerSplit                           // jet velocity from propulsive efficiency, four unknowns
)

var StreamModelNameMap = map[string]StreamModelType{
	"fixedgeometry": FixedGeometry,
	"geometry":      FixedGeometry,
	"area":          FixedGeometry,
	"powersplit":    PowerSplit,
	"split":         PowerSplit,
	"simplified":    PowerSplit,
}

func NewStreamModelType(label string) (smt StreamModelType, err error) {
	var (
		ok  bool
		key = strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(label))
	)
	if smt, ok = StreamModelNameMap[key]; !ok {
		err = fmt.Errorf("%w: unknown stream model %q", ErrParameterRange, label)
	}
	return
}

func (smt StreamModelType) String() string {
	switch smt {
	case FixedGeometry:
		return "FixedGeometry"
	case PowerSplit:
		return "PowerSplit"
	}
	return fmt.Sprintf("StreamModelType(%d)", uint8(smt))
}

// ElementFlag records the non-physical conditions detected for one solved element.
// Flags are additive, an element may carry several.
type ElementFlag uint16

const (
	FlagNegativeMassFlowMech ElementFlag = 1 << iota
	FlagNegativeMassFlowElec
	FlagNegativePowerMech
	FlagNegativePowerElec
	FlagSubFreestreamJetMech
	FlagSubFreestreamJetElec
	FlagBatteryOverload
)

var elementFlagNames = []string{
	"NegativeMassFlowMech",
	"NegativeMassFlowElec",
	"NegativePowerMech",
	"NegativePowerElec",
	"SubFreestreamJetMech",
	"SubFreestreamJetElec",
	"BatteryOverload",
}

func (ef ElementFlag) Has(flag ElementFlag) bool { return ef&flag != 0 }

func (ef ElementFlag) Clamped() bool { return ef&^FlagBatteryOverload != 0 }

func (ef ElementFlag) String() string {
	if ef == 0 {
		return "None"
	}
	var names []string
	for i, name := range elementFlagNames {
		if ef&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}
