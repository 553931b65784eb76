package power_balance

import (
	"fmt"
	"math"

	"github.com/notargets/gohybrid/types"
	"github.com/notargets/gohybrid/utils"
)

// MixingParameters place the architecture on the conventional to all-electric continuum.
// FS is the electrical share of the supplied power, FL the electrical share of the propulsive load.
type MixingParameters struct {
	FS float64 `json:"fS"`
	FL float64 `json:"fL"`
}

func (mp MixingParameters) Validate() error {
	if !utils.InRange(mp.FS, 0, 1) {
		return types.NewParameterError("fS", mp.FS, "[0,1]")
	}
	if !utils.InRange(mp.FL, 0, 1) {
		return types.NewParameterError("fL", mp.FL, "[0,1]")
	}
	return nil
}

// Architecture names the classical architecture at the corners and edges of the mixing square
func (mp MixingParameters) Architecture() string {
	switch {
	case mp.FS == 0 && mp.FL == 0:
		return "Conventional"
	case mp.FS == 1 && mp.FL == 1:
		return "AllElectric"
	case mp.FS == 0 && mp.FL == 1:
		return "TurboElectric"
	case mp.FS == 0:
		return "PartialTurboElectric"
	}
	return "Hybrid"
}

func (mp MixingParameters) String() string {
	return fmt.Sprintf("fS = %5.3f, fL = %5.3f (%s)", mp.FS, mp.FL, mp.Architecture())
}

type ComponentEfficiencies struct {
	Fan              float64 `json:"etaFan"`
	Motor            float64 `json:"etaMot"`
	PowerElectronics float64 `json:"etaPE"`
}

func DefaultEfficiencies() ComponentEfficiencies {
	return ComponentEfficiencies{
		Fan:              0.9,
		Motor:            0.95,
		PowerElectronics: 0.98,
	}
}

func (ce ComponentEfficiencies) Validate() error {
	for _, e := range []struct {
		name string
		val  float64
	}{
		{"etaFan", ce.Fan},
		{"etaMot", ce.Motor},
		{"etaPE", ce.PowerElectronics},
	} {
		if math.IsNaN(e.val) || e.val <= 0 || e.val > 1 {
			return types.NewParameterError(e.name, e.val, "(0,1]")
		}
	}
	return nil
}
