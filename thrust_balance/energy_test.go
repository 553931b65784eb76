package thrust_balance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gohybrid/types"
)

func TestFuelModel(t *testing.T) {
	fm := FromCp(289, 1)
	assert.InDelta(t, 0.0802778, fm.FlowRate(1.e6), 1.e-7)
	assert.NoError(t, fm.Validate())
	fm = FromThermal(43*types.MJPerKg, 0.5, 1.1)
	assert.InDelta(t, 1/(43.e6*0.5), fm.SFC, 1.e-20)
	assert.InDelta(t, 1.1*1.e6/(43.e6*0.5), fm.FlowRate(1.e6), 1.e-12)
	assert.Equal(t, 0., FromThermal(0, 0.5, 1).FlowRate(1.e6))
	assert.True(t, errors.Is(FuelModel{SFC: -1}.Validate(), types.ErrParameterRange))
	assert.True(t, errors.Is(FuelModel{SFC: 1, Multiplier: math.NaN()}.Validate(), types.ErrParameterRange))
}

func TestBatteryModel(t *testing.T) {
	bm := BatteryModel{MaxPower: 1.e6}
	{
		P, eta, overload := bm.Derate(0)
		assert.Equal(t, 0., P)
		assert.Equal(t, 1., eta)
		assert.False(t, overload)
	}
	{ // half load, 0.5 + (1-psi)/2
		P, eta, overload := bm.Derate(0.5e6)
		assert.InDelta(t, 0.75, eta, 1.e-12)
		assert.InDelta(t, 0.5e6/0.75, P, 1.e-6)
		assert.False(t, overload)
	}
	{ // beyond the rating the efficiency stays at the floor
		P, eta, overload := bm.Derate(2.e6)
		assert.Equal(t, 0.5, eta)
		assert.Equal(t, 4.e6, P)
		assert.True(t, overload)
	}
	{
		P, eta, _ := BatteryModel{MaxPower: 1.e6, EtaMin: 0.8}.Derate(1.e6)
		assert.InDelta(t, 0.8, eta, 1.e-12)
		assert.InDelta(t, 1.25e6, P, 1.e-6)
		P, eta, _ = BatteryModel{}.Derate(3.e5)
		assert.Equal(t, 1., eta)
		assert.Equal(t, 3.e5, P)
	}
	assert.True(t, errors.Is(BatteryModel{MaxPower: -1}.Validate(), types.ErrParameterRange))
	assert.True(t, errors.Is(BatteryModel{EtaMin: 1.5}.Validate(), types.ErrParameterRange))
}

func TestFlightCondition(t *testing.T) {
	fc := FromCoefficients(100, 1, 10, 0.03, 0.02)
	assert.InDelta(t, 5000., fc.DynamicPressure(), 1.e-9)
	assert.InDelta(t, 1500., fc.Drag, 1.e-9)
	assert.InDelta(t, 2./3., fc.ParasiteFraction, 1.e-12)
	assert.NoError(t, fc.Validate())
	assert.InDelta(t, 1500*(1-0.5*2./3.), fc.NetDrag(BLIFractions{Mech: 0.2, Elec: 0.3}), 1.e-9)
	assert.Equal(t, 0., FromCoefficients(100, 1, 10, 0, 0).ParasiteFraction)
	for _, bad := range []FlightCondition{
		{Velocity: 0, Density: 1},
		{Velocity: 10, Density: -1},
		{Velocity: 10, Density: 1, Drag: math.Inf(1)},
		{Velocity: 10, Density: 1, ParasiteFraction: -0.1},
	} {
		assert.True(t, errors.Is(bad.Validate(), types.ErrParameterRange))
	}
	assert.True(t, errors.Is(BLIFractions{Mech: 0.7, Elec: 0.6}.Validate(), types.ErrParameterRange))
	assert.True(t, errors.Is(BLIFractions{Surface: 2}.Validate(), types.ErrParameterRange))
	var pg *PropulsorGroup
	assert.Equal(t, 0., pg.FlowArea())
	pg = &PropulsorGroup{Count: 4, JetArea: math.Pi / 4}
	assert.InDelta(t, math.Pi, pg.FlowArea(), 1.e-12)
	assert.InDelta(t, 1., pg.FanDiameter(), 1.e-12)
}
