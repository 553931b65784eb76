package power_balance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gohybrid/types"
)

const PKtot = 300.e3

func isNear(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Abs(b))
}

func TestSolvePowerFlowFixture(t *testing.T) {
	eff := DefaultEfficiencies()
	pfs, err := SolvePowerFlow(PKtot, MixingParameters{FS: 0.5, FL: 0.5}, eff)
	require.NoError(t, err)
	assert.True(t, pfs.IsSeries())
	expected := []float64{
		150000, 150000, 166666.667, 166666.667, 175438.596, 179018.976,
		173063.513, 173063.513, 6396.846, 6077.004, -5955.463,
	}
	assert.InDeltaSlice(t, expected, pfs.Vector(), 1.e-2)
	assert.True(t, pfs.Cond >= 1 && pfs.Cond < 1.e12)
}

func TestSolvePowerFlowCorners(t *testing.T) {
	var (
		eff = DefaultEfficiencies()
		Pf  = PKtot / eff.Fan
		Pe  = Pf / eff.Motor / eff.PowerElectronics
	)
	type corner struct {
		mix      MixingParameters
		topology types.TopologyType
		expected map[int]float64
	}
	corners := []corner{
		{ // conventional, all mechanical
			MixingParameters{0, 0}, types.ParallelHybrid,
			map[int]float64{IPKm: PKtot, IPfanM: Pf, IPturb: Pf},
		},
		{ // all electric
			MixingParameters{1, 1}, types.ParallelHybrid,
			map[int]float64{IPKe: PKtot, IPfanE: Pf, IPmot: Pf / eff.Motor, IPinv: Pe, IPbat: Pe},
		},
		{ // turbo electric
			MixingParameters{0, 1}, types.SeriesHybrid,
			map[int]float64{IPKe: PKtot, IPfanE: Pf, IPmot: Pf / eff.Motor, IPinv: Pe,
				IPturb: 384573.525, IPlinkMachine: 384573.525, IPconv: 365344.849, IPlink: -Pe},
		},
		{ // battery drives the mechanical fans through the link motor
			MixingParameters{1, 0}, types.ParallelHybrid,
			map[int]float64{IPKm: PKtot, IPfanM: Pf, IPbat: 358037.952, IPlinkMachine: Pf,
				IPconv: Pf / eff.Motor, IPlink: 358037.952},
		},
	}
	for _, c := range corners {
		pfs, err := SolvePowerFlow(PKtot, c.mix, eff)
		require.NoError(t, err, c.mix.String())
		assert.Equal(t, c.topology, pfs.Topology, c.mix.String())
		for i, val := range pfs.Vector() {
			assert.InDelta(t, c.expected[i], val, 1.e-2, "%s %s", c.mix, PowerNames[i])
			if i != IPlink {
				assert.False(t, math.Signbit(val), "%s %s is negative zero", c.mix, PowerNames[i])
			}
		}
	}
	{
		assert.Equal(t, "Conventional", MixingParameters{0, 0}.Architecture())
		assert.Equal(t, "AllElectric", MixingParameters{1, 1}.Architecture())
		assert.Equal(t, "TurboElectric", MixingParameters{0, 1}.Architecture())
		assert.Equal(t, "PartialTurboElectric", MixingParameters{0, 0.4}.Architecture())
		assert.Equal(t, "Hybrid", MixingParameters{0.3, 0.4}.Architecture())
	}
}

func TestSolvePowerFlowInterior(t *testing.T) {
	eff := DefaultEfficiencies()
	{ // parallel, the bus feeds the link motor
		pfs, err := SolvePowerFlow(PKtot, MixingParameters{FS: 0.3, FL: 0.2}, eff)
		require.NoError(t, err)
		assert.Equal(t, types.ParallelHybrid, pfs.Topology)
		assert.InDelta(t, 102113.755, pfs.Pbat, 1.e-2)
		assert.InDelta(t, 238265.428, pfs.Pturb, 1.e-2)
		assert.InDelta(t, 30506.164, pfs.Plink, 1.e-2)
	}
	{ // series, the link generator feeds the bus
		pfs, err := SolvePowerFlow(PKtot, MixingParameters{FS: 0.2, FL: 0.7}, eff)
		require.NoError(t, err)
		assert.Equal(t, types.SeriesHybrid, pfs.Topology)
		assert.InDelta(t, 72761.763, pfs.Pbat, 1.e-2)
		assert.InDelta(t, 291047.05, pfs.Pturb, 1.e-2)
		assert.InDelta(t, -177864.804, pfs.Plink, 1.e-2)
	}
	{ // zero demand
		pfs, err := SolvePowerFlow(0, MixingParameters{FS: 0.4, FL: 0.6}, eff)
		require.NoError(t, err)
		for i, val := range pfs.Vector() {
			assert.Equal(t, 0., val, PowerNames[i])
		}
	}
}

func TestPowerFlowIdentities(t *testing.T) {
	effs := []ComponentEfficiencies{
		DefaultEfficiencies(),
		{Fan: 1, Motor: 1, PowerElectronics: 1},
		{Fan: 0.8, Motor: 0.85, PowerElectronics: 0.9},
	}
	for _, eff := range effs {
		for i := 0; i <= 10; i++ {
			for j := 0; j <= 10; j++ {
				mix := MixingParameters{FS: float64(i) / 10, FL: float64(j) / 10}
				pfs, err := SolvePowerFlow(PKtot, mix, eff)
				require.NoError(t, err, mix.String())
				assert.True(t, isNear(pfs.PKtot(), PKtot, 1.e-9))
				assert.True(t, isNear(pfs.PKe, mix.FL*PKtot, 1.e-9), mix.String())
				if pfs.Supplied() > 0 {
					assert.True(t, isNear(pfs.Pbat, mix.FS*pfs.Supplied(), 1.e-9), mix.String())
				}
				// fan and motor chain
				assert.True(t, isNear(pfs.PfanE, pfs.PKe/eff.Fan, 1.e-9))
				assert.True(t, isNear(pfs.PfanM, pfs.PKm/eff.Fan, 1.e-9))
				assert.True(t, isNear(pfs.Pinv, pfs.Pmot/eff.PowerElectronics, 1.e-9))
				// DC bus
				assert.InDelta(t, pfs.Pbat, pfs.Pinv+pfs.Plink, 1.e-6)
				for k, val := range pfs.Vector() {
					if k != IPlink {
						assert.True(t, val >= 0, "%s %s = %g", mix, PowerNames[k], val)
					}
				}
				switch pfs.Topology {
				case types.SeriesHybrid:
					assert.True(t, pfs.Plink <= 0, mix.String())
					assert.InDelta(t, pfs.Pturb, pfs.PfanM+pfs.PlinkMachine, 1.e-6)
				case types.ParallelHybrid:
					assert.True(t, pfs.Plink >= 0, mix.String())
					assert.InDelta(t, pfs.PfanM, pfs.Pturb+pfs.PlinkMachine, 1.e-6)
				}
				// supplied power covers the propulsive power
				assert.True(t, pfs.Supplied() >= PKtot*(1-1.e-12), mix.String())
			}
		}
	}
}

func TestSelectTopology(t *testing.T) {
	eff := DefaultEfficiencies()
	{ // pure and repeatable
		mix := MixingParameters{FS: 0.35, FL: 0.45}
		first := SelectTopology(mix, eff)
		for n := 0; n < 10; n++ {
			assert.Equal(t, first, SelectTopology(mix, eff))
		}
	}
	{ // on the boundary lhs == rhs the link is a motor
		eff1 := ComponentEfficiencies{Fan: 1, Motor: 1, PowerElectronics: 1}
		assert.Equal(t, types.ParallelHybrid, SelectTopology(MixingParameters{FS: 0.5, FL: 0.5}, eff1))
		assert.Equal(t, types.SeriesHybrid, SelectTopology(MixingParameters{FS: 0.5, FL: 0.5}, eff))
		pfs, err := SolvePowerFlow(PKtot, MixingParameters{FS: 0.5, FL: 0.5}, eff1)
		require.NoError(t, err)
		assert.InDelta(t, 0., pfs.Plink, 1.e-9)
	}
	{
		assert.Equal(t, types.SeriesHybrid, NewTopology(types.SeriesHybrid).Type())
		assert.Equal(t, types.ParallelHybrid, NewTopology(types.ParallelHybrid).Type())
		assert.Panics(t, func() { NewTopology(types.TopologyType(9)) })
	}
	{ // the variants share all rows except 5, 7 and 8
		mix := MixingParameters{FS: 0.3, FL: 0.6}
		As := NewTopology(types.SeriesHybrid).Coefficients(mix, eff)
		Ap := NewTopology(types.ParallelHybrid).Coefficients(mix, eff)
		for i := 0; i < NumPowers; i++ {
			for j := 0; j < NumPowers; j++ {
				if i == 5 || i == 7 || i == 8 {
					continue
				}
				assert.Equal(t, As.At(i, j), Ap.At(i, j))
			}
		}
	}
}

func TestPowerFlowInfeasible(t *testing.T) {
	mix := MixingParameters{FS: 0.5, FL: 0.5}
	{ // very lossy components are still solvable
		eta := 1.e-3
		pfs, err := SolvePowerFlow(PKtot, mix, ComponentEfficiencies{Fan: eta, Motor: eta, PowerElectronics: eta})
		require.NoError(t, err)
		assert.True(t, pfs.IsSeries())
		assert.True(t, pfs.Cond < 1.e12)
		assert.True(t, isNear(pfs.PfanE, pfs.PKe/eta, 1.e-8))
		assert.True(t, isNear(pfs.Pinv, pfs.PKe/(eta*eta*eta), 1.e-8))
		assert.True(t, isNear(pfs.Pbat, 0.5*(pfs.Pbat+pfs.Pturb), 1.e-8))
		assert.True(t, pfs.Plink < 0)
	}
	{ // the condition estimate exceeds the solver limit
		eta := 1.e-5
		pfs, err := SolvePowerFlow(PKtot, mix, ComponentEfficiencies{Fan: eta, Motor: eta, PowerElectronics: eta})
		assert.Nil(t, pfs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrInfeasibleTopology))
		assert.False(t, errors.Is(err, types.ErrParameterRange))
		var ie *types.InfeasibleError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, types.SeriesHybrid, ie.Topology)
		assert.Equal(t, "", ie.Component)
		assert.True(t, ie.Value > 1.e12)
	}
	tol := 1.e-3
	{ // a power below zero beyond the tolerance
		x := make([]float64, NumPowers)
		x[IPKe], x[IPmot], x[IPlink] = 10, -1, -5
		err := checkPowers(types.SeriesHybrid, x, tol)
		var ie *types.InfeasibleError
		require.True(t, errors.As(err, &ie))
		assert.True(t, errors.Is(err, types.ErrInfeasibleTopology))
		assert.Equal(t, "Pmot", ie.Component)
		assert.Equal(t, -1., ie.Value)
	}
	{ // the link must feed the bus in series and draw from it in parallel
		for _, c := range []struct {
			tt    types.TopologyType
			plink float64
		}{
			{types.SeriesHybrid, 1},
			{types.ParallelHybrid, -1},
		} {
			x := make([]float64, NumPowers)
			x[IPlink] = c.plink
			err := checkPowers(c.tt, x, tol)
			var ie *types.InfeasibleError
			require.True(t, errors.As(err, &ie), c.tt.String())
			assert.Equal(t, "Plink", ie.Component)
			assert.Equal(t, c.tt, ie.Topology)
			assert.Contains(t, err.Error(), c.tt.LinkRole())
		}
	}
	{ // round-off departures are zeroed
		x := make([]float64, NumPowers)
		x[IPKe], x[IPbat], x[IPlink] = 10, -1.e-4, 1.e-4
		require.NoError(t, checkPowers(types.SeriesHybrid, x, tol))
		assert.Equal(t, 0., x[IPbat])
		assert.False(t, math.Signbit(x[IPbat]))
		assert.Equal(t, 0., x[IPlink])
		assert.Equal(t, 10., x[IPKe])
	}
}

func TestPowerFlowParameterErrors(t *testing.T) {
	eff := DefaultEfficiencies()
	bad := []struct {
		PKtot float64
		mix   MixingParameters
		eff   ComponentEfficiencies
		name  string
	}{
		{PKtot, MixingParameters{FS: 1.2, FL: 0.5}, eff, "fS"},
		{PKtot, MixingParameters{FS: 0.5, FL: -0.1}, eff, "fL"},
		{PKtot, MixingParameters{FS: math.NaN(), FL: 0.5}, eff, "fS"},
		{PKtot, MixingParameters{FS: 0.5, FL: 0.5}, ComponentEfficiencies{Fan: 0, Motor: 0.9, PowerElectronics: 0.9}, "etaFan"},
		{PKtot, MixingParameters{FS: 0.5, FL: 0.5}, ComponentEfficiencies{Fan: 0.9, Motor: 1.1, PowerElectronics: 0.9}, "etaMot"},
		{PKtot, MixingParameters{FS: 0.5, FL: 0.5}, ComponentEfficiencies{Fan: 0.9, Motor: 0.9, PowerElectronics: -1}, "etaPE"},
		{-1, MixingParameters{FS: 0.5, FL: 0.5}, eff, "PKtot"},
		{math.Inf(1), MixingParameters{FS: 0.5, FL: 0.5}, eff, "PKtot"},
	}
	for _, b := range bad {
		pfs, err := SolvePowerFlow(b.PKtot, b.mix, b.eff)
		assert.Nil(t, pfs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrParameterRange))
		var pe *types.ParameterError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, b.name, pe.Name)
	}
}

func TestSize(t *testing.T) {
	var (
		eff = DefaultEfficiencies()
		mix = MixingParameters{FS: 0.2, FL: 0.7}
	)
	r, err := Size(2*PKtot, mix, eff)
	require.NoError(t, err)
	assert.True(t, r.Plink > 0)
	fanMech, fanElec, motor := r.PerUnit(2, 4)
	assert.InDelta(t, r.PfanM/2, fanMech, 1.e-9)
	assert.InDelta(t, r.PfanE/4, fanElec, 1.e-9)
	assert.InDelta(t, r.Pmot/4, motor, 1.e-9)
	{
		pfs, err := SolvePowerFlow(PKtot, mix, eff)
		require.NoError(t, err)
		assert.True(t, r.Covers(pfs))
		pfs, err = SolvePowerFlow(3*PKtot, mix, eff)
		require.NoError(t, err)
		assert.False(t, r.Covers(pfs))
	}
	_, err = Size(PKtot, MixingParameters{FS: 2, FL: 0}, eff)
	assert.True(t, errors.Is(err, types.ErrParameterRange))
}
