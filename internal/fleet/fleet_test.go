package fleet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// factorTable is a CombustionFactors keyed by engine type then fuel name.
type factorTable map[string]map[string]float64

func (t factorTable) CombustionFactor(engineType, fuel string) (float64, bool) {
	v, ok := t[engineType][fuel]
	return v, ok
}

func mustFuel(t *testing.T, spec FuelSpec) Fuel {
	t.Helper()
	f, err := NewFuel(spec)
	require.NoError(t, err)
	return f
}

func TestNewFuel(t *testing.T) {
	two := 2.0
	negative := -1.0

	tests := []struct {
		name        string
		spec        FuelSpec
		wantErr     bool
		wantReward  float64
		wantSlipped float64
		wantGWP     float64
	}{
		{
			name:       "fossil fuel",
			spec:       FuelSpec{Name: "HFO", WtTEmissionFactor: 13.5, LowerCalorificValue: 0.0405},
			wantReward: RewardFactorStandard,
			wantGWP:    DefaultGlobalWarmingPotential,
		},
		{
			name: "methane slips with its GWP",
			spec: FuelSpec{
				Name: "LNG", WtTEmissionFactor: 18.5, LowerCalorificValue: 0.0491,
				GlobalWarmingPotential: 25, SlipFactor: 1,
			},
			wantReward:  RewardFactorStandard,
			wantSlipped: 25,
			wantGWP:     25,
		},
		{
			name: "renewable non-biological fuel is rewarded",
			spec: FuelSpec{
				Name: "e-methanol", WtTEmissionFactor: 1, LowerCalorificValue: 0.02,
				NonBiological: true, Renewable: true,
			},
			wantReward: RewardFactorRFNBO,
			wantGWP:    1,
		},
		{
			name: "non-biological but not renewable",
			spec: FuelSpec{
				Name: "grey-ammonia", WtTEmissionFactor: 120, LowerCalorificValue: 0.0186, NonBiological: true,
			},
			wantReward: RewardFactorStandard,
			wantGWP:    1,
		},
		{
			name:       "explicit reward overrides derivation",
			spec:       FuelSpec{Name: "X", LowerCalorificValue: 1, RewardFactor: &two},
			wantReward: 2,
			wantGWP:    1,
		},
		{name: "missing name", spec: FuelSpec{LowerCalorificValue: 1}, wantErr: true},
		{name: "zero calorific value", spec: FuelSpec{Name: "X"}, wantErr: true},
		{name: "negative WtT factor", spec: FuelSpec{Name: "X", LowerCalorificValue: 1, WtTEmissionFactor: -1}, wantErr: true},
		{name: "NaN WtT factor", spec: FuelSpec{Name: "X", LowerCalorificValue: 1, WtTEmissionFactor: math.NaN()}, wantErr: true},
		{name: "slip factor outside 0/1", spec: FuelSpec{Name: "X", LowerCalorificValue: 1, SlipFactor: 0.5}, wantErr: true},
		{name: "negative GWP", spec: FuelSpec{Name: "X", LowerCalorificValue: 1, GlobalWarmingPotential: -3}, wantErr: true},
		{name: "negative reward", spec: FuelSpec{Name: "X", LowerCalorificValue: 1, RewardFactor: &negative}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFuel(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.spec.Name, got.Name())
			assert.InDelta(t, tt.wantReward, got.RewardFactor(), 1e-12)
			assert.InDelta(t, tt.wantSlipped, got.SlippedEF(), 1e-12)
			assert.InDelta(t, tt.wantGWP, got.GlobalWarmingPotential(), 1e-12)
		})
	}
}

func TestDeriveRewardFactor(t *testing.T) {
	assert.InDelta(t, RewardFactorRFNBO, DeriveRewardFactor(true, true), 0)
	assert.InDelta(t, RewardFactorStandard, DeriveRewardFactor(true, false), 0)
	// Biological fuels, renewable or not, keep the standard weight.
	assert.InDelta(t, RewardFactorStandard, DeriveRewardFactor(false, true), 0)
	assert.InDelta(t, RewardFactorStandard, DeriveRewardFactor(false, false), 0)
}

func TestNewElectricity(t *testing.T) {
	grid, err := NewElectricity(ElectricitySpec{Name: "grid", EmissionFactor: 55})
	require.NoError(t, err)
	assert.InDelta(t, 55.0, grid.EmissionFactor(), 1e-12)
	assert.False(t, grid.IsGreen())
	assert.InDelta(t, ElectricityCalorificValue, grid.LowerCalorificValue(), 1e-12)

	green, err := NewElectricity(ElectricitySpec{Name: "green", EmissionFactor: 55, Green: true})
	require.NoError(t, err)
	assert.Zero(t, green.EmissionFactor(), "green electricity must carry no emission factor")
	assert.Zero(t, green.SlippedEF())

	_, err = NewElectricity(ElectricitySpec{EmissionFactor: 1})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNormalizeSlipRate(t *testing.T) {
	tests := []struct {
		in      float64
		want    float64
		wantErr bool
	}{
		{in: 0, want: 0},
		{in: 0.02, want: 0.02},
		{in: 0.999, want: 0.999},
		{in: 1, want: 0.01},
		{in: 3.1, want: 0.031},
		{in: 100, want: 1},
		{in: 150, wantErr: true},
		{in: -0.1, wantErr: true},
		{in: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeSlipRate(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrConfiguration, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "input %v", tt.in)
	}
}

func TestNewEngine(t *testing.T) {
	hfo := mustFuel(t, FuelSpec{Name: "HFO", WtTEmissionFactor: 13.5, LowerCalorificValue: 0.0405})
	lng := mustFuel(t, FuelSpec{
		Name: "LNG", WtTEmissionFactor: 18.5, LowerCalorificValue: 0.0491, GlobalWarmingPotential: 25, SlipFactor: 1,
	})
	factors := factorTable{"dual-fuel": {"HFO": 3.114, "LNG": 2.75}}

	t.Run("derives per-fuel factors", func(t *testing.T) {
		e, err := NewEngine(EngineSpec{Name: "ME", Type: "dual-fuel", Fuels: []Fuel{hfo, lng}, SlipRate: 3.1}, factors)
		require.NoError(t, err)

		assert.Equal(t, "ME", e.Name())
		assert.Equal(t, "dual-fuel", e.Type())
		assert.InDelta(t, 0.031, e.SlipRate(), 1e-12)
		assert.InDeltaSlice(t, []float64{3.114, 25 * 2.75}, e.CombustedEFs(), 1e-12)
		assert.InDeltaSlice(t, []float64{0, 25}, e.SlippedEFs(), 1e-12)

		cf, ok := e.CombustedEF("LNG")
		assert.True(t, ok)
		assert.InDelta(t, 68.75, cf, 1e-12)

		_, ok = e.CombustedEF("MDO")
		assert.False(t, ok)
		require.Len(t, e.Sources(), 2)
	})

	t.Run("type defaults to name", func(t *testing.T) {
		e, err := NewEngine(EngineSpec{Name: "dual-fuel", Fuels: []Fuel{hfo}}, factors)
		require.NoError(t, err)
		assert.Equal(t, "dual-fuel", e.Type())
	})

	t.Run("errors", func(t *testing.T) {
		cases := map[string]EngineSpec{
			"no name":          {Type: "dual-fuel", Fuels: []Fuel{hfo}},
			"no fuels":         {Name: "ME", Type: "dual-fuel"},
			"duplicate fuel":   {Name: "ME", Type: "dual-fuel", Fuels: []Fuel{hfo, hfo}},
			"unknown type":     {Name: "ME", Type: "diesel", Fuels: []Fuel{hfo}},
			"bad slip rate":    {Name: "ME", Type: "dual-fuel", Fuels: []Fuel{hfo}, SlipRate: 250},
			"negative slip":    {Name: "ME", Type: "dual-fuel", Fuels: []Fuel{hfo}, SlipRate: -1},
			"fuel not in type": {Name: "ME", Type: "dual-fuel", Fuels: []Fuel{mustFuel(t, FuelSpec{Name: "MDO", LowerCalorificValue: 1})}},
		}
		for name, spec := range cases {
			_, err := NewEngine(spec, factors)
			assert.ErrorIs(t, err, ErrConfiguration, name)
		}

		_, err := NewEngine(EngineSpec{Name: "ME", Fuels: []Fuel{hfo}}, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestNewShip(t *testing.T) {
	hfo := mustFuel(t, FuelSpec{Name: "HFO", WtTEmissionFactor: 13.5, LowerCalorificValue: 0.0405})
	mdo := mustFuel(t, FuelSpec{Name: "MDO", WtTEmissionFactor: 14.4, LowerCalorificValue: 0.0427})
	factors := factorTable{"ME": {"HFO": 3.114, "MDO": 3.206}, "AE": {"MDO": 3.206}}

	me, err := NewEngine(EngineSpec{Name: "ME", Fuels: []Fuel{hfo, mdo}}, factors)
	require.NoError(t, err)
	ae, err := NewEngine(EngineSpec{Name: "AE", Fuels: []Fuel{mdo}}, factors)
	require.NoError(t, err)
	grid, err := NewElectricity(ElectricitySpec{Name: "grid", EmissionFactor: 40})
	require.NoError(t, err)
	ops, err := NewElectricPort("OPS", grid)
	require.NoError(t, err)

	t.Run("collects fuel union in order of appearance", func(t *testing.T) {
		ship, err := NewShip(ShipSpec{Name: "Aurora", Generators: []PowerGenerator{me, ae, ops}})
		require.NoError(t, err)

		assert.Equal(t, []string{"ME", "AE", "OPS"}, ship.EngineNames())
		assert.Equal(t, []string{"HFO", "MDO", "grid"}, ship.FuelNames())
		assert.InDelta(t, DefaultShipEF, ship.ShipEF(), 1e-12)

		g, ok := ship.Engine("OPS")
		require.True(t, ok)
		assert.Zero(t, g.SlipRate())
		require.Len(t, g.Sources(), 1)

		src, ok := ship.Fuel("MDO")
		require.True(t, ok)
		assert.Equal(t, mdo, src)
	})

	t.Run("duplicate engine names", func(t *testing.T) {
		_, err := NewShip(ShipSpec{Name: "Aurora", Generators: []PowerGenerator{me, me}})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("conflicting fuel definitions", func(t *testing.T) {
		otherMDO := mustFuel(t, FuelSpec{Name: "MDO", WtTEmissionFactor: 99, LowerCalorificValue: 0.0427})
		other, err := NewEngine(EngineSpec{Name: "AE2", Type: "AE", Fuels: []Fuel{otherMDO}}, factors)
		require.NoError(t, err)

		_, err = NewShip(ShipSpec{Name: "Aurora", Generators: []PowerGenerator{me, other}})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("no engines", func(t *testing.T) {
		_, err := NewShip(ShipSpec{Name: "Aurora"})
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}
