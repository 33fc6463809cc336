package scenario_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fuelghg/internal/consumption"
	"github.com/rshade/fuelghg/internal/engine"
	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/reference"
	"github.com/rshade/fuelghg/internal/scenario"
	"github.com/rshade/fuelghg/internal/table"
)

const referenceYAML = `
version: "1.0.0"
fuels:
  - name: conventional
    wtt_ef: 0.5
    lcv: 40
  - name: methane
    wtt_ef: 0.3
    lcv: 50
    gwp: 25
    slip_factor: 1
electricity:
  - name: shore
    emission_factor: 55
engines:
  - type: dual-fuel
    slip_rate: 2
    combustion_factors:
      conventional: 3.2
      methane: 0.11
  - type: diesel
    combustion_factors:
      conventional: 3.2
`

const fleetYAML = `
ships:
  - name: Aurora
    ship_ef: 1.1
    generators:
      - name: ME
        type: dual-fuel
        fuels: [conventional, methane]
      - name: OPS
        electricity: shore
  - name: Borealis
    wind_proportion: 0.12
    generators:
      - name: AE
        type: diesel
        fuels: [conventional]
        slip_rate: 0
`

const consumptionCSV = `ship,generator,fuel,mass
Aurora,ME,conventional,50
Aurora,ME,methane,40
Aurora,ME,conventional,25
Aurora,OPS,shore,300
Borealis,AE,conventional,80
`

func setup(t *testing.T) (*reference.Registry, scenario.File, *table.Table) {
	t.Helper()
	ref, err := reference.Parse([]byte(referenceYAML))
	require.NoError(t, err)
	f, err := scenario.ParseFile([]byte(fleetYAML))
	require.NoError(t, err)
	tbl, err := table.ReadCSV(strings.NewReader(consumptionCSV))
	require.NoError(t, err)
	return ref, f, tbl
}

func TestBuildShips(t *testing.T) {
	ref, f, _ := setup(t)

	ships, err := scenario.BuildShips(f, ref)
	require.NoError(t, err)
	require.Len(t, ships, 2)

	aurora := ships[0]
	assert.Equal(t, "Aurora", aurora.Name())
	assert.InDelta(t, 1.1, aurora.ShipEF(), 0)
	assert.Equal(t, []string{"ME", "OPS"}, aurora.EngineNames())
	assert.Equal(t, []string{"conventional", "methane", "shore"}, aurora.FuelNames())

	me, ok := aurora.Engine("ME")
	require.True(t, ok)
	assert.InDelta(t, 0.02, me.SlipRate(), 1e-15)

	ae, ok := ships[1].Engine("AE")
	require.True(t, ok)
	assert.Zero(t, ae.SlipRate())
}

func TestBuildShips_Errors(t *testing.T) {
	ref, _, _ := setup(t)

	tests := []struct {
		name string
		yaml string
	}{
		{name: "duplicate ship", yaml: "ships:\n  - name: A\n    generators: [{name: G, electricity: shore}]\n  - name: A\n    generators: [{name: G, electricity: shore}]\n"},
		{name: "mixed generator", yaml: "ships:\n  - name: A\n    generators: [{name: G, electricity: shore, type: diesel}]\n"},
		{name: "no type", yaml: "ships:\n  - name: A\n    generators: [{name: G}]\n"},
		{name: "unknown engine type", yaml: "ships:\n  - name: A\n    generators: [{name: G, type: steam, fuels: [conventional]}]\n"},
		{name: "unknown electricity", yaml: "ships:\n  - name: A\n    generators: [{name: G, electricity: solar}]\n"},
		{name: "no generators", yaml: "ships:\n  - name: A\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := scenario.ParseFile([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = scenario.BuildShips(f, ref)
			assert.ErrorIs(t, err, fleet.ErrConfiguration)
		})
	}

	_, err := scenario.BuildShip(scenario.ShipConfig{Name: "A"}, nil)
	assert.ErrorIs(t, err, fleet.ErrConfiguration)
}

func TestParseFile_Errors(t *testing.T) {
	_, err := scenario.ParseFile([]byte("ships: []\n"))
	assert.ErrorIs(t, err, fleet.ErrConfiguration)

	_, err = scenario.ParseFile([]byte("ships: {"))
	assert.ErrorIs(t, err, fleet.ErrConfiguration)

	_, err = scenario.LoadFile("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	ref, f, tbl := setup(t)
	ships, err := scenario.BuildShips(f, ref)
	require.NoError(t, err)

	records, err := scenario.Records(tbl, ships)
	require.NoError(t, err)

	assert.Equal(t, []consumption.Record{
		{"conventional": 75, "methane": 40},
		{"shore": 300},
	}, records["Aurora"])
	assert.Equal(t, []consumption.Record{{"conventional": 80}}, records["Borealis"])
}

func TestRecords_ShipWithoutRows(t *testing.T) {
	ref, f, _ := setup(t)
	ships, err := scenario.BuildShips(f, ref)
	require.NoError(t, err)

	empty, err := table.ReadCSV(strings.NewReader("ship,generator,fuel,mass\n"))
	require.NoError(t, err)
	records, err := scenario.Records(empty, ships)
	require.NoError(t, err)
	assert.Equal(t, []consumption.Record{{}, {}}, records["Aurora"])
}

func TestRecords_Errors(t *testing.T) {
	ref, f, _ := setup(t)
	ships, err := scenario.BuildShips(f, ref)
	require.NoError(t, err)

	tests := []struct {
		name string
		csv  string
		want error
	}{
		{name: "missing column", csv: "ship,generator,mass\nAurora,ME,1\n", want: table.ErrSchema},
		{name: "mass not numeric", csv: "ship,generator,fuel,mass\nAurora,ME,conventional,lots\n", want: table.ErrSchema},
		{name: "unknown ship", csv: "ship,generator,fuel,mass\nZephyr,ME,conventional,1\n", want: fleet.ErrConfiguration},
		{name: "unknown generator", csv: "ship,generator,fuel,mass\nAurora,AE,conventional,1\n", want: fleet.ErrConfiguration},
		{name: "negative mass", csv: "ship,generator,fuel,mass\nAurora,ME,conventional,-1\n", want: fleet.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := table.ReadCSV(strings.NewReader(tt.csv))
			require.NoError(t, err)
			_, err = scenario.Records(tbl, ships)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = scenario.Records(nil, ships)
	assert.ErrorIs(t, err, fleet.ErrConfiguration)
}

func TestAssemble_NumericNames(t *testing.T) {
	ref, err := reference.Parse([]byte(referenceYAML))
	require.NoError(t, err)
	f, err := scenario.ParseFile([]byte(`
ships:
  - name: "9321483"
    generators:
      - name: "1"
        type: diesel
        fuels: [conventional]
`))
	require.NoError(t, err)

	tbl, err := table.ReadCSV(strings.NewReader("ship,generator,fuel,mass\n9321483,1,conventional,1000\n"), scenario.Columns()...)
	require.NoError(t, err)

	scenarios, err := scenario.Assemble(f, ref, tbl)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "9321483", scenarios[0].Ship.Name())
	assert.Equal(t, []consumption.Record{{"conventional": 1000}}, scenarios[0].Records)
}

func TestRecordsTable_RoundTrip(t *testing.T) {
	ref, f, tbl := setup(t)
	ships, err := scenario.BuildShips(f, ref)
	require.NoError(t, err)
	records, err := scenario.Records(tbl, ships)
	require.NoError(t, err)

	out, err := scenario.RecordsTable(ships, records)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len(), "duplicate rows are summed")
	assert.Equal(t, []any{"Aurora", "ME", "conventional", 75.0}, out.Row(0))

	again, err := scenario.Records(out, ships)
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestAssemble(t *testing.T) {
	ref, f, tbl := setup(t)

	scenarios, err := scenario.Assemble(f, ref, tbl)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Nil(t, scenarios[0].WindProportion)
	require.NotNil(t, scenarios[1].WindProportion)
	assert.InDelta(t, 0.12, *scenarios[1].WindProportion, 0)

	e, err := engine.New(engine.Options{TargetIntensity: 1})
	require.NoError(t, err)
	outcomes, err := e.EvaluateFleet(context.Background(), scenarios)
	require.NoError(t, err)
	for _, o := range outcomes {
		require.NoError(t, o.Err, o.Ship)
	}

	// Borealis burns only conventional fuel: WtT 0.5, TtW 3.2/40.
	b := outcomes[1].Result.Breakdown
	assert.InDelta(t, 0.5, b.WtT, 1e-12)
	assert.InDelta(t, 3.2/40, b.TtW, 1e-12)
	assert.InDelta(t, 0.97, b.WindReward, 0)
	assert.InDelta(t, 80*40.0, b.EnergyMJ, 1e-9)
}
