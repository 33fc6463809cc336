package reference

import (
	"fmt"
	"strconv"

	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/table"
)

// Fuel table column names.
const (
	ColName          = "name"
	ColWtT           = "wtt_ef"
	ColLCV           = "lcv"
	ColNonBiological = "non_biological"
	ColRenewable     = "renewable"
	ColGWP           = "gwp"
	ColSlipFactor    = "slip_factor"
	ColRewardFactor  = "reward_factor"
)

// FuelTableKeys are the fuel table columns that always hold text.
func FuelTableKeys() []table.Column { return []table.Column{table.String(ColName)} }

// FuelEntriesFromTable reads fuel entries from a table with at least the
// name, wtt_ef and lcv columns. Flag columns may hold 0/1 numbers or
// true/false strings; an empty reward_factor cell leaves the reward derived.
func FuelEntriesFromTable(t *table.Table) ([]FuelEntry, error) {
	for _, col := range []string{ColName, ColWtT, ColLCV} {
		if _, ok := t.Column(col); !ok {
			return nil, fmt.Errorf("%w: fuel table has no %q column", fleet.ErrConfiguration, col)
		}
	}

	entries := make([]FuelEntry, 0, t.Len())
	for i := range t.Len() {
		var e FuelEntry
		var err error
		if e.Name, err = t.StringAt(i, ColName); err != nil {
			return nil, fmt.Errorf("%w: fuel row %d: %v", fleet.ErrConfiguration, i, err)
		}
		if e.WtTEmissionFactor, err = number(t, i, ColWtT); err != nil {
			return nil, err
		}
		if e.LowerCalorificValue, err = number(t, i, ColLCV); err != nil {
			return nil, err
		}
		if e.NonBiological, err = flag(t, i, ColNonBiological); err != nil {
			return nil, err
		}
		if e.Renewable, err = flag(t, i, ColRenewable); err != nil {
			return nil, err
		}
		if e.GlobalWarmingPotential, err = optionalNumber(t, i, ColGWP); err != nil {
			return nil, err
		}
		if e.SlipFactor, err = optionalNumber(t, i, ColSlipFactor); err != nil {
			return nil, err
		}
		if e.RewardFactor, err = reward(t, i); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func number(t *table.Table, i int, col string) (float64, error) {
	v, err := t.Value(i, col)
	if err != nil {
		return 0, fmt.Errorf("%w: fuel row %d: %v", fleet.ErrConfiguration, i, err)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, perr := strconv.ParseFloat(n, 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: fuel row %d: column %q: %q is not a number", fleet.ErrConfiguration, i, col, n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: fuel row %d: column %q has unexpected type %T", fleet.ErrConfiguration, i, col, v)
}

func optionalNumber(t *table.Table, i int, col string) (float64, error) {
	if _, ok := t.Column(col); !ok {
		return 0, nil
	}
	if s, err := t.StringAt(i, col); err == nil && s == "" {
		return 0, nil
	}
	return number(t, i, col)
}

func flag(t *table.Table, i int, col string) (bool, error) {
	if _, ok := t.Column(col); !ok {
		return false, nil
	}
	v, err := t.Value(i, col)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case float64:
		return b != 0, nil
	case string:
		if b == "" {
			return false, nil
		}
		parsed, perr := strconv.ParseBool(b)
		if perr != nil {
			return false, fmt.Errorf("%w: fuel row %d: column %q: %q is not a boolean", fleet.ErrConfiguration, i, col, b)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("%w: fuel row %d: column %q has unexpected type %T", fleet.ErrConfiguration, i, col, v)
}

func reward(t *table.Table, i int) (*float64, error) {
	if _, ok := t.Column(ColRewardFactor); !ok {
		return nil, nil
	}
	if s, err := t.StringAt(i, ColRewardFactor); err == nil && s == "" {
		return nil, nil
	}
	v, err := number(t, i, ColRewardFactor)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FuelTable returns the registry's fuels as a table indexed by name, with
// the resolved reward factor of each fuel.
func (r *Registry) FuelTable() (*table.Table, error) {
	t, err := table.NewIndexed(ColName,
		table.String(ColName),
		table.Float(ColWtT),
		table.Float(ColLCV),
		table.Float(ColNonBiological),
		table.Float(ColRenewable),
		table.Float(ColGWP),
		table.Float(ColSlipFactor),
		table.Float(ColRewardFactor),
	)
	if err != nil {
		return nil, err
	}
	for _, name := range r.fuelOrder {
		f := r.fuels[name]
		if err := t.Append(f.Name(), f.EmissionFactor(), f.LowerCalorificValue(),
			boolNumber(f.IsNonBiological()), boolNumber(f.IsRenewable()),
			f.GlobalWarmingPotential(), f.SlipFactor(), f.RewardFactor()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// EngineTable returns one row per (engine type, fuel) combustion factor.
func (r *Registry) EngineTable() (*table.Table, error) {
	t, err := table.New(table.String("type"), table.Float("slip_rate"), table.String("fuel"), table.Float("combustion_factor"))
	if err != nil {
		return nil, err
	}
	for _, name := range r.engineOrder {
		e := r.engines[name]
		for _, fuel := range r.fuelOrder {
			cf, ok := e.CombustionFactors[fuel]
			if !ok {
				continue
			}
			if err := t.Append(e.Type, e.SlipRate, fuel, cf); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func boolNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
