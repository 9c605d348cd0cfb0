package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitTable maps a source unit to the direct factors it converts with:
// quantity_in_to = quantity_in_from * table[from][to].
type UnitTable map[string]map[string]float64

// DefaultUnitTable returns the built-in conversions. Only listed pairs are
// supported; conversions are never chained.
func DefaultUnitTable() UnitTable {
	return UnitTable{
		"slice": {"g": 20, "kg": 0.02},
		"leaf":  {"g": 10, "kg": 0.01},
		"spoon": {"g": 5, "kg": 0.005},
		"g":     {"kg": 0.001, "mg": 1000},
		"kg":    {"g": 1000, "mg": 1000000},
		"mg":    {"g": 0.001, "kg": 0.000001},
		"ml":    {"l": 0.001},
		"l":     {"ml": 1000},
	}
}

// Merge returns a new table with the entries of other laid over t.
func (t UnitTable) Merge(other UnitTable) UnitTable {
	merged := make(UnitTable, len(t)+len(other))
	for _, src := range []UnitTable{t, other} {
		for from, targets := range src {
			key := unitKey(from)
			if merged[key] == nil {
				merged[key] = make(map[string]float64, len(targets))
			}
			for to, factor := range targets {
				merged[key][unitKey(to)] = factor
			}
		}
	}
	return merged
}

// LoadUnitTable reads a YAML document of the form
//
//	slice:
//	  g: 20
//
// and validates that every factor is positive.
func LoadUnitTable(path string) (UnitTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read unit table: %w", err)
	}

	var table UnitTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("cannot parse unit table: %w", err)
	}

	for from, targets := range table {
		for to, factor := range targets {
			if factor <= 0 {
				return nil, fmt.Errorf("invalid factor %g for %s -> %s", factor, from, to)
			}
		}
	}

	return table, nil
}

// UnitConverter converts quantities between unit symbols using a fixed
// table. It is immutable and safe for concurrent use.
type UnitConverter struct {
	table UnitTable
}

func NewUnitConverter(table UnitTable) *UnitConverter {
	return &UnitConverter{table: UnitTable{}.Merge(table)}
}

func (c *UnitConverter) Convert(quantity float64, from, to string) (float64, error) {
	src, dst := unitKey(from), unitKey(to)
	if src == "" || dst == "" {
		return 0, &ConversionError{From: from, To: to, Err: ErrMissingUnit}
	}

	if src == dst {
		return quantity, nil
	}

	factor, ok := c.table[src][dst]
	if !ok {
		return 0, &ConversionError{From: from, To: to, Err: ErrUnsupportedConversion}
	}

	return quantity * factor, nil
}
