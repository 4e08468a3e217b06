package pricing

import (
	"errors"
	"fmt"
	"sort"

	"LaptopStore/internal/upgrade"
)

// Table is the flat key to price mapping behind the admin pricing settings.
type Table map[string]upgrade.Price

var ErrInvalidTable = errors.New("invalid pricing table")

// Defaults is the built-in table used whenever the pricing source cannot be read.
func Defaults() Table {
	return Table{
		"ram_ddr3_4gb":   1000,
		"ram_ddr3_8gb":   2500,
		"ram_ddr4_4gb":   3200,
		"ram_ddr4_8gb":   6000,
		"ram_ddr4_16gb":  11500,
		"ram_ddr4_32gb":  25000,
		"ssd_128_to_256": 3000,
		"ssd_128_to_512": 8000,
		"ssd_128_to_1tb": 18500,
		"ssd_256_to_512": 5500,
		"ssd_256_to_1tb": 15500,
		"ssd_512_to_1tb": 10000,
	}
}

func (t Table) Lookup(key string) (upgrade.Price, bool) {
	v, ok := t[key]
	return v, ok
}

func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Merge returns a copy of t with every key of over written on top.
func (t Table) Merge(over Table) Table {
	out := t.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t Table) Validate() error {
	for k, v := range t {
		if k == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidTable)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative price for %s", ErrInvalidTable, k)
		}
	}
	return nil
}
