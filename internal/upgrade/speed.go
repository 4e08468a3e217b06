package upgrade

import "strconv"

// BrandLabel is what standalone RAM listings show as brand. The brand is
// informational and never priced.
const BrandLabel = "MIX BRAND"

var Brands = []string{
	"Kingston",
	"Samsung",
	"Crucial",
	"Corsair",
	"ADATA",
	"SK Hynix",
	"Micron",
	"Transcend",
}

const BaseSpeedID = "2133"

var speedTiers = []int{2133, 2400, 2666, 3200}

var fallbackSpeedPrices = map[string]Price{
	"2400": 300,
	"2666": 600,
	"3200": 900,
}

var tieredCapacities = map[float64]bool{4: true, 8: true, 16: true}

type SpeedOption struct {
	ID            string `json:"id"`
	MHz           int    `json:"mhz"`
	Label         string `json:"label"`
	PriceModifier Price  `json:"price_modifier"`
	IsCustomPrice bool   `json:"is_custom_price"`
}

// ResolveSpeedOptions lists the frequency tiers a RAM module can be ordered in.
// 4, 8 and 16GB modules get every tier; other capacities only the base tier.
// Modifiers come from the product's own speed prices, then the global table
// (ram_speed_<mhz>), then built-in fallbacks. table may be nil.
func ResolveSpeedOptions(p Product, table PriceTable) []SpeedOption {
	tiers := speedTiers[:1]
	if tieredCapacities[ramModuleGB(p)] {
		tiers = speedTiers
	}

	out := make([]SpeedOption, 0, len(tiers))
	for _, mhz := range tiers {
		id := strconv.Itoa(mhz)
		opt := SpeedOption{ID: id, MHz: mhz, Label: id + "MHz"}

		if id != BaseSpeedID {
			opt.PriceModifier, opt.IsCustomPrice = speedModifier(p, table, id)
		}
		out = append(out, opt)
	}
	return out
}

func speedModifier(p Product, table PriceTable, id string) (Price, bool) {
	if v, ok := p.speedPrice(id); ok {
		return v, true
	}
	if table != nil {
		if v, ok := table.Lookup(SpeedPriceKey(id)); ok {
			return v, false
		}
	}
	return fallbackSpeedPrices[id], false
}

func ramModuleGB(p Product) float64 {
	if gb := ParseCapacityToGB(p.RAMCapacity); gb > 0 {
		return gb
	}
	return ParseCapacityToGB(p.RAM)
}

type SpeedTotal struct {
	TotalPrice     Price `json:"total_price"`
	AdditionalCost Price `json:"additional_cost"`
}

func ComputeSpeedTotal(p Product, speed SpeedOption) SpeedTotal {
	base := p.BasePrice()
	total := Sum(base, speed.PriceModifier).NonNegative()
	return SpeedTotal{
		TotalPrice:     total,
		AdditionalCost: Sum(total, -base),
	}
}

// ValidBrand reports whether b is the mixed label or one of Brands.
func ValidBrand(b string) bool {
	if b == BrandLabel {
		return true
	}
	for _, name := range Brands {
		if name == b {
			return true
		}
	}
	return false
}
