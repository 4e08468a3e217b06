package upgrade

import (
	"sort"
	"strings"
)

// defaultRAMGB is assumed when a laptop's RAM label cannot be read.
const defaultRAMGB = 8

// ResolveRAMOptions returns the RAM upgrades a laptop can take, cheapest size
// first. Laptops without a generation label get none. Entries are gated by
// generation range and RAM family and must be strictly larger than the current
// RAM. table may be nil; it only prices entries that carry no price of their own.
func ResolveRAMOptions(p Product, catalog []UpgradeOption, table PriceTable) []ResolvedOption {
	out := []ResolvedOption{}
	if strings.TrimSpace(p.Generation) == "" {
		return out
	}

	current := ParseCapacityToGB(p.RAM)
	if current <= 0 {
		current = defaultRAMGB
	}
	cls := Classify(p.Generation)

	for _, o := range sortedByType(catalog, OptionRAM) {
		if !ramApplies(o, cls) || float64(o.SizeNumber) <= current {
			continue
		}

		def := o.Price
		if def <= 0 && table != nil && cls.Family != FamilyUnknown {
			if v, ok := table.Lookup(RAMPriceKey(cls.Family, o.SizeNumber)); ok {
				def = v
			}
		}
		out = append(out, resolve(p, OptionRAM, o, def))
	}
	return out
}

// ResolveSSDOptions returns the storage upgrades strictly larger than the
// product's current storage, smallest first.
func ResolveSSDOptions(p Product, catalog []UpgradeOption, table PriceTable) []ResolvedOption {
	out := []ResolvedOption{}
	current := ParseCapacityToGB(p.HDD)

	for _, o := range sortedByType(catalog, OptionSSD) {
		if float64(o.SizeNumber) <= current {
			continue
		}

		def := o.Price
		if def <= 0 && table != nil && current > 0 {
			if v, ok := table.Lookup(SSDPriceKey(int(current), o.SizeNumber)); ok {
				def = v
			}
		}
		out = append(out, resolve(p, OptionSSD, o, def))
	}
	return out
}

func ramApplies(o UpgradeOption, cls Classification) bool {
	if cls.Known {
		if o.MinGeneration != nil && cls.Generation < *o.MinGeneration {
			return false
		}
		if o.MaxGeneration != nil && cls.Generation > *o.MaxGeneration {
			return false
		}
	}

	applicable := strings.ToLower(strings.TrimSpace(o.ApplicableTo))
	switch cls.Family {
	case FamilyDDR3:
		return applicable == ApplicableDDR3
	case FamilyDDR4:
		return applicable == ApplicableDDR4 || applicable == ApplicableAll
	}
	return true
}

func resolve(p Product, t OptionType, o UpgradeOption, def Price) ResolvedOption {
	r := ResolvedOption{
		ID:           o.ID,
		Size:         o.Size,
		SizeNumber:   o.SizeNumber,
		Description:  o.Description,
		Price:        def,
		DefaultPrice: def,
		Label:        o.DisplayLabel,
	}
	if r.Size == "" {
		r.Size = FormatCapacity(o.SizeNumber)
	}
	if r.Label == "" {
		r.Label = r.Size
	}
	if v, ok := p.customPrice(OptionKey(t, o.ID)); ok {
		r.Price = v
		r.IsCustomPrice = true
	}
	return r
}

func sortedByType(catalog []UpgradeOption, t OptionType) []UpgradeOption {
	out := make([]UpgradeOption, 0, len(catalog))
	for _, o := range catalog {
		if OptionType(strings.ToLower(string(o.OptionType))) == t {
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SizeNumber != out[j].SizeNumber {
			return out[i].SizeNumber < out[j].SizeNumber
		}
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}
