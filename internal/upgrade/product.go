package upgrade

import "strings"

type Kind string

const (
	KindLaptop Kind = "laptop"
	KindRAM    Kind = "ram"
	KindOther  Kind = "other"
)

// Product is the subset of a catalog product the calculator reads.
type Product struct {
	ID                   string           `json:"id" yaml:"id"`
	Title                string           `json:"title" yaml:"title"`
	CategoryID           string           `json:"category_id" yaml:"category_id"`
	Price                Price            `json:"price" yaml:"price"`
	Processor            string           `json:"processor,omitempty" yaml:"processor"`
	Generation           string           `json:"generation,omitempty" yaml:"generation"`
	RAM                  string           `json:"ram,omitempty" yaml:"ram"`
	HDD                  string           `json:"hdd,omitempty" yaml:"hdd"`
	RAMCapacity          string           `json:"ram_capacity,omitempty" yaml:"ram_capacity"`
	RAMType              string           `json:"ram_type,omitempty" yaml:"ram_type"`
	RAMFormFactor        string           `json:"ram_form_factor,omitempty" yaml:"ram_form_factor"`
	CustomUpgradePricing map[string]Price `json:"custom_upgrade_pricing,omitempty" yaml:"custom_upgrade_pricing"`
	RAMSpeedPrices       map[string]Price `json:"ram_speed_prices,omitempty" yaml:"ram_speed_prices"`
}

func (p Product) Kind() Kind {
	switch strings.ToLower(strings.TrimSpace(p.CategoryID)) {
	case string(KindLaptop), "laptops":
		return KindLaptop
	case string(KindRAM):
		return KindRAM
	default:
		return KindOther
	}
}

// BasePrice is the product price clamped to zero.
func (p Product) BasePrice() Price {
	return p.Price.NonNegative()
}

func (p Product) customPrice(key string) (Price, bool) {
	if p.CustomUpgradePricing == nil {
		return 0, false
	}
	v, ok := p.CustomUpgradePricing[key]
	return v, ok
}

func (p Product) speedPrice(id string) (Price, bool) {
	if p.RAMSpeedPrices == nil {
		return 0, false
	}
	v, ok := p.RAMSpeedPrices[id]
	return v, ok
}
