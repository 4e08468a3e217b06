package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
)

// Seed is the initial content of a catalog store.
type Seed struct {
	Products []upgrade.Product       `yaml:"products"`
	Options  []upgrade.UpgradeOption `yaml:"upgrade_options"`
	Pricing  pricing.Table           `yaml:"pricing"`
}

func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(s.Products))
	for _, p := range s.Products {
		if p.ID == "" {
			return Seed{}, fmt.Errorf("parse seed: product without id")
		}
		if _, dup := seen[p.ID]; dup {
			return Seed{}, fmt.Errorf("parse seed: duplicate product %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	for i, o := range s.Options {
		if o.OptionType == upgrade.OptionRAM && o.ApplicableTo == "" {
			s.Options[i].ApplicableTo = upgrade.ApplicableAll
			o = s.Options[i]
		}
		if err := o.Validate(); err != nil {
			return Seed{}, fmt.Errorf("parse seed: option %d: %w", o.ID, err)
		}
	}
	if err := s.Pricing.Validate(); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// ActiveOptions returns the options customers may pick, in input order.
func ActiveOptions(opts []upgrade.UpgradeOption) []upgrade.UpgradeOption {
	out := make([]upgrade.UpgradeOption, 0, len(opts))
	for _, o := range opts {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out
}

// DefaultSeed is the demo catalog used by the in-memory store.
func DefaultSeed() Seed {
	gen := func(n int) *int { return &n }

	return Seed{
		Products: []upgrade.Product{
			{
				ID: "lp-1", Title: "Dell Latitude 5490", CategoryID: "laptop", Price: 50000,
				Processor: "Core i5-8350U", Generation: "8th Gen", RAM: "8GB", HDD: "256GB",
			},
			{
				ID: "lp-2", Title: "HP EliteBook 840 G2", CategoryID: "laptop", Price: 32000,
				Processor: "Core i5-5300U", Generation: "5th Gen", RAM: "4GB", HDD: "128GB",
				CustomUpgradePricing: map[string]upgrade.Price{"ram-2": 2200},
			},
			{
				ID: "lp-3", Title: "Lenovo ThinkPad T14", CategoryID: "laptop", Price: 95000,
				Processor: "Core i7-10610U", Generation: "10th Gen", RAM: "16GB", HDD: "512GB",
			},
			{
				ID: "ram-1", Title: "8GB DDR4 Laptop RAM", CategoryID: "ram", Price: 3000,
				RAMCapacity: "8GB", RAMType: "DDR4", RAMFormFactor: "SODIMM",
			},
			{
				ID: "ram-2", Title: "32GB DDR4 Laptop RAM", CategoryID: "ram", Price: 21000,
				RAMCapacity: "32GB", RAMType: "DDR4", RAMFormFactor: "SODIMM",
			},
			{
				ID: "acc-1", Title: "Laptop Bag", CategoryID: "accessories", Price: 1500,
			},
		},
		Options: []upgrade.UpgradeOption{
			{ID: 1, OptionType: upgrade.OptionRAM, Size: "4GB", SizeNumber: 4, ApplicableTo: upgrade.ApplicableDDR3, MinGeneration: gen(3), MaxGeneration: gen(5), Price: 1000, IsActive: true, DisplayOrder: 1},
			{ID: 2, OptionType: upgrade.OptionRAM, Size: "8GB", SizeNumber: 8, ApplicableTo: upgrade.ApplicableDDR3, MinGeneration: gen(3), MaxGeneration: gen(5), Price: 2500, IsActive: true, DisplayOrder: 2},
			{ID: 3, OptionType: upgrade.OptionRAM, Size: "8GB", SizeNumber: 8, ApplicableTo: upgrade.ApplicableDDR4, MinGeneration: gen(6), Price: 6000, IsActive: true, DisplayOrder: 3},
			{ID: 4, OptionType: upgrade.OptionRAM, Size: "16GB", SizeNumber: 16, ApplicableTo: upgrade.ApplicableDDR4, MinGeneration: gen(6), Price: 11500, IsActive: true, DisplayOrder: 4},
			{ID: 5, OptionType: upgrade.OptionRAM, Size: "32GB", SizeNumber: 32, ApplicableTo: upgrade.ApplicableDDR4, MinGeneration: gen(6), Price: 25000, IsActive: true, DisplayOrder: 5},
			{ID: 6, OptionType: upgrade.OptionSSD, Size: "256GB", SizeNumber: 256, Price: 3000, IsActive: true, DisplayOrder: 1},
			{ID: 7, OptionType: upgrade.OptionSSD, Size: "512GB", SizeNumber: 512, Price: 5500, IsActive: true, DisplayOrder: 2},
			{ID: 8, OptionType: upgrade.OptionSSD, Size: "1TB", SizeNumber: 1024, Price: 15500, IsActive: true, DisplayOrder: 3},
			{ID: 9, OptionType: upgrade.OptionSSD, Size: "2TB", SizeNumber: 2048, Price: 32000, IsActive: false, DisplayOrder: 4},
		},
		Pricing: pricing.Defaults(),
	}
}
