package upgrade

// State holds the laptop selections: at most one RAM and one SSD upgrade.
type State struct {
	RAMUpgrade *ResolvedOption `json:"ram_upgrade"`
	SSDUpgrade *ResolvedOption `json:"ssd_upgrade"`
}

// ToggleRAM selects o, or clears the RAM slot when o is already selected.
func (s State) ToggleRAM(o ResolvedOption) State {
	s.RAMUpgrade = toggle(s.RAMUpgrade, o)
	return s
}

// ToggleSSD selects o, or clears the SSD slot when o is already selected.
func (s State) ToggleSSD(o ResolvedOption) State {
	s.SSDUpgrade = toggle(s.SSDUpgrade, o)
	return s
}

func (s State) Empty() bool {
	return s.RAMUpgrade == nil && s.SSDUpgrade == nil
}

func toggle(cur *ResolvedOption, o ResolvedOption) *ResolvedOption {
	if cur != nil && cur.ID == o.ID {
		return nil
	}
	return &o
}

type Specs struct {
	RAM     string `json:"ram"`
	Storage string `json:"storage"`
}

type Result struct {
	AdditionalCost Price `json:"additional_cost"`
	TotalPrice     Price `json:"total_price"`
	UpdatedSpecs   Specs `json:"updated_specs"`
}

const ssdSpecSuffix = " NVMe SSD"

// Accumulate prices a laptop configuration. Upgrades replace the displayed
// spec rather than adding to it.
func Accumulate(p Product, s State) Result {
	var ram, ssd Price
	specs := Specs{RAM: p.RAM, Storage: p.HDD}

	if s.RAMUpgrade != nil {
		ram = s.RAMUpgrade.Price
		specs.RAM = s.RAMUpgrade.Size
	}
	if s.SSDUpgrade != nil {
		ssd = s.SSDUpgrade.Price
		specs.Storage = s.SSDUpgrade.Size + ssdSpecSuffix
	}

	base := p.BasePrice()
	total := Sum(base, ram, ssd).NonNegative()

	return Result{
		AdditionalCost: Sum(total, -base),
		TotalPrice:     total,
		UpdatedSpecs:   specs,
	}
}
