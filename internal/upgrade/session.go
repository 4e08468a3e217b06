package upgrade

import (
	"fmt"
	"strings"
	"sync"
)

// LaptopChange is the full snapshot handed to the page after every recompute.
type LaptopChange struct {
	Customizations State `json:"customizations"`
	AdditionalCost Price `json:"additional_cost"`
	TotalPrice     Price `json:"total_price"`
	UpdatedSpecs   Specs `json:"updated_specs"`
}

// LaptopCustomizer owns the upgrade selection for one product view. Catalog and
// pricing arrive asynchronously; each delivery carries a ticket from BeginFetch
// and deliveries older than the newest applied one of the same kind are dropped.
type LaptopCustomizer struct {
	mu       sync.Mutex
	product  Product
	catalog  []UpgradeOption
	table    PriceTable
	ram      []ResolvedOption
	ssd      []ResolvedOption
	state    State
	onChange func(LaptopChange)

	tickets        uint64
	catalogApplied uint64
	pricingApplied uint64
}

func NewLaptopCustomizer(p Product, onChange func(LaptopChange)) *LaptopCustomizer {
	return &LaptopCustomizer{
		product:  p,
		onChange: onChange,
		ram:      []ResolvedOption{},
		ssd:      []ResolvedOption{},
	}
}

func (c *LaptopCustomizer) BeginFetch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets++
	return c.tickets
}

// ApplyCatalog installs a fetched option catalog. It reports false when the
// delivery was stale and ignored.
func (c *LaptopCustomizer) ApplyCatalog(ticket uint64, catalog []UpgradeOption) bool {
	c.mu.Lock()
	if ticket < c.catalogApplied {
		c.mu.Unlock()
		return false
	}
	c.catalogApplied = ticket
	c.catalog = catalog
	change := c.recomputeLocked()
	c.mu.Unlock()

	c.notify(change)
	return true
}

func (c *LaptopCustomizer) ApplyPricing(ticket uint64, table PriceTable) bool {
	c.mu.Lock()
	if ticket < c.pricingApplied {
		c.mu.Unlock()
		return false
	}
	c.pricingApplied = ticket
	c.table = table
	change := c.recomputeLocked()
	c.mu.Unlock()

	c.notify(change)
	return true
}

func (c *LaptopCustomizer) RAMOptions() []ResolvedOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ResolvedOption(nil), c.ram...)
}

func (c *LaptopCustomizer) SSDOptions() []ResolvedOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ResolvedOption(nil), c.ssd...)
}

func (c *LaptopCustomizer) ToggleRAM(id int64) error {
	return c.toggle(OptionRAM, id)
}

func (c *LaptopCustomizer) ToggleSSD(id int64) error {
	return c.toggle(OptionSSD, id)
}

func (c *LaptopCustomizer) toggle(t OptionType, id int64) error {
	c.mu.Lock()
	opts := c.ram
	if t == OptionSSD {
		opts = c.ssd
	}

	o, ok := findOption(opts, id)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrOptionNotFound, OptionKey(t, id))
	}

	if t == OptionRAM {
		c.state = c.state.ToggleRAM(o)
	} else {
		c.state = c.state.ToggleSSD(o)
	}
	change := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(change)
	return nil
}

func (c *LaptopCustomizer) Snapshot() LaptopChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// recomputeLocked re-resolves both lists. A selection survives when its option
// still resolves, picking up the refreshed price; otherwise it is cleared.
func (c *LaptopCustomizer) recomputeLocked() LaptopChange {
	c.ram = ResolveRAMOptions(c.product, c.catalog, c.table)
	c.ssd = ResolveSSDOptions(c.product, c.catalog, c.table)

	c.state.RAMUpgrade = reselect(c.ram, c.state.RAMUpgrade)
	c.state.SSDUpgrade = reselect(c.ssd, c.state.SSDUpgrade)
	return c.snapshotLocked()
}

func (c *LaptopCustomizer) snapshotLocked() LaptopChange {
	r := Accumulate(c.product, c.state)
	return LaptopChange{
		Customizations: c.state,
		AdditionalCost: r.AdditionalCost,
		TotalPrice:     r.TotalPrice,
		UpdatedSpecs:   r.UpdatedSpecs,
	}
}

func (c *LaptopCustomizer) notify(change LaptopChange) {
	if c.onChange != nil {
		c.onChange(change)
	}
}

func reselect(opts []ResolvedOption, cur *ResolvedOption) *ResolvedOption {
	if cur == nil {
		return nil
	}
	if o, ok := findOption(opts, cur.ID); ok {
		return &o
	}
	return nil
}

func findOption(opts []ResolvedOption, id int64) (ResolvedOption, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return ResolvedOption{}, false
}

type RAMSpecs struct {
	Capacity   string `json:"capacity"`
	Type       string `json:"type,omitempty"`
	FormFactor string `json:"form_factor,omitempty"`
	Speed      string `json:"speed"`
}

// RAMChange is the snapshot handed to the page for standalone RAM modules.
type RAMChange struct {
	Brand          string      `json:"brand"`
	Speed          SpeedOption `json:"speed"`
	TotalPrice     Price       `json:"total_price"`
	AdditionalCost Price       `json:"additional_cost"`
	Specs          RAMSpecs    `json:"specs"`
}

// RAMCustomizer is the speed/brand picker for standalone RAM products. It starts
// on the base tier.
type RAMCustomizer struct {
	mu       sync.Mutex
	product  Product
	speeds   []SpeedOption
	speed    SpeedOption
	brand    string
	onChange func(RAMChange)

	tickets        uint64
	pricingApplied uint64
}

func NewRAMCustomizer(p Product, table PriceTable, onChange func(RAMChange)) *RAMCustomizer {
	c := &RAMCustomizer{
		product:  p,
		brand:    BrandLabel,
		onChange: onChange,
	}
	c.speeds = ResolveSpeedOptions(p, table)
	c.speed = c.speeds[0]

	c.notify(c.Snapshot())
	return c
}

func (c *RAMCustomizer) Speeds() []SpeedOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SpeedOption(nil), c.speeds...)
}

func (c *RAMCustomizer) SelectSpeed(id string) error {
	c.mu.Lock()
	var (
		found SpeedOption
		ok    bool
	)
	for _, s := range c.speeds {
		if s.ID == id {
			found, ok = s, true
			break
		}
	}
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSpeedNotFound, id)
	}
	c.speed = found
	change := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(change)
	return nil
}

func (c *RAMCustomizer) SetBrand(b string) error {
	if !ValidBrand(b) {
		return fmt.Errorf("%w: %s", ErrUnknownBrand, b)
	}

	c.mu.Lock()
	c.brand = b
	change := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(change)
	return nil
}

func (c *RAMCustomizer) BeginFetch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets++
	return c.tickets
}

// ApplyPricing re-prices the tiers. The selected tier is kept by id.
func (c *RAMCustomizer) ApplyPricing(ticket uint64, table PriceTable) bool {
	c.mu.Lock()
	if ticket < c.pricingApplied {
		c.mu.Unlock()
		return false
	}
	c.pricingApplied = ticket
	c.speeds = ResolveSpeedOptions(c.product, table)

	next := c.speeds[0]
	for _, s := range c.speeds {
		if s.ID == c.speed.ID {
			next = s
			break
		}
	}
	c.speed = next
	change := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(change)
	return true
}

func (c *RAMCustomizer) Snapshot() RAMChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *RAMCustomizer) snapshotLocked() RAMChange {
	t := ComputeSpeedTotal(c.product, c.speed)

	capacity := strings.TrimSpace(c.product.RAMCapacity)
	if capacity == "" {
		capacity = c.product.RAM
	}
	return RAMChange{
		Brand:          c.brand,
		Speed:          c.speed,
		TotalPrice:     t.TotalPrice,
		AdditionalCost: t.AdditionalCost,
		Specs: RAMSpecs{
			Capacity:   capacity,
			Type:       c.product.RAMType,
			FormFactor: c.product.RAMFormFactor,
			Speed:      c.speed.Label,
		},
	}
}

func (c *RAMCustomizer) notify(change RAMChange) {
	if c.onChange != nil {
		c.onChange(change)
	}
}
