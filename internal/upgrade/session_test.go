package upgrade

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func laptop() Product {
	return Product{
		ID:         "lp-1",
		CategoryID: "laptop",
		Price:      50000,
		RAM:        "8GB",
		HDD:        "256GB",
		Generation: "7th Gen",
	}
}

func laptopCatalog() []UpgradeOption {
	return []UpgradeOption{
		ramOpt(1, 16, ApplicableDDR4, intp(6), nil, 4000),
		ramOpt(2, 32, ApplicableDDR4, intp(6), nil, 12000),
		ssdOpt(3, 512, 5500),
		ssdOpt(4, 1024, 15500),
	}
}

func TestLaptopCustomizer_NotifiesFullSnapshot(t *testing.T) {
	var changes []LaptopChange
	c := NewLaptopCustomizer(laptop(), func(ch LaptopChange) { changes = append(changes, ch) })

	require.True(t, c.ApplyCatalog(c.BeginFetch(), laptopCatalog()))
	require.Len(t, c.RAMOptions(), 2)
	require.Len(t, c.SSDOptions(), 2)

	require.NoError(t, c.ToggleRAM(1))
	require.NoError(t, c.ToggleSSD(4))

	last := changes[len(changes)-1]
	require.Equal(t, Price(69500), last.TotalPrice)
	require.Equal(t, Price(19500), last.AdditionalCost)
	require.Equal(t, Specs{RAM: "16GB", Storage: "1TB NVMe SSD"}, last.UpdatedSpecs)
	require.Equal(t, int64(1), last.Customizations.RAMUpgrade.ID)
	require.Equal(t, int64(4), last.Customizations.SSDUpgrade.ID)

	require.NoError(t, c.ToggleRAM(1))
	last = changes[len(changes)-1]
	require.Nil(t, last.Customizations.RAMUpgrade)
	require.Equal(t, Price(15500), last.AdditionalCost)
	require.Equal(t, last, c.Snapshot())
}

func TestLaptopCustomizer_UnknownOption(t *testing.T) {
	c := NewLaptopCustomizer(laptop(), nil)
	c.ApplyCatalog(c.BeginFetch(), laptopCatalog())

	err := c.ToggleRAM(3)
	require.True(t, errors.Is(err, ErrOptionNotFound))
	require.True(t, c.Snapshot().Customizations.Empty())
}

func TestLaptopCustomizer_StaleDeliveryDropped(t *testing.T) {
	c := NewLaptopCustomizer(laptop(), nil)

	older := c.BeginFetch()
	newer := c.BeginFetch()

	require.True(t, c.ApplyCatalog(newer, laptopCatalog()))
	require.NoError(t, c.ToggleRAM(2))

	// the slower, older response would have wiped the selection
	require.False(t, c.ApplyCatalog(older, nil))
	require.Equal(t, int64(2), c.Snapshot().Customizations.RAMUpgrade.ID)

	// a pricing ticket is tracked separately from catalog tickets
	require.True(t, c.ApplyPricing(older, mapTable{}))
}

func TestLaptopCustomizer_RefreshKeepsOrClearsSelection(t *testing.T) {
	c := NewLaptopCustomizer(laptop(), nil)
	c.ApplyCatalog(c.BeginFetch(), laptopCatalog())
	require.NoError(t, c.ToggleRAM(1))
	require.NoError(t, c.ToggleSSD(3))

	repriced := laptopCatalog()[:3]
	repriced[0].Price = 4200
	require.True(t, c.ApplyCatalog(c.BeginFetch(), repriced))

	snap := c.Snapshot()
	require.Equal(t, Price(4200), snap.Customizations.RAMUpgrade.Price)
	require.Equal(t, int64(3), snap.Customizations.SSDUpgrade.ID)

	require.True(t, c.ApplyCatalog(c.BeginFetch(), laptopCatalog()[2:]))
	snap = c.Snapshot()
	require.Nil(t, snap.Customizations.RAMUpgrade)
	require.Equal(t, Price(55500), snap.TotalPrice)
}

func TestLaptopCustomizer_NoGeneration(t *testing.T) {
	p := laptop()
	p.Generation = ""
	c := NewLaptopCustomizer(p, nil)
	c.ApplyCatalog(c.BeginFetch(), laptopCatalog())

	require.Empty(t, c.RAMOptions())
	require.Len(t, c.SSDOptions(), 2)
}

func TestRAMCustomizer_DefaultsToBaseTier(t *testing.T) {
	var changes []RAMChange
	p := Product{Price: 3000, RAMCapacity: "8GB", RAMType: "DDR4", RAMFormFactor: "SODIMM", CategoryID: "ram"}

	c := NewRAMCustomizer(p, nil, func(ch RAMChange) { changes = append(changes, ch) })
	require.Len(t, changes, 1)
	require.Equal(t, BaseSpeedID, changes[0].Speed.ID)
	require.Equal(t, Price(3000), changes[0].TotalPrice)
	require.Equal(t, BrandLabel, changes[0].Brand)

	require.NoError(t, c.SelectSpeed("3200"))
	last := changes[len(changes)-1]
	require.Equal(t, Price(3900), last.TotalPrice)
	require.Equal(t, Price(900), last.AdditionalCost)
	require.Equal(t, RAMSpecs{Capacity: "8GB", Type: "DDR4", FormFactor: "SODIMM", Speed: "3200MHz"}, last.Specs)

	require.NoError(t, c.SetBrand("Kingston"))
	require.Equal(t, Price(3900), c.Snapshot().TotalPrice)
	require.Error(t, c.SetBrand("Generic"))
	require.ErrorIs(t, c.SelectSpeed("4800"), ErrSpeedNotFound)
}

func TestRAMCustomizer_PricingArrivalKeepsTier(t *testing.T) {
	c := NewRAMCustomizer(Product{Price: 3000, RAMCapacity: "8GB"}, nil, nil)
	require.NoError(t, c.SelectSpeed("2666"))

	stale := c.BeginFetch()
	require.True(t, c.ApplyPricing(c.BeginFetch(), mapTable{"ram_speed_2666": 700}))
	require.Equal(t, Price(3700), c.Snapshot().TotalPrice)

	require.False(t, c.ApplyPricing(stale, mapTable{}))
	require.Equal(t, Price(3700), c.Snapshot().TotalPrice)
	require.Len(t, c.Speeds(), 4)
}
