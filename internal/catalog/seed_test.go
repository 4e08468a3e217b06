package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LaptopStore/internal/upgrade"
)

const seedYAML = `
products:
  - id: lp-9
    title: Dell Latitude E7450
    category_id: laptop
    price: 28000
    generation: 5th Gen
    ram: 4GB
    hdd: 128GB
    custom_upgrade_pricing:
      ram-1: 1800
upgrade_options:
  - id: 1
    option_type: ram
    size: 8GB
    size_number: 8
    applicable_to: ddr3
    min_generation: 3
    max_generation: 5
    price: 2500
    is_active: true
  - id: 2
    option_type: ram
    size: 16GB
    size_number: 16
    price: 9000
    is_active: true
  - id: 3
    option_type: ssd
    size: 512GB
    size_number: 512
    is_active: true
pricing:
  ssd_128_to_512: 7000
`

func TestParseSeed(t *testing.T) {
	s, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	require.Len(t, s.Products, 1)
	assert.Equal(t, upgrade.Price(1800), s.Products[0].CustomUpgradePricing["ram-1"])
	require.Len(t, s.Options, 3)
	assert.Equal(t, upgrade.ApplicableAll, s.Options[1].ApplicableTo)
	require.NotNil(t, s.Options[0].MaxGeneration)
	assert.Equal(t, 5, *s.Options[0].MaxGeneration)
	assert.Equal(t, upgrade.Price(7000), s.Pricing["ssd_128_to_512"])

	store := NewMemStore(s)
	p, ok, err := store.GetProduct(context.Background(), "lp-9")
	require.NoError(t, err)
	require.True(t, ok)

	opts, err := store.ListUpgradeOptions(context.Background(), false)
	require.NoError(t, err)

	ram := upgrade.ResolveRAMOptions(p, opts, s.Pricing)
	require.Len(t, ram, 1)
	assert.Equal(t, upgrade.Price(1800), ram[0].Price)

	ssd := upgrade.ResolveSSDOptions(p, opts, s.Pricing)
	require.Len(t, ssd, 1)
	assert.Equal(t, upgrade.Price(7000), ssd[0].Price)
}

func TestParseSeed_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate product": "products:\n  - id: a\n  - id: a\n",
		"missing id":        "products:\n  - title: x\n",
		"bad option":        "upgrade_options:\n  - id: 1\n    option_type: gpu\n    size_number: 1\n",
		"negative pricing":  "pricing:\n  ram_ddr4_8gb: -1\n",
		"not yaml":          "products: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestDefaultSeedIsValid(t *testing.T) {
	s := DefaultSeed()
	for _, o := range s.Options {
		assert.NoError(t, o.Validate(), "option %d", o.ID)
	}
	assert.NoError(t, s.Pricing.Validate())
}

func TestActiveOptions(t *testing.T) {
	opts := ActiveOptions(DefaultSeed().Options)
	require.Len(t, opts, 8)
	for _, o := range opts {
		assert.True(t, o.IsActive, "option %d", o.ID)
		assert.NotEqual(t, int64(9), o.ID)
	}
	assert.Empty(t, ActiveOptions(nil))
}
