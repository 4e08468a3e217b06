package upgrade

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestResolveRAMOptions_SingleDDR4Upgrade(t *testing.T) {
	p := Product{Price: 50000, RAM: "8GB", Generation: "7th Gen", CategoryID: "laptop"}
	catalog := []UpgradeOption{ramOpt(1, 16, ApplicableDDR4, intp(6), nil, 4000)}

	got := ResolveRAMOptions(p, catalog, nil)
	want := []ResolvedOption{{
		ID:           1,
		Size:         "16GB",
		SizeNumber:   16,
		Price:        4000,
		DefaultPrice: 4000,
		Label:        "16GB",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ram options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRAMOptions_CustomPriceOverride(t *testing.T) {
	p := Product{
		RAM:        "8GB",
		Generation: "8th Gen",
		CustomUpgradePricing: map[string]Price{
			"ram-7": 4500,
			"ssd-1": 1,
		},
	}
	catalog := []UpgradeOption{ramOpt(7, 16, ApplicableDDR4, nil, nil, 3000)}

	got := ResolveRAMOptions(p, catalog, nil)
	require.Len(t, got, 1)
	require.Equal(t, Price(4500), got[0].Price)
	require.Equal(t, Price(3000), got[0].DefaultPrice)
	require.True(t, got[0].IsCustomPrice)
}

func TestResolveRAMOptions_GenerationGating(t *testing.T) {
	catalog := []UpgradeOption{
		ramOpt(1, 16, ApplicableDDR3, intp(3), intp(5), 2500),
		ramOpt(2, 16, ApplicableDDR4, intp(6), nil, 6000),
	}

	got := ResolveRAMOptions(Product{RAM: "4GB", Generation: "4th Gen"}, catalog, nil)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)

	got = ResolveRAMOptions(Product{RAM: "4GB", Generation: "9th Gen"}, catalog, nil)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)

	require.Empty(t, ResolveRAMOptions(Product{RAM: "4GB"}, catalog, nil))
}

func TestResolveRAMOptions_NoGenerationMeansNoOptions(t *testing.T) {
	catalog := []UpgradeOption{
		ramOpt(1, 16, ApplicableAll, nil, nil, 1000),
		ramOpt(2, 32, ApplicableDDR4, nil, nil, 2000),
	}
	got := ResolveRAMOptions(Product{RAM: "8GB", Generation: "  "}, catalog, nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestResolveRAMOptions_FamilyRules(t *testing.T) {
	catalog := []UpgradeOption{
		ramOpt(1, 16, ApplicableAll, nil, nil, 1000),
		ramOpt(2, 16, ApplicableDDR3, nil, nil, 1000),
		ramOpt(3, 16, ApplicableDDR4, nil, nil, 1000),
	}

	ids := func(opts []ResolvedOption) []int64 {
		out := []int64{}
		for _, o := range opts {
			out = append(out, o.ID)
		}
		return out
	}

	// ddr3 laptops only take entries marked ddr3; "all" means all ddr4 parts.
	require.Equal(t, []int64{2}, ids(ResolveRAMOptions(Product{RAM: "8GB", Generation: "5th"}, catalog, nil)))
	require.Equal(t, []int64{1, 3}, ids(ResolveRAMOptions(Product{RAM: "8GB", Generation: "6th"}, catalog, nil)))
	// no family: only size and generation bounds apply
	require.Equal(t, []int64{1, 2, 3}, ids(ResolveRAMOptions(Product{RAM: "8GB", Generation: "Ryzen"}, catalog, nil)))
}

func TestResolveRAMOptions_StrictlyLargerAndSorted(t *testing.T) {
	catalog := []UpgradeOption{
		ramOpt(1, 32, ApplicableDDR4, nil, nil, 25000),
		ramOpt(2, 8, ApplicableDDR4, nil, nil, 6000),
		ramOpt(3, 16, ApplicableDDR4, nil, nil, 11500),
		ramOpt(4, 4, ApplicableDDR4, nil, nil, 3200),
		ssdOpt(5, 512, 5500),
	}

	p := Product{RAM: "8GB", Generation: "8th Gen"}
	got := ResolveRAMOptions(p, catalog, nil)
	require.Len(t, got, 2)
	require.Equal(t, 16, got[0].SizeNumber)
	require.Equal(t, 32, got[1].SizeNumber)
	for _, o := range got {
		require.Greater(t, float64(o.SizeNumber), ParseCapacityToGB(p.RAM))
	}
}

func TestResolveRAMOptions_UnparsableRAMDefaultsTo8(t *testing.T) {
	catalog := []UpgradeOption{
		ramOpt(1, 8, ApplicableDDR4, nil, nil, 6000),
		ramOpt(2, 16, ApplicableDDR4, nil, nil, 11500),
	}
	got := ResolveRAMOptions(Product{RAM: "unknown", Generation: "6th"}, catalog, nil)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
}

func TestResolveRAMOptions_TableFillsMissingPrice(t *testing.T) {
	catalog := []UpgradeOption{ramOpt(1, 16, ApplicableDDR4, nil, nil, 0)}
	table := mapTable{"ram_ddr4_16gb": 11500}

	got := ResolveRAMOptions(Product{RAM: "8GB", Generation: "7th"}, catalog, table)
	require.Len(t, got, 1)
	require.Equal(t, Price(11500), got[0].Price)
	require.Equal(t, Price(11500), got[0].DefaultPrice)
	require.False(t, got[0].IsCustomPrice)
}

func TestResolveSSDOptions_SortedAndStrictlyLarger(t *testing.T) {
	catalog := []UpgradeOption{
		ssdOpt(3, 1024, 15500),
		ssdOpt(1, 128, 3000),
		ssdOpt(2, 512, 5500),
		ramOpt(9, 2048, ApplicableAll, nil, nil, 1),
	}

	got := ResolveSSDOptions(Product{HDD: "256GB"}, catalog, nil)
	want := []ResolvedOption{
		{ID: 2, Size: "512GB", SizeNumber: 512, Price: 5500, DefaultPrice: 5500, Label: "512GB"},
		{ID: 3, Size: "1TB", SizeNumber: 1024, Price: 15500, DefaultPrice: 15500, Label: "1TB"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ssd options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSSDOptions_TerabyteStorage(t *testing.T) {
	catalog := []UpgradeOption{ssdOpt(1, 512, 5500), ssdOpt(2, 1024, 15500), ssdOpt(3, 2048, 30000)}

	got := ResolveSSDOptions(Product{HDD: "1TB"}, catalog, nil)
	require.Len(t, got, 1)
	require.Equal(t, int64(3), got[0].ID)

	require.Empty(t, ResolveSSDOptions(Product{HDD: "2 TB"}, catalog, nil))
}

func TestResolveSSDOptions_UnparsableStorageOffersEverything(t *testing.T) {
	catalog := []UpgradeOption{ssdOpt(1, 128, 3000), ssdOpt(2, 256, 5000)}
	got := ResolveSSDOptions(Product{HDD: "N/A"}, catalog, nil)
	require.Len(t, got, 2)
}

func TestResolveSSDOptions_OverridesAndTable(t *testing.T) {
	catalog := []UpgradeOption{ssdOpt(1, 512, 0), ssdOpt(2, 1024, 0)}
	p := Product{
		HDD:                  "256GB",
		CustomUpgradePricing: map[string]Price{"ssd-2": 14000},
	}
	table := mapTable{"ssd_256_to_512": 5500, "ssd_256_to_1tb": 15500}

	got := ResolveSSDOptions(p, catalog, table)
	require.Len(t, got, 2)
	require.Equal(t, Price(5500), got[0].Price)
	require.False(t, got[0].IsCustomPrice)
	require.Equal(t, Price(14000), got[1].Price)
	require.Equal(t, Price(15500), got[1].DefaultPrice)
	require.True(t, got[1].IsCustomPrice)
}

func TestResolve_NilOverridesDoNotPanic(t *testing.T) {
	catalog := []UpgradeOption{ssdOpt(1, 512, 100), ramOpt(2, 16, ApplicableAll, nil, nil, 100)}
	p := Product{HDD: "256GB", RAM: "8GB", Generation: "6th"}
	require.NotPanics(t, func() {
		ResolveSSDOptions(p, catalog, nil)
		ResolveRAMOptions(p, catalog, nil)
		ResolveSSDOptions(Product{}, nil, nil)
	})
}

func TestKeys(t *testing.T) {
	require.Equal(t, "ram-7", OptionKey(OptionRAM, 7))
	require.Equal(t, "ram_ddr3_8gb", RAMPriceKey(FamilyDDR3, 8))
	require.Equal(t, "ssd_128_to_1tb", SSDPriceKey(128, 1024))
	require.Equal(t, "ram_speed_2400", SpeedPriceKey("2400"))
}
