package catalog

import (
	"context"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
)

type Store interface {
	Ping(ctx context.Context) error

	ListProducts(ctx context.Context) ([]upgrade.Product, error)
	GetProduct(ctx context.Context, id string) (upgrade.Product, bool, error)

	ListUpgradeOptions(ctx context.Context, includeInactive bool) ([]upgrade.UpgradeOption, error)
	UpsertUpgradeOption(ctx context.Context, o upgrade.UpgradeOption) error

	LoadPricing(ctx context.Context) (pricing.Table, error)
	// MergePricing atomically writes the keys of update over the stored table
	// and returns the stored result.
	MergePricing(ctx context.Context, update pricing.Table) (pricing.Table, error)
}

// PricingSource adapts a Store to the pricing provider.
func PricingSource(s Store) pricing.Source {
	return pricing.SourceFunc(s.LoadPricing)
}
