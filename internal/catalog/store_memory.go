package catalog

import (
	"context"
	"sort"
	"sync"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
)

type MemStore struct {
	mu       sync.RWMutex
	products map[string]upgrade.Product
	options  map[int64]upgrade.UpgradeOption
	pricing  pricing.Table
}

func NewMemStore(seed Seed) *MemStore {
	s := &MemStore{
		products: make(map[string]upgrade.Product, len(seed.Products)),
		options:  make(map[int64]upgrade.UpgradeOption, len(seed.Options)),
		pricing:  seed.Pricing.Clone(),
	}
	for _, p := range seed.Products {
		s.products[p.ID] = p
	}
	for _, o := range seed.Options {
		s.options[o.ID] = o
	}
	return s
}

func NewStore() *MemStore {
	return NewMemStore(DefaultSeed())
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListProducts(ctx context.Context) ([]upgrade.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]upgrade.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id string) (upgrade.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	return p, ok, nil
}

func (s *MemStore) ListUpgradeOptions(ctx context.Context, includeInactive bool) ([]upgrade.UpgradeOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]upgrade.UpgradeOption, 0, len(s.options))
	for _, o := range s.options {
		out = append(out, o)
	}
	if !includeInactive {
		out = ActiveOptions(out)
	}

	sortOptions(out)
	return out, nil
}

func (s *MemStore) UpsertUpgradeOption(ctx context.Context, o upgrade.UpgradeOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[o.ID] = o
	return nil
}

func (s *MemStore) LoadPricing(ctx context.Context) (pricing.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pricing.Clone(), nil
}

func (s *MemStore) MergePricing(ctx context.Context, update pricing.Table) (pricing.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pricing = s.pricing.Merge(update)
	return s.pricing.Clone(), nil
}

func sortOptions(opts []upgrade.UpgradeOption) {
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].OptionType != opts[j].OptionType {
			return opts[i].OptionType < opts[j].OptionType
		}
		if opts[i].DisplayOrder != opts[j].DisplayOrder {
			return opts[i].DisplayOrder < opts[j].DisplayOrder
		}
		return opts[i].ID < opts[j].ID
	})
}
