package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
	"LaptopStore/pkg/kit"
)

var (
	ErrProductNotFound = errors.New("product not found")
	errBadSelection    = errors.New("selection does not apply to product")
)

const maxQuoteBody = 1 << 16

type Upgrades struct {
	ProductID  string                   `json:"product_id"`
	Kind       upgrade.Kind             `json:"kind"`
	RAM        []upgrade.ResolvedOption `json:"ram"`
	SSD        []upgrade.ResolvedOption `json:"ssd"`
	Speeds     []upgrade.SpeedOption    `json:"speeds"`
	Brands     []string                 `json:"brands"`
	BrandLabel string                   `json:"brand_label,omitempty"`
}

type QuoteRequest struct {
	RAMOptionID *int64 `json:"ram_option_id,omitempty"`
	SSDOptionID *int64 `json:"ssd_option_id,omitempty"`
	SpeedID     string `json:"speed_id,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

func (q QuoteRequest) laptopSelection() bool { return q.RAMOptionID != nil || q.SSDOptionID != nil }
func (q QuoteRequest) ramSelection() bool    { return q.SpeedID != "" || q.Brand != "" }

type Quote struct {
	ProductID      string                `json:"product_id"`
	Title          string                `json:"title"`
	Kind           upgrade.Kind          `json:"kind"`
	BasePrice      upgrade.Price         `json:"base_price"`
	TotalPrice     upgrade.Price         `json:"total_price"`
	AdditionalCost upgrade.Price         `json:"additional_cost"`
	Laptop         *upgrade.LaptopChange `json:"laptop,omitempty"`
	RAM            *upgrade.RAMChange    `json:"ram,omitempty"`
}

type upgradeInputs struct {
	product upgrade.Product
	options []upgrade.UpgradeOption
	table   pricing.Table
}

// loadUpgradeInputs fetches product, active options and pricing concurrently.
// A failing option catalog degrades to no options rather than failing the page.
func (s *Server) loadUpgradeInputs(ctx context.Context, id string) (upgradeInputs, error) {
	var (
		in    upgradeInputs
		found bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.product, found, err = s.Store.GetProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		opts, err := s.Store.ListUpgradeOptions(gctx, false)
		if err != nil {
			s.logger().Warn("list upgrade options failed", zap.Error(err), zap.String("product_id", id))
			opts = nil
		}
		in.options = opts
		return nil
	})
	g.Go(func() error {
		in.table = s.pricingTable(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return upgradeInputs{}, err
	}
	if !found {
		return upgradeInputs{}, ErrProductNotFound
	}
	return in, nil
}

func resolveUpgrades(in upgradeInputs) Upgrades {
	p := in.product
	out := Upgrades{
		ProductID: p.ID,
		Kind:      p.Kind(),
		RAM:       []upgrade.ResolvedOption{},
		SSD:       []upgrade.ResolvedOption{},
		Speeds:    []upgrade.SpeedOption{},
		Brands:    []string{},
	}

	switch p.Kind() {
	case upgrade.KindLaptop:
		out.RAM = upgrade.ResolveRAMOptions(p, in.options, in.table)
		out.SSD = upgrade.ResolveSSDOptions(p, in.options, in.table)
	case upgrade.KindRAM:
		out.Speeds = upgrade.ResolveSpeedOptions(p, in.table)
		out.Brands = append(out.Brands, upgrade.Brands...)
		out.BrandLabel = upgrade.BrandLabel
	}
	return out
}

// buildQuote prices a selection against already loaded inputs.
func buildQuote(in upgradeInputs, req QuoteRequest) (Quote, error) {
	p := in.product
	q := Quote{
		ProductID: p.ID,
		Title:     p.Title,
		Kind:      p.Kind(),
		BasePrice: p.BasePrice(),
	}

	switch p.Kind() {
	case upgrade.KindLaptop:
		if req.ramSelection() {
			return Quote{}, fmt.Errorf("%w: speed and brand apply to ram products", errBadSelection)
		}

		c := upgrade.NewLaptopCustomizer(p, nil)
		ticket := c.BeginFetch()
		c.ApplyPricing(ticket, in.table)
		c.ApplyCatalog(ticket, in.options)

		if req.RAMOptionID != nil {
			if err := c.ToggleRAM(*req.RAMOptionID); err != nil {
				return Quote{}, err
			}
		}
		if req.SSDOptionID != nil {
			if err := c.ToggleSSD(*req.SSDOptionID); err != nil {
				return Quote{}, err
			}
		}

		snap := c.Snapshot()
		q.Laptop = &snap
		q.TotalPrice = snap.TotalPrice
		q.AdditionalCost = snap.AdditionalCost

	case upgrade.KindRAM:
		if req.laptopSelection() {
			return Quote{}, fmt.Errorf("%w: ram and ssd upgrades apply to laptops", errBadSelection)
		}

		c := upgrade.NewRAMCustomizer(p, in.table, nil)
		if req.SpeedID != "" {
			if err := c.SelectSpeed(req.SpeedID); err != nil {
				return Quote{}, err
			}
		}
		if req.Brand != "" {
			if err := c.SetBrand(req.Brand); err != nil {
				return Quote{}, err
			}
		}

		snap := c.Snapshot()
		q.RAM = &snap
		q.TotalPrice = snap.TotalPrice
		q.AdditionalCost = snap.AdditionalCost

	default:
		if req.laptopSelection() || req.ramSelection() {
			return Quote{}, upgrade.ErrNotCustomizable
		}
		q.TotalPrice = q.BasePrice
	}

	return q, nil
}

func (s *Server) upgrades(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := s.loadUpgradeInputs(r.Context(), id)
	if err != nil {
		s.writeLoadError(w, r, id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, resolveUpgrades(in))
}

func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req QuoteRequest
	if err := kit.DecodeJSON(w, r, &req, maxQuoteBody, true); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	in, err := s.loadUpgradeInputs(r.Context(), id)
	if err != nil {
		s.writeLoadError(w, r, id, err)
		return
	}

	q, err := buildQuote(in, req)
	if err != nil {
		writeQuoteError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, q)
}

func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, ErrProductNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	s.logger().Error("load upgrade inputs failed", zap.Error(err), zap.String("id", id))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func writeQuoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, upgrade.ErrOptionNotFound):
		kit.WriteError(w, r, http.StatusBadRequest, "unknown upgrade option", map[string]any{"cause": err.Error()})
	case errors.Is(err, upgrade.ErrSpeedNotFound):
		kit.WriteError(w, r, http.StatusBadRequest, "unknown speed", map[string]any{"cause": err.Error()})
	case errors.Is(err, upgrade.ErrUnknownBrand):
		kit.WriteError(w, r, http.StatusBadRequest, "unknown brand", map[string]any{"cause": err.Error()})
	case errors.Is(err, upgrade.ErrNotCustomizable):
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "product is not customizable", nil)
	case errors.Is(err, errBadSelection):
		kit.WriteError(w, r, http.StatusBadRequest, "bad selection", map[string]any{"cause": err.Error()})
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
