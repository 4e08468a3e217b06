package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
	"LaptopStore/pkg/kit"
)

const maxAdminBody = 1 << 20

func (s *Server) listOptions(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "1"
	if all && r.Header.Get(kit.HeaderUserRole) != kit.RoleAdmin {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	opts, err := s.Store.ListUpgradeOptions(r.Context(), all)
	if err != nil {
		s.logger().Error("list upgrade options failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if opts == nil {
		opts = []upgrade.UpgradeOption{}
	}
	kit.WriteJSON(w, http.StatusOK, opts)
}

func (s *Server) putOption(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", nil)
		return
	}

	var o upgrade.UpgradeOption
	if err := kit.DecodeJSON(w, r, &o, maxAdminBody, false); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	o.ID = id
	if o.OptionType == upgrade.OptionRAM && o.ApplicableTo == "" {
		o.ApplicableTo = upgrade.ApplicableAll
	}

	if err := o.Validate(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid option", map[string]any{"cause": err.Error()})
		return
	}

	if err := s.Store.UpsertUpgradeOption(r.Context(), o); err != nil {
		s.logger().Error("upsert upgrade option failed", zap.Error(err), zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.logger().Info("upgrade option saved",
		zap.Int64("id", id),
		zap.String("type", string(o.OptionType)),
		zap.Float64("price", float64(o.Price)),
		zap.Bool("active", o.IsActive),
	)
	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) getPricing(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.pricingTable(r.Context()))
}

// putPricing merges the submitted keys into the stored table. Keys absent from
// the body keep their stored values.
func (s *Server) putPricing(w http.ResponseWriter, r *http.Request) {
	var in pricing.Table
	if err := kit.DecodeJSON(w, r, &in, maxAdminBody, false); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if len(in) == 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "empty pricing update", nil)
		return
	}
	if err := in.Validate(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid pricing", map[string]any{"cause": err.Error()})
		return
	}

	next, err := s.Store.MergePricing(r.Context(), in)
	if err != nil {
		s.logger().Error("save pricing failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	if s.Pricing != nil {
		s.Pricing.Invalidate()
	}
	s.logger().Info("pricing updated", zap.Int("keys", len(in)))

	kit.WriteJSON(w, http.StatusOK, pricing.Defaults().Merge(next))
}
