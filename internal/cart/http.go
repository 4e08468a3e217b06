package cart

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LaptopStore/pkg/kit"
)

type Quoter interface {
	Quote(ctx context.Context, productID string, sel Customization) (Quote, error)
}

type Server struct {
	Store   Store
	Catalog Quoter
	Log     *zap.Logger
	Now     func() time.Time
}

type addReq struct {
	ProductID     string        `json:"product_id"`
	Qty           int           `json:"qty"`
	Customization Customization `json:"customization"`
}

const maxAddBody = 1 << 16

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.logger().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(kit.RequireUserHeaders)
		pr.Get("/cart", s.list)
		pr.Post("/cart/items", s.add)
		pr.Delete("/cart/items/{id}", s.remove)
	})

	return r
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	id, _ := kit.IdentityFromContext(r.Context())

	var req addReq
	if err := kit.DecodeJSON(w, r, &req, maxAddBody, false); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	pid := strings.TrimSpace(req.ProductID)
	if pid == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}
	if req.Qty == 0 {
		req.Qty = MinQty
	}
	if req.Qty < MinQty || req.Qty > MaxQty {
		kit.WriteError(w, r, http.StatusBadRequest, "bad qty", map[string]any{"min": MinQty, "max": MaxQty})
		return
	}

	q, err := s.Catalog.Quote(r.Context(), pid, req.Customization)
	if err != nil {
		s.writeQuoteError(w, r, pid, err)
		return
	}

	line, err := s.Store.Add(r.Context(), newLine(id.UserID, req.Qty, q, s.now()))
	if err != nil {
		s.writeStoreError(w, r, "add cart line failed", err)
		return
	}

	s.logger().Info("cart line added",
		zap.String("user_id", id.UserID),
		zap.String("line_id", line.ID),
		zap.String("product_id", pid),
		zap.Int("qty", line.Qty),
		zap.Float64("final_price", float64(line.FinalPrice)),
	)
	kit.WriteJSON(w, http.StatusCreated, line)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	id, _ := kit.IdentityFromContext(r.Context())

	lines, err := s.Store.List(r.Context(), id.UserID)
	if err != nil {
		s.writeStoreError(w, r, "list cart failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, summarize(lines))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := kit.IdentityFromContext(r.Context())
	lineID := chi.URLParam(r, "id")

	err := s.Store.Remove(r.Context(), id.UserID, lineID)
	if errors.Is(err, ErrLineNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": lineID})
		return
	}
	if err != nil {
		s.writeStoreError(w, r, "remove cart line failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeQuoteError(w http.ResponseWriter, r *http.Request, pid string, err error) {
	switch {
	case errors.Is(err, ErrCatalogNotFound):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product_id", map[string]any{"product_id": pid})
	case errors.Is(err, ErrCatalogRejected):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid customization", map[string]any{"cause": err.Error()})
	case errors.Is(err, ErrCatalogUnavailable):
		s.logger().Warn("catalog unavailable", zap.Error(err), zap.String("product_id", pid))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	default:
		s.logger().Warn("catalog error", zap.Error(err), zap.String("product_id", pid))
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	}
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
		return
	}
	s.logger().Error(msg, zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
