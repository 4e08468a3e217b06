package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNoSource          = errors.New("pricing source not configured")
	ErrSourceUnavailable = errors.New("pricing source unavailable")
	ErrSourceBadStatus   = errors.New("pricing source bad status")
)

const maxTableBytes = 1 << 20

// HTTPSource reads the table from a catalog service's GET /pricing.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/pricing", nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrSourceBadStatus, resp.StatusCode)
	}

	var t Table
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTableBytes)).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode pricing: %w", err)
	}
	return t, nil
}
