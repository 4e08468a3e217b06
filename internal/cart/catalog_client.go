package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LaptopStore/internal/upgrade"
)

var (
	ErrCatalogNotFound    = errors.New("catalog product not found")
	ErrCatalogRejected    = errors.New("catalog rejected customization")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

const maxQuoteBytes = 1 << 20

// Quote is the catalog's price for one product configuration.
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

type CatalogClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &CatalogClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

// Quote asks the catalog to price productID with the given customization.
func (c *CatalogClient) Quote(ctx context.Context, productID string, sel Customization) (Quote, error) {
	body, err := json.Marshal(sel)
	if err != nil {
		return Quote{}, err
	}

	u := fmt.Sprintf("%s/products/%s/quote", c.BaseURL, url.PathEscape(productID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return Quote{}, ErrCatalogNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return Quote{}, fmt.Errorf("%w: %s", ErrCatalogRejected, readErrorMessage(resp.Body))
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Quote{}, fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	var q Quote
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxQuoteBytes)).Decode(&q); err != nil {
		return Quote{}, fmt.Errorf("%w: decode quote: %v", ErrCatalogBadStatus, err)
	}
	return q, nil
}

func readErrorMessage(r io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&e); err != nil || e.Error == "" {
		return "rejected"
	}
	return e.Error
}
