package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"LaptopStore/internal/upgrade"
)

const (
	MinQty = 1
	MaxQty = 99
)

var ErrLineNotFound = errors.New("cart line not found")

// Customization is the upgrade selection a line was quoted with.
type Customization struct {
	RAMOptionID *int64 `json:"ram_option_id,omitempty"`
	SSDOptionID *int64 `json:"ssd_option_id,omitempty"`
	SpeedID     string `json:"speed_id,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

func (c Customization) Empty() bool {
	return c.RAMOptionID == nil && c.SSDOptionID == nil && c.SpeedID == "" && c.Brand == ""
}

// key identifies a product configuration; adding the same configuration
// twice bumps the quantity of one line.
func (c Customization) key(productID string) string {
	var b strings.Builder
	b.WriteString(productID)
	if c.RAMOptionID != nil {
		fmt.Fprintf(&b, "|ram=%d", *c.RAMOptionID)
	}
	if c.SSDOptionID != nil {
		fmt.Fprintf(&b, "|ssd=%d", *c.SSDOptionID)
	}
	if c.SpeedID != "" {
		b.WriteString("|speed=" + c.SpeedID)
	}
	if c.Brand != "" {
		b.WriteString("|brand=" + c.Brand)
	}
	return b.String()
}

// Line is a cart entry. Prices are the quote taken when the line was added.
type Line struct {
	ID                  string            `json:"id"`
	UserID              string            `json:"user_id"`
	ProductID           string            `json:"product_id"`
	Qty                 int               `json:"qty"`
	DisplayName         string            `json:"display_name"`
	BasePrice           upgrade.Price     `json:"base_price"`
	FinalPrice          upgrade.Price     `json:"final_price"`
	CustomizationCost   upgrade.Price     `json:"customization_cost"`
	HasCustomizations   bool              `json:"has_customizations"`
	HasRAMCustomization bool              `json:"has_ram_customization"`
	Specs               map[string]string `json:"specs,omitempty"`
	Customization       Customization     `json:"customization"`
	CreatedAt           time.Time         `json:"created_at"`

	Key string `json:"-"`
}

func (l Line) Subtotal() upgrade.Price {
	return l.FinalPrice.Mul(l.Qty)
}

type Store interface {
	Ping(ctx context.Context) error

	// Add inserts l, or adds its quantity to the user's line with the same key.
	Add(ctx context.Context, l Line) (Line, error)
	List(ctx context.Context, userID string) ([]Line, error)
	Remove(ctx context.Context, userID, lineID string) error
}
