package cart

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"LaptopStore/internal/upgrade"
)

// newLine snapshots a catalog quote into a cart line. The line records the
// selection the quote actually applied, so equivalent requests share a key.
func newLine(userID string, qty int, q Quote, now time.Time) Line {
	sel := appliedCustomization(q)
	l := Line{
		ID:                "l_" + uuid.NewString(),
		UserID:            userID,
		ProductID:         q.ProductID,
		Qty:               qty,
		DisplayName:       q.Title,
		BasePrice:         q.BasePrice,
		FinalPrice:        q.TotalPrice,
		CustomizationCost: q.AdditionalCost,
		Customization:     sel,
		CreatedAt:         now.UTC(),
		Key:               sel.key(q.ProductID),
	}

	switch {
	case q.Laptop != nil:
		specs := q.Laptop.UpdatedSpecs
		l.Specs = map[string]string{"ram": specs.RAM, "storage": specs.Storage}
		l.HasCustomizations = !q.Laptop.Customizations.Empty()

		if l.HasCustomizations {
			var parts []string
			if q.Laptop.Customizations.RAMUpgrade != nil {
				parts = append(parts, specs.RAM+" RAM")
			}
			if q.Laptop.Customizations.SSDUpgrade != nil {
				parts = append(parts, specs.Storage)
			}
			l.DisplayName = q.Title + " (" + strings.Join(parts, ", ") + ")"
		}

	case q.RAM != nil:
		r := q.RAM
		l.Specs = map[string]string{
			"capacity":    r.Specs.Capacity,
			"type":        r.Specs.Type,
			"form_factor": r.Specs.FormFactor,
			"speed":       r.Specs.Speed,
			"brand":       r.Brand,
		}
		l.HasRAMCustomization = r.Speed.ID != upgrade.BaseSpeedID || r.Brand != upgrade.BrandLabel
		l.HasCustomizations = l.HasRAMCustomization

		if l.HasRAMCustomization {
			l.DisplayName = q.Title + " (" + r.Specs.Speed + ", " + r.Brand + ")"
		}
	}

	return l
}

// appliedCustomization reads the selection back from a quote. Base speed and
// the mixed brand label are the defaults and are left out.
func appliedCustomization(q Quote) Customization {
	var c Customization
	switch {
	case q.Laptop != nil:
		if o := q.Laptop.Customizations.RAMUpgrade; o != nil {
			id := o.ID
			c.RAMOptionID = &id
		}
		if o := q.Laptop.Customizations.SSDUpgrade; o != nil {
			id := o.ID
			c.SSDOptionID = &id
		}
	case q.RAM != nil:
		if q.RAM.Speed.ID != upgrade.BaseSpeedID {
			c.SpeedID = q.RAM.Speed.ID
		}
		if q.RAM.Brand != upgrade.BrandLabel {
			c.Brand = q.RAM.Brand
		}
	}
	return c
}

type Summary struct {
	Lines []Line        `json:"lines"`
	Count int           `json:"count"`
	Total upgrade.Price `json:"total"`
}

func summarize(lines []Line) Summary {
	if lines == nil {
		lines = []Line{}
	}

	subtotals := make([]upgrade.Price, 0, len(lines))
	count := 0
	for _, l := range lines {
		subtotals = append(subtotals, l.Subtotal())
		count += l.Qty
	}
	return Summary{Lines: lines, Count: count, Total: upgrade.Sum(subtotals...)}
}
