package upgrade

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount. It decodes from JSON numbers and numeric strings;
// anything else (null, garbage) decodes to 0 instead of failing the document.
type Price float64

var leadingNumberRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// ParsePrice reads the leading number of s, ignoring thousands separators.
// "50,000" is 50000, "1200 Rs" is 1200 and "N/A" is 0.
func ParsePrice(s string) Price {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	m := leadingNumberRe.FindString(s)
	if m == "" {
		return 0
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return 0
	}
	return Price(d.InexactFloat64())
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*p = 0
			return nil
		}
		*p = ParsePrice(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*p = 0
		return nil
	}
	*p = Price(f)
	return nil
}

// NonNegative clamps negative amounts to zero.
func (p Price) NonNegative() Price {
	if p < 0 {
		return 0
	}
	return p
}

func (p Price) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(p))
}

// Sum adds amounts in decimal arithmetic so totals do not pick up float drift.
func Sum(amounts ...Price) Price {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}
	return Price(total.InexactFloat64())
}

// Mul multiplies an amount by a quantity in decimal arithmetic.
func (p Price) Mul(qty int) Price {
	return Price(p.Decimal().Mul(decimal.NewFromInt(int64(qty))).InexactFloat64())
}
