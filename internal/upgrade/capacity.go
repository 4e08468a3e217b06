package upgrade

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const gbPerTB = 1024

var capacityRe = regexp.MustCompile(`(\d+(?:\.\d+)?|\.\d+)\s*(TB|GB)?`)

// ParseCapacityToGB turns a capacity label such as "256GB", "1 TB" or "8GB DDR4"
// into gigabytes. The first number in the label is used; a TB unit (next to the
// number, or anywhere in the label when the number carries no unit) scales it by
// 1024. Empty or unparsable labels yield 0.
func ParseCapacityToGB(s string) float64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	m := capacityRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	switch m[2] {
	case "TB":
		return v * gbPerTB
	case "GB":
		return v
	}
	if strings.Contains(s, "TB") {
		return v * gbPerTB
	}
	return v
}

// FormatCapacity renders a GB magnitude the way catalog labels spell it.
func FormatCapacity(gb int) string {
	if gb >= gbPerTB && gb%gbPerTB == 0 {
		return strconv.Itoa(gb/gbPerTB) + "TB"
	}
	return strconv.Itoa(gb) + "GB"
}
