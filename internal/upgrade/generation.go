package upgrade

import (
	"regexp"
	"strconv"
	"strings"
)

type Family string

const (
	FamilyUnknown Family = ""
	FamilyDDR3    Family = "ddr3"
	FamilyDDR4    Family = "ddr4"
)

// Classification is the RAM technology derived from a processor generation label.
// Known is false when the label carries no number.
type Classification struct {
	Family     Family
	Generation int
	Known      bool
}

var firstIntRe = regexp.MustCompile(`\d+`)

// Classify maps labels like "6th Gen" to a generation number and RAM family:
// generations 3 to 5 are ddr3, 6 and above ddr4, anything else has no family.
func Classify(label string) Classification {
	label = strings.TrimSpace(label)
	if label == "" {
		return Classification{}
	}

	digits := firstIntRe.FindString(label)
	if digits == "" {
		return Classification{}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Classification{}
	}

	c := Classification{Generation: n, Known: true}
	switch {
	case n >= 3 && n <= 5:
		c.Family = FamilyDDR3
	case n >= 6:
		c.Family = FamilyDDR4
	}
	return c
}
