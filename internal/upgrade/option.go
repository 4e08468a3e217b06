package upgrade

import (
	"errors"
	"fmt"
)

type OptionType string

const (
	OptionRAM OptionType = "ram"
	OptionSSD OptionType = "ssd"
)

const (
	ApplicableDDR3 = "ddr3"
	ApplicableDDR4 = "ddr4"
	ApplicableAll  = "all"
)

var (
	ErrOptionNotFound  = errors.New("upgrade option not found")
	ErrInvalidOption   = errors.New("invalid upgrade option")
	ErrSpeedNotFound   = errors.New("speed tier not found")
	ErrUnknownBrand    = errors.New("unknown brand")
	ErrNotCustomizable = errors.New("product is not customizable")
)

// UpgradeOption is one catalog entry an upgrade can be resolved from.
type UpgradeOption struct {
	ID            int64      `json:"id" yaml:"id"`
	OptionType    OptionType `json:"option_type" yaml:"option_type"`
	Size          string     `json:"size" yaml:"size"`
	SizeNumber    int        `json:"size_number" yaml:"size_number"`
	DisplayLabel  string     `json:"display_label,omitempty" yaml:"display_label"`
	Description   string     `json:"description,omitempty" yaml:"description"`
	ApplicableTo  string     `json:"applicable_to,omitempty" yaml:"applicable_to"`
	MinGeneration *int       `json:"min_generation" yaml:"min_generation"`
	MaxGeneration *int       `json:"max_generation" yaml:"max_generation"`
	Price         Price      `json:"price" yaml:"price"`
	IsActive      bool       `json:"is_active" yaml:"is_active"`
	DisplayOrder  int        `json:"display_order" yaml:"display_order"`
}

// Validate checks what an admin edit must satisfy before it is stored.
func (o UpgradeOption) Validate() error {
	switch o.OptionType {
	case OptionRAM:
		switch o.ApplicableTo {
		case ApplicableDDR3, ApplicableDDR4, ApplicableAll:
		default:
			return fmt.Errorf("%w: applicable_to %q", ErrInvalidOption, o.ApplicableTo)
		}
	case OptionSSD:
	default:
		return fmt.Errorf("%w: option_type %q", ErrInvalidOption, o.OptionType)
	}
	if o.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidOption)
	}
	if o.SizeNumber <= 0 {
		return fmt.Errorf("%w: size_number must be positive", ErrInvalidOption)
	}
	if o.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidOption)
	}
	if o.MinGeneration != nil && o.MaxGeneration != nil && *o.MinGeneration > *o.MaxGeneration {
		return fmt.Errorf("%w: min_generation above max_generation", ErrInvalidOption)
	}
	return nil
}

// ResolvedOption is an upgrade choice with its final price.
type ResolvedOption struct {
	ID            int64  `json:"id"`
	Size          string `json:"size"`
	SizeNumber    int    `json:"size_number"`
	Description   string `json:"description,omitempty"`
	Price         Price  `json:"price"`
	DefaultPrice  Price  `json:"default_price"`
	IsCustomPrice bool   `json:"is_custom_price"`
	Label         string `json:"label"`
}

// OptionKey is the key per-product price overrides are stored under, e.g. "ram-7".
func OptionKey(t OptionType, id int64) string {
	return fmt.Sprintf("%s-%d", t, id)
}

// PriceTable is a flat key to price lookup such as the global pricing settings.
type PriceTable interface {
	Lookup(key string) (Price, bool)
}

// RAMPriceKey names the pricing setting for a RAM module, e.g. "ram_ddr4_16gb".
func RAMPriceKey(f Family, sizeGB int) string {
	return fmt.Sprintf("ram_%s_%dgb", f, sizeGB)
}

// SSDPriceKey names the pricing setting for an SSD swap, e.g. "ssd_256_to_1tb".
func SSDPriceKey(fromGB, toGB int) string {
	return fmt.Sprintf("ssd_%s_to_%s", ssdKeyPart(fromGB), ssdKeyPart(toGB))
}

func ssdKeyPart(gb int) string {
	if gb >= gbPerTB && gb%gbPerTB == 0 {
		return fmt.Sprintf("%dtb", gb/gbPerTB)
	}
	return fmt.Sprintf("%d", gb)
}

// SpeedPriceKey names the global pricing setting for a RAM speed tier.
func SpeedPriceKey(speedID string) string {
	return "ram_speed_" + speedID
}
