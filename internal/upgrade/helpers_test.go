package upgrade

import "encoding/json"

type mapTable map[string]Price

func (m mapTable) Lookup(key string) (Price, bool) {
	v, ok := m[key]
	return v, ok
}

func intp(n int) *int { return &n }

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

func ramOpt(id int64, size int, applicable string, minGen, maxGen *int, price Price) UpgradeOption {
	return UpgradeOption{
		ID:            id,
		OptionType:    OptionRAM,
		Size:          FormatCapacity(size),
		SizeNumber:    size,
		ApplicableTo:  applicable,
		MinGeneration: minGen,
		MaxGeneration: maxGen,
		Price:         price,
		IsActive:      true,
	}
}

func ssdOpt(id int64, size int, price Price) UpgradeOption {
	return UpgradeOption{
		ID:         id,
		OptionType: OptionSSD,
		Size:       FormatCapacity(size),
		SizeNumber: size,
		Price:      price,
		IsActive:   true,
	}
}
