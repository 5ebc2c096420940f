package shipping

import "strings"

// Province is the shipping zone for flat-rate delivery pricing.
type Province string

const (
	Gauteng      Province = "gauteng"
	WesternCape  Province = "western_cape"
	KwaZuluNatal Province = "kwaZulu_natal"
	EasternCape  Province = "eastern_cape"
	FreeState    Province = "free_state"
	Limpopo      Province = "limpopo"
	Mpumalanga   Province = "mpumalanga"
	NorthernCape Province = "northern_cape"
	NorthWest    Province = "north_west"
	Other        Province = "other"
)

// Shipping cost in ZAR cents by province.
var ratesCents = map[Province]int64{
	Gauteng:      15000, // R150
	WesternCape:  18000, // R180
	KwaZuluNatal: 18000,
	EasternCape:  20000,
	FreeState:    18000,
	Limpopo:      20000,
	Mpumalanga:   18000,
	NorthernCape: 22000,
	NorthWest:    18000,
	Other:        22000,
}

var labels = map[Province]string{
	Gauteng:      "Gauteng",
	WesternCape:  "Western Cape",
	KwaZuluNatal: "KwaZulu-Natal",
	EasternCape:  "Eastern Cape",
	FreeState:    "Free State",
	Limpopo:      "Limpopo",
	Mpumalanga:   "Mpumalanga",
	NorthernCape: "Northern Cape",
	NorthWest:    "North West",
	Other:        "Other",
}

// Cents returns the flat shipping fee for a province. Unknown values fall
// back to the Other rate; address input is free text normalized upstream.
func Cents(p Province) int64 {
	if c, ok := ratesCents[p]; ok {
		return c
	}
	return ratesCents[Other]
}

func (p Province) Valid() bool {
	_, ok := ratesCents[p]
	return ok
}

func (p Province) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return labels[Other]
}

// Parse normalizes a free-text province value to the closed enum.
func Parse(s string) Province {
	v := strings.TrimSpace(s)
	for p := range ratesCents {
		if strings.EqualFold(string(p), v) {
			return p
		}
	}
	return Other
}

// Provinces lists every zone in checkout-form order.
func Provinces() []Province {
	return []Province{
		Gauteng, WesternCape, KwaZuluNatal, EasternCape, FreeState,
		Limpopo, Mpumalanga, NorthernCape, NorthWest, Other,
	}
}
