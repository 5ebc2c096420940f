package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Finish string

const (
	FinishMatte    Finish = "matte"
	FinishSatin    Finish = "satin"
	FinishTextured Finish = "textured"
	FinishPremium  Finish = "premium"
)

type ApplicationMethod string

const (
	ApplicationDIY       ApplicationMethod = "diy"
	ApplicationDIYKit    ApplicationMethod = "diy_kit"
	ApplicationInstaller ApplicationMethod = "installer"
)

// Base price per m² in ZAR cents, tiered by total m².
// The first tier whose MinSqm <= total wins (thresholds inclusive).
var baseTiers = []struct {
	MinSqm      decimal.Decimal
	CentsPerSqm int64
}{
	{decimal.NewFromInt(20), 40000}, // R400/m² for 20+
	{decimal.NewFromInt(10), 45000}, // R450/m² for 10–20
	{decimal.NewFromInt(5), 55000},  // R550/m² for 5–10
	{decimal.NewFromInt(0), 65000},  // R650/m² for 0–5
}

var finishMultipliers = map[Finish]decimal.Decimal{
	FinishMatte:    decimal.NewFromInt(1),
	FinishSatin:    decimal.RequireFromString("1.15"),
	FinishTextured: decimal.RequireFromString("1.25"),
	FinishPremium:  decimal.RequireFromString("1.4"),
}

// Application add-on in ZAR cents (flat, not tied to m²).
var applicationAddons = map[ApplicationMethod]int64{
	ApplicationDIY:       0,
	ApplicationDIYKit:    50000,  // R500
	ApplicationInstaller: 150000, // R1,500
}

type Breakdown struct {
	WallpaperCents   int64 `json:"wallpaper_cents"`
	ApplicationCents int64 `json:"application_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
}

func (f Finish) Valid() bool {
	_, ok := finishMultipliers[f]
	return ok
}

func (m ApplicationMethod) Valid() bool {
	_, ok := applicationAddons[m]
	return ok
}

func baseCentsPerSqm(totalSqm decimal.Decimal) int64 {
	for _, t := range baseTiers {
		if totalSqm.GreaterThanOrEqual(t.MinSqm) {
			return t.CentsPerSqm
		}
	}
	return baseTiers[0].CentsPerSqm
}

// WallpaperCents prices the paper alone: m² × base rate × finish multiplier,
// rounded half-up to the nearest cent. Zero for non-positive area so the live
// preview can price an incomplete configuration.
func WallpaperCents(totalSqm decimal.Decimal, finish Finish) int64 {
	if !totalSqm.IsPositive() {
		return 0
	}
	rate := decimal.NewFromInt(baseCentsPerSqm(totalSqm))
	mult, ok := finishMultipliers[finish]
	if !ok {
		mult = decimal.NewFromInt(1)
	}
	return totalSqm.Mul(rate).Mul(mult).Round(0).IntPart()
}

// Price computes the full pre-shipping breakdown in ZAR cents.
func Price(totalSqm decimal.Decimal, finish Finish, application ApplicationMethod) Breakdown {
	wallpaper := WallpaperCents(totalSqm, finish)
	addon := applicationAddons[application]
	return Breakdown{
		WallpaperCents:   wallpaper,
		ApplicationCents: addon,
		SubtotalCents:    wallpaper + addon,
	}
}

// FormatZAR renders cents as "R1234.56" for admin views and exports.
func FormatZAR(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR%d.%02d", sign, cents/100, cents%100)
}
