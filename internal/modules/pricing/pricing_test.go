package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sqm(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPrice_TierBoundaries(t *testing.T) {
	// Thresholds are inclusive on the lower bound.
	assert.Equal(t, int64(5*55000), WallpaperCents(sqm("5"), FinishMatte))
	// Just under the boundary stays in the smaller tier.
	assert.Equal(t, int64(324935), WallpaperCents(sqm("4.999"), FinishMatte)) // 4.999*65000 = 324935
	assert.Equal(t, int64(10*45000), WallpaperCents(sqm("10"), FinishMatte))
	assert.Equal(t, int64(20*40000), WallpaperCents(sqm("20"), FinishMatte))
}

func TestPrice_FinishMultipliers(t *testing.T) {
	// 10 m² lands in the 45000 tier.
	assert.Equal(t, int64(450000), WallpaperCents(sqm("10"), FinishMatte))
	assert.Equal(t, int64(517500), WallpaperCents(sqm("10"), FinishSatin))
	assert.Equal(t, int64(562500), WallpaperCents(sqm("10"), FinishTextured))
	assert.Equal(t, int64(630000), WallpaperCents(sqm("10"), FinishPremium))
}

func TestPrice_ApplicationAddons(t *testing.T) {
	b := Price(sqm("10"), FinishMatte, ApplicationDIY)
	assert.Equal(t, int64(0), b.ApplicationCents)
	assert.Equal(t, b.WallpaperCents, b.SubtotalCents)

	b = Price(sqm("10"), FinishMatte, ApplicationDIYKit)
	assert.Equal(t, int64(50000), b.ApplicationCents)
	assert.Equal(t, b.WallpaperCents+50000, b.SubtotalCents)

	b = Price(sqm("10"), FinishMatte, ApplicationInstaller)
	assert.Equal(t, int64(150000), b.ApplicationCents)
}

func TestPrice_ZeroAndNegativeArea(t *testing.T) {
	b := Price(decimal.Zero, FinishPremium, ApplicationInstaller)
	assert.Equal(t, int64(0), b.WallpaperCents)
	assert.Equal(t, int64(150000), b.ApplicationCents)

	assert.Equal(t, int64(0), WallpaperCents(sqm("-1"), FinishMatte))
}

func TestPrice_HappyPathCheckout(t *testing.T) {
	// One wall 3.5m × 2.4m, matte, DIY: 8.4 m² at R550/m².
	b := Price(sqm("8.4"), FinishMatte, ApplicationDIY)
	assert.Equal(t, int64(462000), b.WallpaperCents)
	assert.Equal(t, int64(0), b.ApplicationCents)
	assert.Equal(t, int64(462000), b.SubtotalCents)
}

func TestPrice_RoundHalfUp(t *testing.T) {
	// 0.123 m² * 65000 = 7995 exactly; 0.1235 * 65000 = 8027.5 rounds up.
	assert.Equal(t, int64(7995), WallpaperCents(sqm("0.123"), FinishMatte))
	assert.Equal(t, int64(8028), WallpaperCents(sqm("0.1235"), FinishMatte))
}

func TestPrice_MonotonicWithinTier(t *testing.T) {
	for _, tier := range [][]string{
		{"0.5", "1", "3", "4.999"},
		{"5", "7.5", "9.999"},
		{"10", "15", "19.999"},
		{"20", "40"},
	} {
		var prev int64 = -1
		for _, area := range tier {
			got := WallpaperCents(sqm(area), FinishSatin)
			assert.Greater(t, got, prev, "area %s", area)
			prev = got
		}
	}
}

func TestPrice_BoundaryTakesCheaperTier(t *testing.T) {
	// Crossing a threshold switches to the cheaper unit rate immediately,
	// so a slightly larger order can cost less in total. That is intended.
	assert.Less(t, WallpaperCents(sqm("5"), FinishMatte), WallpaperCents(sqm("4.999"), FinishMatte))
	assert.Less(t, WallpaperCents(sqm("10"), FinishMatte), WallpaperCents(sqm("9.999"), FinishMatte))
	assert.Less(t, WallpaperCents(sqm("20"), FinishMatte), WallpaperCents(sqm("19.999"), FinishMatte))
}

func TestFormatZAR(t *testing.T) {
	assert.Equal(t, "R4620.00", FormatZAR(462000))
	assert.Equal(t, "R0.05", FormatZAR(5))
	assert.Equal(t, "-R1.50", FormatZAR(-150))
}
