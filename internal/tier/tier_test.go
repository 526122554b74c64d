package tier

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLimitsForKnownTiers(t *testing.T) {
	if got := LimitsFor(1).Daily; !got.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("tier 1 daily = %s", got)
	}
	if got := LimitsFor(2).Daily; !got.Equal(decimal.NewFromInt(200_000)) {
		t.Fatalf("tier 2 daily = %s", got)
	}
	if got := LimitsFor(3).Daily; !got.Equal(decimal.NewFromInt(5_000_000)) {
		t.Fatalf("tier 3 daily = %s", got)
	}
}

func TestLimitsForUnknownTierFallsBackToTierOne(t *testing.T) {
	for _, level := range []int{0, -1, 4, 99} {
		got := LimitsFor(level)
		if !got.Daily.Equal(LimitsFor(1).Daily) || !got.Monthly.Equal(LimitsFor(1).Monthly) {
			t.Fatalf("tier %d did not fall back to tier 1 limits: %+v", level, got)
		}
	}
}

func TestHigherTiersWidenLimits(t *testing.T) {
	for level := 1; level < 3; level++ {
		if !LimitsFor(level + 1).Daily.GreaterThan(LimitsFor(level).Daily) {
			t.Fatalf("tier %d daily limit not greater than tier %d", level+1, level)
		}
	}
}
