package tier

import "github.com/shopspring/decimal"

// Limits describes the spend ceilings and feature set granted by a KYC tier.
type Limits struct {
	Daily    decimal.Decimal `json:"daily"`
	Monthly  decimal.Decimal `json:"monthly"`
	Features []string        `json:"features"`
}

var (
	tier1 = Limits{
		Daily:    decimal.NewFromInt(50_000),
		Monthly:  decimal.NewFromInt(200_000),
		Features: []string{"transfers", "airtime", "data"},
	}
	tier2 = Limits{
		Daily:    decimal.NewFromInt(200_000),
		Monthly:  decimal.NewFromInt(500_000),
		Features: []string{"transfers", "airtime", "data", "bill_payments", "virtual_cards"},
	}
	tier3 = Limits{
		Daily:    decimal.NewFromInt(5_000_000),
		Monthly:  decimal.NewFromInt(20_000_000),
		Features: []string{"transfers", "airtime", "data", "bill_payments", "virtual_cards", "international"},
	}
)

// LimitsFor returns the spend limits for a verification tier. Unknown
// levels fall back to tier 1, the most restrictive tier, so an
// unrecognised tier can never unlock unlimited spend.
func LimitsFor(level int) Limits {
	switch level {
	case 2:
		return tier2
	case 3:
		return tier3
	default:
		return tier1
	}
}
