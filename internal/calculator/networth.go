package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

// AccountBalance pairs an account with its derived balance, already
// resolved to the base currency by the caller. No conversion happens
// here.
type AccountBalance struct {
	Account *models.Account
	Balance decimal.Decimal
}

// NetWorthResult is the net-worth summary across all included items.
type NetWorthResult struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	AssetCount       int
	LiabilityCount   int
}

// CalculateNetWorth sums items flagged for net-worth inclusion.
// Accounts and loans must additionally be active; closed accounts and
// paid-off loans drop out. All amounts are assumed to share one base
// currency.
func CalculateNetWorth(accounts []AccountBalance, assets []*models.Asset, liabilities []*models.Liability, loans []*models.Loan) NetWorthResult {
	result := NetWorthResult{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}

	for _, ab := range accounts {
		if ab.Account == nil || !ab.Account.IncludedInNetWorth || !ab.Account.IsActive() {
			continue
		}
		result.TotalAssets = result.TotalAssets.Add(ab.Balance)
		result.AssetCount++
	}
	for _, a := range assets {
		if !a.IncludedInNetWorth {
			continue
		}
		result.TotalAssets = result.TotalAssets.Add(a.CurrentValue)
		result.AssetCount++
	}
	for _, l := range liabilities {
		if !l.IncludedInNetWorth {
			continue
		}
		result.TotalLiabilities = result.TotalLiabilities.Add(l.CurrentBalance)
		result.LiabilityCount++
	}
	for _, l := range loans {
		if !l.IncludedInNetWorth || !l.IsActive() {
			continue
		}
		result.TotalLiabilities = result.TotalLiabilities.Add(l.CurrentBalance)
		result.LiabilityCount++
	}

	result.NetWorth = result.TotalAssets.Sub(result.TotalLiabilities)
	return result
}
