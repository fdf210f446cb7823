package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mkhare/finbook/internal/calculator"
	"github.com/mkhare/finbook/internal/models"
	"github.com/mkhare/finbook/internal/money"
	"github.com/mkhare/finbook/internal/storage"
)

// ErrNoRate is returned when a net-worth item's currency cannot be
// converted to the base currency.
var ErrNoRate = errors.New("no exchange rate available")

// RateConverter converts an amount between two currencies. Reports
// never fetch rates themselves; the caller injects them.
type RateConverter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// StaticRates is a RateConverter over a fixed set of exchange rates.
// Same-currency conversion is the identity; the inverse of a known rate
// is used when the direct rate is missing.
type StaticRates struct {
	rates map[string]decimal.Decimal
}

// NewStaticRates builds a converter from the given rates.
func NewStaticRates(rates ...money.ExchangeRate) *StaticRates {
	m := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		m[r.From+"/"+r.To] = r.Rate
	}
	return &StaticRates{rates: m}
}

func (s *StaticRates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	if rate, ok := s.rates[from+"/"+to]; ok {
		return amount.Mul(rate), nil
	}
	if rate, ok := s.rates[to+"/"+from]; ok {
		return amount.Div(rate), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%s to %s: %w", from, to, ErrNoRate)
}

// ReportService assembles read-only reports: net worth and cash flow.
type ReportService struct {
	store storage.Store
}

// NewReportService creates a ReportService with the given storage
// backend.
func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// NetWorth derives the tenant's net worth in the base currency. Account
// balances are derived from posted transactions; standalone assets,
// liabilities, and loans contribute their recorded values. Items in
// other currencies are converted with the given rates.
func (s *ReportService) NetWorth(ctx context.Context, tenantID, baseCurrency string, rates RateConverter) (calculator.NetWorthResult, error) {
	if _, err := money.GetCurrency(baseCurrency); err != nil {
		return calculator.NetWorthResult{}, err
	}

	var (
		accounts    []*models.Account
		assets      []*models.Asset
		liabilities []*models.Liability
		loans       []*models.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accounts, err = s.store.ListAccounts(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		assets, err = s.store.ListAssets(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		liabilities, err = s.store.ListLiabilities(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		loans, err = s.store.ListLoans(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return calculator.NetWorthResult{}, fmt.Errorf("load net worth items: %w", err)
	}

	balances, err := s.accountBalances(ctx, tenantID, baseCurrency, accounts, rates)
	if err != nil {
		return calculator.NetWorthResult{}, err
	}

	assets, err = convertAssets(assets, baseCurrency, rates)
	if err != nil {
		return calculator.NetWorthResult{}, err
	}
	liabilities, err = convertLiabilities(liabilities, baseCurrency, rates)
	if err != nil {
		return calculator.NetWorthResult{}, err
	}
	loans, err = convertLoans(loans, baseCurrency, rates)
	if err != nil {
		return calculator.NetWorthResult{}, err
	}

	result := calculator.CalculateNetWorth(balances, assets, liabilities, loans)
	slog.InfoContext(ctx, "Net worth computed",
		"tenant_id", tenantID,
		"currency", baseCurrency,
		"net_worth", result.NetWorth)
	return result, nil
}

// accountBalances derives each account's balance concurrently and
// converts it to the base currency.
func (s *ReportService) accountBalances(ctx context.Context, tenantID, baseCurrency string, accounts []*models.Account, rates RateConverter) ([]calculator.AccountBalance, error) {
	balances := make([]calculator.AccountBalance, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, account := range accounts {
		g.Go(func() error {
			txns, err := s.store.ListTransactions(gctx, tenantID, account.ID)
			if err != nil {
				return fmt.Errorf("account %s: %w", account.ID, err)
			}
			balance := calculator.CalculateBalance(txns, calculator.BalanceOptions{}).Balance
			converted, err := rates.Convert(balance, account.CurrencyCode, baseCurrency)
			if err != nil {
				return fmt.Errorf("account %s: %w", account.ID, err)
			}
			// Each goroutine writes its own index.
			balances[i] = calculator.AccountBalance{Account: account, Balance: converted}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

// CashFlow summarizes posted income and expenses in the window. The
// empty accountID covers all accounts; zero times leave the window
// open-ended on that side.
func (s *ReportService) CashFlow(ctx context.Context, tenantID, accountID string, from, to time.Time) (calculator.CashFlowResult, error) {
	txns, err := s.store.ListTransactions(ctx, tenantID, accountID)
	if err != nil {
		return calculator.CashFlowResult{}, err
	}
	return calculator.AnalyzeCashFlow(txns, from, to), nil
}

func convertAssets(assets []*models.Asset, baseCurrency string, rates RateConverter) ([]*models.Asset, error) {
	out := make([]*models.Asset, len(assets))
	for i, a := range assets {
		if a.CurrencyCode == baseCurrency {
			out[i] = a
			continue
		}
		value, err := rates.Convert(a.CurrentValue, a.CurrencyCode, baseCurrency)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", a.ID, err)
		}
		converted := *a
		converted.CurrentValue = value
		converted.CurrencyCode = baseCurrency
		out[i] = &converted
	}
	return out, nil
}

func convertLiabilities(liabilities []*models.Liability, baseCurrency string, rates RateConverter) ([]*models.Liability, error) {
	out := make([]*models.Liability, len(liabilities))
	for i, l := range liabilities {
		if l.CurrencyCode == baseCurrency {
			out[i] = l
			continue
		}
		balance, err := rates.Convert(l.CurrentBalance, l.CurrencyCode, baseCurrency)
		if err != nil {
			return nil, fmt.Errorf("liability %s: %w", l.ID, err)
		}
		converted := *l
		converted.CurrentBalance = balance
		converted.CurrencyCode = baseCurrency
		out[i] = &converted
	}
	return out, nil
}

func convertLoans(loans []*models.Loan, baseCurrency string, rates RateConverter) ([]*models.Loan, error) {
	out := make([]*models.Loan, len(loans))
	for i, l := range loans {
		if l.CurrencyCode == baseCurrency {
			out[i] = l
			continue
		}
		balance, err := rates.Convert(l.CurrentBalance, l.CurrencyCode, baseCurrency)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", l.ID, err)
		}
		converted := *l
		converted.CurrentBalance = balance
		converted.CurrencyCode = baseCurrency
		out[i] = &converted
	}
	return out, nil
}
