package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkhare/finbook/internal/calculator"
	"github.com/mkhare/finbook/internal/models"
	"github.com/mkhare/finbook/internal/service"
)

// tenantHeader carries the tenant scope for every request. There is no
// authentication layer here; callers are trusted to identify themselves.
const tenantHeader = "X-Tenant-ID"

// registerReadRoutes exposes the derived views as JSON endpoints. Net
// worth is reported in the base currency; holdings in other currencies
// convert through the rates configured via EXCHANGE_RATES.
func registerReadRoutes(mux *http.ServeMux, ledger *service.LedgerService, social *service.SocialService, reports *service.ReportService, baseCurrency string, rates *service.StaticRates) {
	mux.HandleFunc("GET /v1/accounts/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(tenantHeader)
		result, err := ledger.AccountBalance(r.Context(), tenantID, r.PathValue("id"), calculator.BalanceOptions{})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"balance":           result.Balance,
			"total_credits":     result.TotalCredits,
			"total_debits":      result.TotalDebits,
			"transaction_count": result.TransactionCount,
		})
	})

	mux.HandleFunc("GET /v1/networth", func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(tenantHeader)
		result, err := reports.NetWorth(r.Context(), tenantID, baseCurrency, rates)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"currency":          baseCurrency,
			"total_assets":      result.TotalAssets,
			"total_liabilities": result.TotalLiabilities,
			"net_worth":         result.NetWorth,
		})
	})

	mux.HandleFunc("GET /v1/contacts/balances", func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(tenantHeader)
		currency := r.URL.Query().Get("currency")
		if currency == "" {
			currency = baseCurrency
		}
		balances, err := social.ContactBalances(r.Context(), tenantID, currency)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, balances)
	})

	mux.HandleFunc("GET /v1/groups/{id}/balances", func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(tenantHeader)
		result, err := social.GroupBalances(r.Context(), tenantID, r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	})

	mux.HandleFunc("GET /v1/groups/{id}/simplify", func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(tenantHeader)
		transfers, err := social.SimplifyGroupDebts(r.Context(), tenantID, r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, transfers)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, models.ErrNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
