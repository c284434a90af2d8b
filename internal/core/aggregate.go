package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter criteria for the CDP export, compared case-insensitively after
// trimming.
const (
	debtTypeLoan     = "empréstimo ou financiamento"
	debtStatusActive = "vigente"
)

// MatchesFilter reports whether a record enters the summary: an active
// loan or financing with a positive amount to release.
func MatchesFilter(r DebtRecord) bool {
	return strings.EqualFold(strings.TrimSpace(r.Type), debtTypeLoan) &&
		strings.EqualFold(strings.TrimSpace(r.Status), debtStatusActive) &&
		r.Amount.IsPositive()
}

// Aggregate filters the records and sums amounts per contract currency
// name. It returns ErrNoRecords when nothing survives the filter, which
// halts the pipeline with a "nothing to report" outcome.
func Aggregate(records []DebtRecord) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		if !MatchesFilter(r) {
			continue
		}
		totals[r.CurrencyName] = totals[r.CurrencyName].Add(r.Amount)
	}
	if len(totals) == 0 {
		return nil, ErrNoRecords
	}
	return totals, nil
}
