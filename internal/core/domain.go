package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyCode identifies a contract currency in the PTAX service.
type CurrencyCode string

const (
	BRL CurrencyCode = "BRL"
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	XDR CurrencyCode = "XDR"
	JPY CurrencyCode = "JPY"
)

// RateStatus tags the outcome of a rate lookup.
type RateStatus int

const (
	// RateOK means a closing quotation was found for some day in the
	// lookup window.
	RateOK RateStatus = iota
	// RateUnavailable means no closing quotation was published on any
	// day of the lookup window.
	RateUnavailable
	// RateNotApplicable means the currency has no market rate in the
	// provider (SDR, when disabled by configuration).
	RateNotApplicable
)

type (
	// DebtRecord is one row of the CDP export. Amounts are kept in the
	// contract currency; Row points back into the raw dataset so the
	// spreadsheet report can highlight the source line.
	DebtRecord struct {
		Type         string
		Status       string
		Amount       decimal.Decimal
		CurrencyName string
		Row          int
	}

	// RateQuote is the result of one rate lookup. Rate and Date are only
	// meaningful when Status is RateOK; Date may be earlier than the
	// requested reference date when the backward search had to step back.
	RateQuote struct {
		Status RateStatus
		Rate   decimal.Decimal
		Date   time.Time
	}

	// SummaryRow is one line of the per-currency summary. Converted is
	// false only for not-applicable rows, which carry no BRL value.
	SummaryRow struct {
		Currency  string
		Amount    decimal.Decimal
		Quote     RateQuote
		ValueBRL  decimal.Decimal
		Converted bool
	}

	// Summary is the output of one processing run.
	Summary struct {
		ReferenceDate time.Time
		Rows          []SummaryRow
		Total         decimal.Decimal
	}
)

// TotalLabel is the currency column label of the synthetic total row.
const TotalLabel = "TOTAL"

// ErrNoRecords signals that no record passed the filter criteria. It is a
// distinct "nothing to report" outcome, not a processing failure.
var ErrNoRecords = errors.New("nenhum registro atende aos critérios de filtragem")

// currencyCodes maps the CDP currency names to PTAX codes.
var currencyCodes = map[string]CurrencyCode{
	"Real":                  BRL,
	"Dólar dos EUA":         USD,
	"Euro":                  EUR,
	"Direito Especial - SDR": XDR,
	"Iene":                  JPY,
}

// currencySymbols maps the CDP currency names to display symbols.
var currencySymbols = map[string]string{
	"Real":                  "R$",
	"Dólar dos EUA":         "US$",
	"Euro":                  "€",
	"Direito Especial - SDR": "SDR",
	"Iene":                  "¥",
}

// CodeForCurrency resolves a CDP currency name to its PTAX code.
func CodeForCurrency(name string) (CurrencyCode, bool) {
	code, ok := currencyCodes[name]
	return code, ok
}

// SymbolForCurrency returns the display symbol for a CDP currency name,
// or the empty string when the name is unknown.
func SymbolForCurrency(name string) string {
	return currencySymbols[name]
}
