package http

import (
	"time"

	"dividas/internal/core"
)

// summaryView is the template model for the on-screen summary table.
type summaryView struct {
	Rows          []summaryViewRow
	CurrencyCount int
	ProcessedAt   string
	ReferenceDate string
}

type summaryViewRow struct {
	Currency  string
	Amount    string
	Rate      string
	QuoteDate string
	ValueBRL  string
	IsTotal   bool
}

// buildSummaryView formats the summary for display in the Brazilian
// convention: currency symbols on amounts, 5-decimal rates, dd/mm/yyyy
// quotation dates and "-" markers where no value applies.
func buildSummaryView(sum *core.Summary, now time.Time) summaryView {
	view := summaryView{
		CurrencyCount: len(sum.Rows),
		ProcessedAt:   now.Format("02/01/2006 às 15:04:05"),
		ReferenceDate: sum.ReferenceDate.Format("02/01/2006"),
	}

	for _, row := range sum.Rows {
		vr := summaryViewRow{Currency: row.Currency}

		symbol := core.SymbolForCurrency(row.Currency)
		if symbol != "" {
			symbol += " "
		}
		vr.Amount = symbol + core.FormatNumberBR(row.Amount, 2)

		switch row.Quote.Status {
		case core.RateOK:
			vr.Rate = core.FormatNumberBR(row.Quote.Rate, 5)
			if row.Quote.Date.IsZero() {
				// BRL quotes at par with no external lookup and no date.
				vr.QuoteDate = "-"
			} else {
				vr.QuoteDate = row.Quote.Date.Format("02/01/2006")
			}
		default:
			vr.Rate = "-"
			vr.QuoteDate = "-"
		}

		if row.Converted {
			vr.ValueBRL = "R$ " + core.FormatNumberBR(row.ValueBRL, 2)
		} else {
			vr.ValueBRL = "N/A"
		}
		view.Rows = append(view.Rows, vr)
	}

	view.Rows = append(view.Rows, summaryViewRow{
		Currency:  core.TotalLabel,
		Amount:    "-",
		Rate:      "-",
		QuoteDate: "-",
		ValueBRL:  "R$ " + core.FormatNumberBR(sum.Total, 2),
		IsTotal:   true,
	})
	return view
}
