// Package services orchestrates the debt-summary pipeline: filter and
// aggregate the export, resolve the RREO reference date once, look up
// one rate per currency and assemble the summary table.
package services

import (
	"context"
	"sort"
	"time"

	"dividas/internal/core"
	"dividas/internal/log"
)

// RateLookup resolves the conversion rate for one currency at the
// reference date.
type RateLookup interface {
	Lookup(ctx context.Context, code core.CurrencyCode, refDate time.Time) core.RateQuote
}

// SummaryService builds the per-currency release summary.
type SummaryService struct {
	rates  RateLookup
	logger *log.Logger

	// Now is the clock used to resolve the reference date; tests
	// override it.
	Now func() time.Time
}

func NewSummaryService(rates RateLookup, logger *log.Logger) *SummaryService {
	if logger == nil {
		logger = log.Default(log.ComponentSummary)
	}
	return &SummaryService{
		rates:  rates,
		logger: logger,
		Now:    time.Now,
	}
}

// BuildSummary runs the pipeline over the parsed records. It returns
// core.ErrNoRecords when nothing passes the filter. Currencies are
// processed in ascending name order; unmapped currency names are logged
// and skipped, the rest of the run continues.
//
// Conversion policy: an unavailable rate keeps the raw aggregated amount
// as the BRL value and still counts toward the total. This mirrors the
// filing workflow this service replaces; the row is flagged by its
// quote status so the presentation can mark the rate and date as
// missing.
func (s *SummaryService) BuildSummary(ctx context.Context, records []core.DebtRecord) (*core.Summary, error) {
	totals, err := core.Aggregate(records)
	if err != nil {
		return nil, err
	}

	refDate := core.ResolveReferenceDate(s.Now())
	s.logger.InfoContext(ctx, "Data de referência calculada",
		log.FieldReferenceDate, refDate.Format("2006-01-02"))

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	summary := &core.Summary{ReferenceDate: refDate}
	for _, name := range names {
		code, ok := core.CodeForCurrency(name)
		if !ok {
			s.logger.WarnContext(ctx, "Moeda não mapeada, ignorando",
				log.FieldCurrencyName, name)
			continue
		}

		amount := totals[name]
		quote := s.rates.Lookup(ctx, code, refDate)

		row := core.SummaryRow{Currency: name, Amount: amount, Quote: quote}
		switch quote.Status {
		case core.RateOK:
			row.ValueBRL = amount.Mul(quote.Rate)
			row.Converted = true
		case core.RateUnavailable:
			row.ValueBRL = amount
			row.Converted = true
		case core.RateNotApplicable:
			// No BRL value; the row still appears, excluded from the total.
		}
		if row.Converted {
			summary.Total = summary.Total.Add(row.ValueBRL)
		}
		summary.Rows = append(summary.Rows, row)

		s.logger.InfoContext(ctx, "Moeda processada",
			log.FieldCurrencyName, name,
			log.FieldAmount, amount.String(),
			log.FieldValueBRL, row.ValueBRL.String())
	}

	s.logger.InfoContext(ctx, "Processamento concluído",
		log.FieldRecordCount, len(summary.Rows),
		log.FieldValueBRL, summary.Total.String())
	return summary, nil
}
