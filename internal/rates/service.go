// Package rates implements the rate lookup policy on top of the PTAX
// provider: the BRL short-circuit, the SDR market-rate policy, the
// bounded backward search for a closing bulletin and the per-run result
// cache.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"dividas/internal/cache"
	"dividas/internal/core"
	"dividas/internal/log"
	"dividas/internal/ptax"
)

// RateField selects which side of the PTAX quotation is used for the
// whole run.
type RateField string

const (
	FieldBuy  RateField = "buy"
	FieldSell RateField = "sell"
)

// lookupWindowDays bounds the backward search: the reference date itself
// plus the four preceding calendar days.
const lookupWindowDays = 5

// Service resolves exchange rates for contract currencies. Results,
// including unavailable ones, are cached keyed by (currency, reference
// date) for the cache's TTL to bound calls to the provider.
type Service struct {
	provider   ptax.Provider
	cache      cache.Cache[core.RateQuote]
	field      RateField
	includeSDR bool
	logger     *log.Logger
}

// NewService creates a rate lookup service. includeSDR false makes XDR
// resolve to not-applicable without touching the provider.
func NewService(provider ptax.Provider, c cache.Cache[core.RateQuote], field RateField, includeSDR bool, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default(log.ComponentRates)
	}
	return &Service{
		provider:   provider,
		cache:      c,
		field:      field,
		includeSDR: includeSDR,
		logger:     logger,
	}
}

// Lookup returns the conversion rate for a currency at the reference
// date. It walks backward one calendar day at a time until a closing
// bulletin is found, giving up after lookupWindowDays days. Provider
// errors on a single day are logged and absorbed; they never abort the
// search.
func (s *Service) Lookup(ctx context.Context, code core.CurrencyCode, refDate time.Time) core.RateQuote {
	if code == core.BRL {
		return core.RateQuote{Status: core.RateOK, Rate: decimal.NewFromInt(1)}
	}
	if code == core.XDR && !s.includeSDR {
		return core.RateQuote{Status: core.RateNotApplicable}
	}

	key := fmt.Sprintf("%s:%s", code, refDate.Format("2006-01-02"))
	if quote, ok := s.cache.Get(key); ok {
		return quote
	}

	for i := 0; i < lookupWindowDays; i++ {
		day := refDate.AddDate(0, 0, -i)

		quotes, err := s.provider.QuotationsForDay(ctx, string(code), day)
		if err != nil {
			s.logger.WarnContext(ctx, "Erro ao buscar cotação, tentando dia anterior",
				log.FieldCurrency, string(code),
				log.FieldLookupDate, day.Format("2006-01-02"),
				log.FieldError, err)
			continue
		}

		// Only the official closing bulletin converts; when the provider
		// returns more than one for a day the last wins.
		var closing *ptax.Quotation
		for j := range quotes {
			if quotes[j].IsClosing() {
				closing = &quotes[j]
			}
		}
		if closing == nil {
			continue
		}

		rate := closing.Buy
		if s.field == FieldSell {
			rate = closing.Sell
		}
		quote := core.RateQuote{Status: core.RateOK, Rate: rate, Date: day}
		s.cache.Set(key, quote)

		s.logger.InfoContext(ctx, "Cotação encontrada",
			log.FieldCurrency, string(code),
			log.FieldRate, rate.String(),
			log.FieldQuoteDate, day.Format("2006-01-02"))
		return quote
	}

	s.logger.ErrorContext(ctx, "Não foi possível obter cotação",
		log.FieldCurrency, string(code),
		log.FieldReferenceDate, refDate.Format("2006-01-02"))

	quote := core.RateQuote{Status: core.RateUnavailable}
	s.cache.Set(key, quote)
	return quote
}
