// Package ptax integrates with the Banco Central do Brasil PTAX service
// (Olinda OData API) to fetch official daily exchange quotations.
package ptax

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"dividas/internal/log"
)

// DefaultBaseURL is the public Olinda endpoint for the PTAX service.
const DefaultBaseURL = "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata"

// ClosingBulletin tags the official end-of-day quotation. Intraday
// bulletins carry other values and are not accepted for conversion.
const ClosingBulletin = "Fechamento PTAX"

// Quotation is one PTAX bulletin entry for a currency and day.
type Quotation struct {
	Buy       decimal.Decimal `json:"cotacaoCompra"`
	Sell      decimal.Decimal `json:"cotacaoVenda"`
	Timestamp string          `json:"dataHoraCotacao"`
	Bulletin  string          `json:"tipoBoletim"`
}

// IsClosing reports whether this entry is the official closing bulletin.
func (q Quotation) IsClosing() bool {
	return q.Bulletin == ClosingBulletin
}

// Provider returns all PTAX bulletins published for a currency on a day.
// An empty slice with a nil error means no bulletin was published.
type Provider interface {
	QuotationsForDay(ctx context.Context, currency string, day time.Time) ([]Quotation, error)
}

// Client is the HTTP Provider backed by the Olinda OData API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a PTAX client. An empty baseURL selects the public
// endpoint and a nil httpClient gets a 15s-timeout default.
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = log.Default(log.ComponentPTAX)
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

type quotationEnvelope struct {
	Value []Quotation `json:"value"`
}

// QuotationsForDay queries CotacaoMoedaDia for one currency and day. The
// service expects the date in month-day-year order.
func (c *Client) QuotationsForDay(ctx context.Context, currency string, day time.Time) ([]Quotation, error) {
	endpoint := fmt.Sprintf(
		"%s/CotacaoMoedaDia(moeda=@moeda,dataCotacao=@dataCotacao)?@moeda=%s&@dataCotacao=%s&$format=json",
		c.baseURL,
		url.QueryEscape("'"+currency+"'"),
		url.QueryEscape("'"+day.Format("01-02-2006")+"'"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build ptax request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query ptax: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ptax returned status %d for %s at %s",
			resp.StatusCode, currency, day.Format("2006-01-02"))
	}

	var envelope quotationEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode ptax response: %w", err)
	}

	c.logger.DebugContext(ctx, "Consulta PTAX concluída",
		log.FieldCurrency, currency,
		log.FieldLookupDate, day.Format("2006-01-02"),
		log.FieldRecordCount, len(envelope.Value))

	return envelope.Value, nil
}
