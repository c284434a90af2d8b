package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// encodeCP1252 produces the byte stream the CDP actually exports.
func encodeCP1252(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, charmap.Windows1252.NewEncoder())
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return buf.Bytes()
}

const fixtureHeader = "Ente;Tipo de dívida;Situação da dívida;" +
	"Valor a liberar ou assumir (na moeda de contratação);Moeda da contratação, emissão ou assunção"

func TestParse(t *testing.T) {
	csv := fixtureHeader + "\n" +
		"Município A;Empréstimo ou financiamento;Vigente;1.234,56;Dólar dos EUA\n" +
		"Município B;Emissão de títulos;Vigente;500,00;Euro\n"

	ds, err := Parse(bytes.NewReader(encodeCP1252(t, csv)))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(ds.Rows) != 2 || len(ds.Records) != 2 {
		t.Fatalf("got %d rows / %d records, want 2 / 2", len(ds.Rows), len(ds.Records))
	}

	r := ds.Records[0]
	if r.Type != "Empréstimo ou financiamento" || r.Status != "Vigente" {
		t.Fatalf("record fields not decoded: %+v", r)
	}
	if r.CurrencyName != "Dólar dos EUA" {
		t.Fatalf("currency = %q, want accented name intact", r.CurrencyName)
	}
	if !r.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("amount = %s, want 1234.56", r.Amount)
	}

	if i, ok := ds.ColumnIndex(ColAmount); !ok || i != 3 {
		t.Fatalf("ColumnIndex(amount) = (%d, %v), want (3, true)", i, ok)
	}
}

func TestParseHeaderWhitespace(t *testing.T) {
	csv := " Tipo de dívida ; Situação da dívida ;" +
		" Valor a liberar ou assumir (na moeda de contratação) ; Moeda da contratação, emissão ou assunção \n" +
		"Empréstimo ou financiamento;Vigente;100,00;Real\n"

	ds, err := Parse(bytes.NewReader(encodeCP1252(t, csv)))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(ds.Records) != 1 || ds.Records[0].CurrencyName != "Real" {
		t.Fatalf("trimmed headers not matched: %+v", ds.Records)
	}
}

func TestParseMissingColumns(t *testing.T) {
	csv := "Ente;Tipo de dívida;Valor qualquer\nA;B;C\n"

	_, err := Parse(bytes.NewReader(encodeCP1252(t, csv)))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 3 {
		t.Fatalf("missing = %v, want 3 columns", verr.Missing)
	}
	for _, name := range []string{ColDebtStatus, ColAmount, ColCurrency} {
		if !strings.Contains(verr.Error(), name) {
			t.Fatalf("error %q does not name missing column %q", verr.Error(), name)
		}
	}
}

func TestParseUnparseableAmount(t *testing.T) {
	csv := fixtureHeader + "\n" +
		"A;Empréstimo ou financiamento;Vigente;n/d;Euro\n"

	ds, err := Parse(bytes.NewReader(encodeCP1252(t, csv)))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !ds.Records[0].Amount.IsZero() {
		t.Fatalf("unparseable amount = %s, want zero", ds.Records[0].Amount)
	}
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(bytes.NewReader(nil))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty input, got %v", err)
	}
}
