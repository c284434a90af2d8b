package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"dividas/internal/core"
	"dividas/internal/ingest"
)

const fixtureCSV = "Ente;Tipo de dívida;Situação da dívida;" +
	"Valor a liberar ou assumir (na moeda de contratação);Moeda da contratação, emissão ou assunção;Observação\n" +
	"Município A;Empréstimo ou financiamento;Vigente;1.000,00;Dólar dos EUA;x\n" +
	"Município B;Empréstimo ou financiamento;Vigente;2.000,00;Dólar dos EUA;y\n" +
	"Município C;Emissão de títulos;Vigente;500,00;Euro;z\n"

func fixtureDataset(t *testing.T) *ingest.Dataset {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, charmap.Windows1252.NewEncoder())
	if _, err := w.Write([]byte(fixtureCSV)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	ds, err := ingest.Parse(&buf)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return ds
}

func fixtureSummary() *core.Summary {
	refDate := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	return &core.Summary{
		ReferenceDate: refDate,
		Rows: []core.SummaryRow{
			{
				Currency:  "Dólar dos EUA",
				Amount:    decimal.NewFromInt(3000),
				Quote:     core.RateQuote{Status: core.RateOK, Rate: decimal.NewFromFloat(5.0), Date: refDate},
				ValueBRL:  decimal.NewFromInt(15000),
				Converted: true,
			},
		},
		Total: decimal.NewFromInt(15000),
	}
}

func TestWorkbook(t *testing.T) {
	ds := fixtureDataset(t)
	f, err := Workbook(ds, fixtureSummary())
	if err != nil {
		t.Fatalf("Workbook returned error: %v", err)
	}
	defer f.Close()

	// Raw table header and first data row survive intact.
	if got, _ := f.GetCellValue(SheetName, "B1"); got != ingest.ColDebtType {
		t.Fatalf("B1 = %q, want debt type header", got)
	}
	if got, _ := f.GetCellValue(SheetName, "A2"); got != "Município A" {
		t.Fatalf("A2 = %q, want first data row", got)
	}

	// Disbursement column D is numeric so the subtotal can sum it.
	formula, err := f.GetCellFormula(SheetName, "D5")
	if err != nil {
		t.Fatalf("GetCellFormula: %v", err)
	}
	if formula != "SUBTOTAL(9,D2:D4)" {
		t.Fatalf("subtotal formula = %q, want SUBTOTAL(9,D2:D4)", formula)
	}

	// Summary block sits below the table with its value column on D.
	if got, _ := f.GetCellValue(SheetName, "C7"); got != "Moeda" {
		t.Fatalf("C7 = %q, want summary header Moeda", got)
	}
	if got, _ := f.GetCellValue(SheetName, "D7"); got != "Valor a Liberar" {
		t.Fatalf("D7 = %q, want Valor a Liberar aligned with disbursement column", got)
	}
	if got, _ := f.GetCellValue(SheetName, "C8"); got != "Dólar dos EUA" {
		t.Fatalf("C8 = %q, want summary currency", got)
	}
	if got, _ := f.GetCellValue(SheetName, "C9"); got != core.TotalLabel {
		t.Fatalf("C9 = %q, want TOTAL row", got)
	}

	// Auxiliary columns are hidden, required ones stay visible.
	visible, err := f.GetColVisible(SheetName, "A")
	if err != nil {
		t.Fatalf("GetColVisible: %v", err)
	}
	if visible {
		t.Fatal("column A (Ente) should be hidden")
	}
	for _, col := range []string{"B", "C", "D", "E"} {
		visible, err := f.GetColVisible(SheetName, col)
		if err != nil {
			t.Fatalf("GetColVisible(%s): %v", col, err)
		}
		if !visible {
			t.Fatalf("required column %s should stay visible", col)
		}
	}
}

func TestWorkbookUnavailableMarkers(t *testing.T) {
	ds := fixtureDataset(t)
	sum := &core.Summary{
		ReferenceDate: time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		Rows: []core.SummaryRow{
			{
				Currency:  "Iene",
				Amount:    decimal.NewFromInt(500),
				Quote:     core.RateQuote{Status: core.RateUnavailable},
				ValueBRL:  decimal.NewFromInt(500),
				Converted: true,
			},
			{
				Currency: "Direito Especial - SDR",
				Amount:   decimal.NewFromInt(100),
				Quote:    core.RateQuote{Status: core.RateNotApplicable},
			},
		},
		Total: decimal.NewFromInt(500),
	}

	f, err := Workbook(ds, sum)
	if err != nil {
		t.Fatalf("Workbook returned error: %v", err)
	}
	defer f.Close()

	// Unavailable rate and date show the "-" marker.
	if got, _ := f.GetCellValue(SheetName, "E8"); got != "-" {
		t.Fatalf("E8 = %q, want - for unavailable rate", got)
	}
	if got, _ := f.GetCellValue(SheetName, "F8"); got != "-" {
		t.Fatalf("F8 = %q, want - for unavailable date", got)
	}
	// Not-applicable BRL value shows N/A.
	if got, _ := f.GetCellValue(SheetName, "G9"); got != "N/A" {
		t.Fatalf("G9 = %q, want N/A for not-applicable value", got)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, time.August, 15, 14, 30, 5, 0, time.UTC)
	got := Filename(now)
	if got != "resumo_dividas_20250815_143005.xlsx" {
		t.Fatalf("Filename = %q", got)
	}
	if !strings.HasSuffix(got, ".xlsx") {
		t.Fatalf("Filename %q missing extension", got)
	}
}
