// Package ingest decodes the semicolon-delimited, cp1252-encoded CDP
// debt export and validates its structure. The full raw table is kept
// alongside the parsed records so the spreadsheet report can reproduce
// and annotate the original file.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"dividas/internal/core"
)

// Required CDP export columns, matched by exact trimmed name in any order.
const (
	ColDebtType   = "Tipo de dívida"
	ColDebtStatus = "Situação da dívida"
	ColAmount     = "Valor a liberar ou assumir (na moeda de contratação)"
	ColCurrency   = "Moeda da contratação, emissão ou assunção"
)

// RequiredColumns lists the columns the pipeline depends on.
var RequiredColumns = []string{ColDebtType, ColDebtStatus, ColAmount, ColCurrency}

// ValidationError reports required columns missing from the export. It is
// fatal: no partial processing happens.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "o arquivo CSV não possui as colunas obrigatórias: " + strings.Join(e.Missing, ", ")
}

// Dataset is one decoded CDP export: the raw table plus the parsed debt
// records. Record.Row indexes into Rows.
type Dataset struct {
	Header  []string
	Rows    [][]string
	Records []core.DebtRecord

	columns map[string]int
}

// ColumnIndex returns the zero-based position of a column by trimmed name.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.columns[name]
	return i, ok
}

// Parse decodes the export from its cp1252 bytes, validates the required
// columns and builds the debt records. Amount cells that do not parse as
// locale-formatted numbers become zero, which the filter later discards.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ler CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, &ValidationError{Missing: RequiredColumns}
	}

	header := make([]string, len(all[0]))
	columns := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[i] = strings.TrimSpace(name)
		columns[header[i]] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slog.Error("Colunas obrigatórias ausentes no CSV", "missing", missing)
		return nil, &ValidationError{Missing: missing}
	}

	ds := &Dataset{
		Header:  header,
		Rows:    all[1:],
		columns: columns,
	}

	typeCol := columns[ColDebtType]
	statusCol := columns[ColDebtStatus]
	amountCol := columns[ColAmount]
	currencyCol := columns[ColCurrency]

	for i, row := range ds.Rows {
		record := core.DebtRecord{Row: i}
		if typeCol < len(row) {
			record.Type = strings.TrimSpace(row[typeCol])
		}
		if statusCol < len(row) {
			record.Status = strings.TrimSpace(row[statusCol])
		}
		if currencyCol < len(row) {
			record.CurrencyName = strings.TrimSpace(row[currencyCol])
		}
		if amountCol < len(row) {
			if amount, err := core.ParseNumberBR(row[amountCol]); err == nil {
				record.Amount = amount
			}
		}
		ds.Records = append(ds.Records, record)
	}

	slog.Info("CSV decodificado", "rows", len(ds.Rows), "columns", len(header))
	return ds, nil
}
