// Package report renders the downloadable Excel workbook: the original
// CDP table with the qualifying rows highlighted, followed by the
// per-currency summary aligned under the disbursement column.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"dividas/internal/core"
	"dividas/internal/ingest"
)

const SheetName = "Dívidas"

// currencyFills gives each contract currency its highlight color, used
// both on matched rows of the raw table and on summary rows.
var currencyFills = map[string]string{
	"Real":                  "C6EFCE",
	"Dólar dos EUA":         "DDEBF7",
	"Euro":                  "FFF2CC",
	"Direito Especial - SDR": "FCE4D6",
	"Iene":                  "E4DFEC",
}

const (
	headerFill   = "1F77B4"
	amountFormat = `#,##0.00`
	rateFormat   = `#,##0.00000`
)

// summaryHeader matches the on-screen table columns.
var summaryHeader = []string{"Moeda", "Valor a Liberar", "Cotação", "Data da Cotação", "Valor em BRL"}

// Workbook builds the report for one processed dataset. The caller owns
// closing the returned file.
func Workbook(ds *ingest.Dataset, sum *core.Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	amountCol, _ := ds.ColumnIndex(ingest.ColAmount)

	if err := writeRawTable(f, ds, amountCol); err != nil {
		return nil, err
	}
	if err := highlightMatches(f, ds); err != nil {
		return nil, err
	}
	if err := writeSubtotal(f, ds, amountCol); err != nil {
		return nil, err
	}
	if err := writeSummaryBlock(f, ds, sum, amountCol); err != nil {
		return nil, err
	}
	if err := hideAuxiliaryColumns(f, ds, amountCol); err != nil {
		return nil, err
	}
	return f, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func writeRawTable(f *excelize.File, ds *ingest.Dataset, amountCol int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(amountFormat)})
	if err != nil {
		return fmt.Errorf("number style: %w", err)
	}

	for i, name := range ds.Header {
		if err := f.SetCellValue(SheetName, cellName(i, 1), name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if len(ds.Header) > 0 {
		if err := f.SetCellStyle(SheetName, cellName(0, 1), cellName(len(ds.Header)-1, 1), headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for r, row := range ds.Rows {
		for c, value := range row {
			cell := cellName(c, r+2)
			// The disbursement column is written numerically so the
			// subtotal formula can sum it.
			if c == amountCol {
				if amount, err := core.ParseNumberBR(value); err == nil {
					if err := f.SetCellValue(SheetName, cell, amount.InexactFloat64()); err != nil {
						return fmt.Errorf("write amount: %w", err)
					}
					if err := f.SetCellStyle(SheetName, cell, cell, numberStyle); err != nil {
						return fmt.Errorf("style amount: %w", err)
					}
					continue
				}
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
	}

	if len(ds.Header) > 0 {
		rangeRef := fmt.Sprintf("%s:%s", cellName(0, 1), cellName(len(ds.Header)-1, len(ds.Rows)+1))
		if err := f.AutoFilter(SheetName, rangeRef, nil); err != nil {
			return fmt.Errorf("auto filter: %w", err)
		}
	}
	return nil
}

func highlightMatches(f *excelize.File, ds *ingest.Dataset) error {
	styles := make(map[string]int, len(currencyFills))
	for _, record := range ds.Records {
		if !core.MatchesFilter(record) {
			continue
		}
		color, ok := currencyFills[record.CurrencyName]
		if !ok {
			continue
		}
		styleID, ok := styles[record.CurrencyName]
		if !ok {
			var err error
			styleID, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			})
			if err != nil {
				return fmt.Errorf("highlight style: %w", err)
			}
			styles[record.CurrencyName] = styleID
		}
		row := record.Row + 2
		if err := f.SetCellStyle(SheetName, cellName(0, row), cellName(len(ds.Header)-1, row), styleID); err != nil {
			return fmt.Errorf("highlight row %d: %w", row, err)
		}
	}
	return nil
}

// writeSubtotal places a filter-aware SUBTOTAL over the disbursement
// column directly below the raw table.
func writeSubtotal(f *excelize.File, ds *ingest.Dataset, amountCol int) error {
	row := len(ds.Rows) + 2
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: ptr(amountFormat),
	})
	if err != nil {
		return fmt.Errorf("subtotal style: %w", err)
	}

	typeCol, _ := ds.ColumnIndex(ingest.ColDebtType)
	if err := f.SetCellValue(SheetName, cellName(typeCol, row), "Subtotal (linhas visíveis)"); err != nil {
		return fmt.Errorf("subtotal label: %w", err)
	}

	cell := cellName(amountCol, row)
	formula := fmt.Sprintf("SUBTOTAL(9,%s:%s)", cellName(amountCol, 2), cellName(amountCol, len(ds.Rows)+1))
	if err := f.SetCellFormula(SheetName, cell, formula); err != nil {
		return fmt.Errorf("subtotal formula: %w", err)
	}
	if err := f.SetCellStyle(SheetName, cell, cell, boldStyle); err != nil {
		return fmt.Errorf("style subtotal: %w", err)
	}
	return nil
}

// summaryBaseCol anchors the summary block so that its value column
// lands on the original disbursement column.
func summaryBaseCol(amountCol int) int {
	if amountCol < 1 {
		return 1
	}
	return amountCol
}

func writeSummaryBlock(f *excelize.File, ds *ingest.Dataset, sum *core.Summary, amountCol int) error {
	base := summaryBaseCol(amountCol)
	startRow := len(ds.Rows) + 4

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("summary header style: %w", err)
	}
	rateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(rateFormat)})
	if err != nil {
		return fmt.Errorf("rate style: %w", err)
	}

	for i, name := range summaryHeader {
		if err := f.SetCellValue(SheetName, cellName(base-1+i, startRow), name); err != nil {
			return fmt.Errorf("summary header: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetName, cellName(base-1, startRow), cellName(base+3, startRow), headerStyle); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}

	for i, row := range sum.Rows {
		r := startRow + 1 + i

		if err := f.SetCellValue(SheetName, cellName(base-1, r), row.Currency); err != nil {
			return fmt.Errorf("summary currency: %w", err)
		}

		symbolStyle, err := currencyAmountStyle(f, core.SymbolForCurrency(row.Currency), currencyFills[row.Currency])
		if err != nil {
			return err
		}
		amountCell := cellName(base, r)
		if err := f.SetCellValue(SheetName, amountCell, row.Amount.InexactFloat64()); err != nil {
			return fmt.Errorf("summary amount: %w", err)
		}
		if err := f.SetCellStyle(SheetName, amountCell, amountCell, symbolStyle); err != nil {
			return fmt.Errorf("style summary amount: %w", err)
		}

		rateCell := cellName(base+1, r)
		dateCell := cellName(base+2, r)
		switch row.Quote.Status {
		case core.RateOK:
			if err := f.SetCellValue(SheetName, rateCell, row.Quote.Rate.InexactFloat64()); err != nil {
				return fmt.Errorf("summary rate: %w", err)
			}
			if err := f.SetCellStyle(SheetName, rateCell, rateCell, rateStyle); err != nil {
				return fmt.Errorf("style summary rate: %w", err)
			}
			if err := f.SetCellValue(SheetName, dateCell, quoteDateLabel(row.Quote.Date)); err != nil {
				return fmt.Errorf("summary date: %w", err)
			}
		default:
			if err := f.SetCellValue(SheetName, rateCell, "-"); err != nil {
				return fmt.Errorf("summary rate marker: %w", err)
			}
			if err := f.SetCellValue(SheetName, dateCell, "-"); err != nil {
				return fmt.Errorf("summary date marker: %w", err)
			}
		}

		brlCell := cellName(base+3, r)
		if row.Converted {
			brlStyle, err := currencyAmountStyle(f, "R$", currencyFills[row.Currency])
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, brlCell, row.ValueBRL.InexactFloat64()); err != nil {
				return fmt.Errorf("summary BRL value: %w", err)
			}
			if err := f.SetCellStyle(SheetName, brlCell, brlCell, brlStyle); err != nil {
				return fmt.Errorf("style summary BRL: %w", err)
			}
		} else {
			if err := f.SetCellValue(SheetName, brlCell, "N/A"); err != nil {
				return fmt.Errorf("summary BRL marker: %w", err)
			}
		}

		if fill, ok := currencyFills[row.Currency]; ok {
			fillStyle, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			})
			if err != nil {
				return fmt.Errorf("summary fill style: %w", err)
			}
			// Only the non-numeric cells; the amount cells already carry
			// their fill inside the number styles.
			if err := f.SetCellStyle(SheetName, cellName(base-1, r), cellName(base-1, r), fillStyle); err != nil {
				return fmt.Errorf("style summary row: %w", err)
			}
		}
	}

	totalRow := startRow + 1 + len(sum.Rows)
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: ptr(`"R$" ` + amountFormat),
		Border:       []excelize.Border{{Type: "top", Style: 2, Color: headerFill}},
	})
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}
	totalLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Style: 2, Color: headerFill}},
	})
	if err != nil {
		return fmt.Errorf("total label style: %w", err)
	}

	if err := f.SetCellValue(SheetName, cellName(base-1, totalRow), core.TotalLabel); err != nil {
		return fmt.Errorf("total label: %w", err)
	}
	if err := f.SetCellStyle(SheetName, cellName(base-1, totalRow), cellName(base+2, totalRow), totalLabelStyle); err != nil {
		return fmt.Errorf("style total label: %w", err)
	}
	totalCell := cellName(base+3, totalRow)
	if err := f.SetCellValue(SheetName, totalCell, sum.Total.InexactFloat64()); err != nil {
		return fmt.Errorf("total value: %w", err)
	}
	if err := f.SetCellStyle(SheetName, totalCell, totalCell, totalStyle); err != nil {
		return fmt.Errorf("style total: %w", err)
	}
	return nil
}

// hideAuxiliaryColumns hides export columns the filing does not need,
// keeping the four required ones and the span occupied by the summary
// block.
func hideAuxiliaryColumns(f *excelize.File, ds *ingest.Dataset, amountCol int) error {
	keep := make(map[int]bool, len(ingest.RequiredColumns)+5)
	for _, name := range ingest.RequiredColumns {
		if i, ok := ds.ColumnIndex(name); ok {
			keep[i] = true
		}
	}
	base := summaryBaseCol(amountCol)
	for c := base - 1; c <= base+3; c++ {
		keep[c] = true
	}

	for i := range ds.Header {
		if keep[i] {
			continue
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColVisible(SheetName, colName, false); err != nil {
			return fmt.Errorf("hide column %s: %w", colName, err)
		}
	}
	return nil
}

func currencyAmountStyle(f *excelize.File, symbol, fill string) (int, error) {
	style := &excelize.Style{CustomNumFmt: ptr(`"` + symbol + `" ` + amountFormat)}
	if fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1}
	}
	styleID, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("amount style: %w", err)
	}
	return styleID, nil
}

// Filename names the downloaded workbook after the processing instant.
func Filename(now time.Time) string {
	return "resumo_dividas_" + now.Format("20060102_150405") + ".xlsx"
}

func quoteDateLabel(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02/01/2006")
}

func ptr(s string) *string { return &s }
