package core

import (
	"log/slog"
	"time"
)

// reportingWindow is one bimonthly RREO filing period. Start/end bound the
// period in the current year (the end rolls into the next year when its
// month is numerically lower than the start month); refMonth/refDay name
// the quotation date that applies while the period is open.
type reportingWindow struct {
	startMonth, startDay int
	endMonth, endDay     int
	refMonth, refDay     int
}

// rreoWindows partitions the filing calendar. The last window crosses the
// year boundary and quotes December 31 of the previous year.
var rreoWindows = [6]reportingWindow{
	{3, 30, 5, 29, 2, 28},   // Mar/Abr -> 28/fev
	{5, 30, 7, 29, 4, 30},   // Mai/Jun -> 30/abr
	{7, 30, 9, 29, 6, 30},   // Jul/Ago -> 30/jun
	{9, 30, 11, 29, 8, 31},  // Set/Out -> 31/ago
	{11, 30, 1, 29, 10, 31}, // Nov/Dez -> 31/out
	{1, 30, 3, 29, 12, 31},  // Jan/Fev -> 31/dez do ano anterior
}

// ResolveReferenceDate maps today onto the RREO quotation date: the raw
// reference day of the open bimonthly window, stepped back to the previous
// weekday when it falls on a weekend. Holidays are not consulted.
func ResolveReferenceDate(today time.Time) time.Time {
	year := today.Year()
	day := time.Date(year, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var ref time.Time
	matched := false
	for _, w := range rreoWindows {
		start := time.Date(year, time.Month(w.startMonth), w.startDay, 0, 0, 0, 0, time.UTC)
		endYear := year
		if w.endMonth < w.startMonth {
			endYear = year + 1
		}
		end := time.Date(endYear, time.Month(w.endMonth), w.endDay, 0, 0, 0, 0, time.UTC)

		if !day.Before(start) && !day.After(end) {
			refYear := year
			if w.refMonth == 12 {
				// Jan/Fev quotes the close of the previous year.
				refYear = year - 1
			}
			ref = time.Date(refYear, time.Month(w.refMonth), w.refDay, 0, 0, 0, 0, time.UTC)
			matched = true
			break
		}
	}
	if !matched {
		slog.Warn("Data atual fora dos intervalos do RREO, usando fallback",
			"today", day.Format("2006-01-02"))
		ref = time.Date(year, time.February, 28, 0, 0, 0, 0, time.UTC)
	}

	for ref.Weekday() == time.Saturday || ref.Weekday() == time.Sunday {
		ref = ref.AddDate(0, 0, -1)
	}
	return ref
}
