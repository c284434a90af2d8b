package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveReferenceDate(t *testing.T) {
	cases := []struct {
		name  string
		today time.Time
		want  time.Time
	}{
		{"mar-abr window", date(2025, time.April, 15), date(2025, time.February, 28)},
		{"window start boundary", date(2025, time.March, 30), date(2025, time.February, 28)},
		{"window end boundary", date(2025, time.May, 29), date(2025, time.February, 28)},
		{"mai-jun window", date(2025, time.May, 30), date(2025, time.April, 30)},
		{"jul-ago window", date(2025, time.August, 15), date(2025, time.June, 30)},
		// 31/ago/2025 is a Sunday, steps back to Friday 29/ago.
		{"weekend adjustment", date(2025, time.October, 1), date(2025, time.August, 29)},
		{"nov-dez window", date(2025, time.December, 25), date(2025, time.October, 31)},
		// Jan/Fev quotes 31/dez of the previous year.
		{"jan-fev window uses previous year", date(2026, time.February, 10), date(2025, time.December, 31)},
		{"jan-fev window start", date(2026, time.January, 30), date(2025, time.December, 31)},
		// Early January falls outside every window built for the current
		// year; the resolver falls back to 28/fev (Saturday in 2026).
		{"fallback before jan 30", date(2026, time.January, 15), date(2026, time.February, 27)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveReferenceDate(tc.today)
			if !got.Equal(tc.want) {
				t.Fatalf("ResolveReferenceDate(%s) = %s, want %s",
					tc.today.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveReferenceDateStableWithinWindow(t *testing.T) {
	want := ResolveReferenceDate(date(2025, time.March, 30))
	for d := date(2025, time.March, 30); !d.After(date(2025, time.May, 29)); d = d.AddDate(0, 0, 1) {
		if got := ResolveReferenceDate(d); !got.Equal(want) {
			t.Fatalf("reference date changed within window at %s: got %s, want %s",
				d.Format("2006-01-02"), got.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	}
}

func TestResolveReferenceDateNeverWeekend(t *testing.T) {
	for d := date(2024, time.January, 1); !d.After(date(2026, time.December, 31)); d = d.AddDate(0, 0, 1) {
		got := ResolveReferenceDate(d)
		if wd := got.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("ResolveReferenceDate(%s) = %s falls on %s",
				d.Format("2006-01-02"), got.Format("2006-01-02"), wd)
		}
	}
}
