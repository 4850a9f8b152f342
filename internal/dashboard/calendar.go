// Package dashboard turns already-aggregated backend records into the
// lookup structures the dashboards render from.
package dashboard

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DailyActivity is one per-day aggregate as returned by the backend.
type DailyActivity struct {
	Date    string           `json:"date"`
	Orders  int              `json:"orders"`
	Revenue *decimal.Decimal `json:"revenue,omitempty"`
}

// DayActivity is a calendar cell.
type DayActivity struct {
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Calendar maps ISO dates (YYYY-MM-DD) to their activity.
type Calendar map[string]DayActivity

// BuildCalendar indexes records by ISO date in a single pass. Timestamps are
// cut to their date part, duplicate dates are summed and records with an
// unreadable date are skipped.
func BuildCalendar(records []DailyActivity) Calendar {
	cal := make(Calendar, len(records))
	for _, rec := range records {
		key, ok := DateKey(rec.Date)
		if !ok {
			continue
		}
		day := cal[key]
		day.Orders += rec.Orders
		if rec.Revenue != nil {
			day.Revenue = day.Revenue.Add(*rec.Revenue)
		}
		cal[key] = day
	}
	return cal
}

// Lookup returns the activity recorded for the calendar day of t.
func (c Calendar) Lookup(t time.Time) DayActivity {
	return c[t.Format(dateLayout)]
}

// Total sums every cell.
func (c Calendar) Total() DayActivity {
	var total DayActivity
	for _, day := range c {
		total.Orders += day.Orders
		total.Revenue = total.Revenue.Add(day.Revenue)
	}
	return total
}

// DateKey normalizes a date or RFC 3339 timestamp to YYYY-MM-DD.
func DateKey(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.Format(dateLayout), true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.Format(dateLayout), true
	}
	if len(raw) > len(dateLayout) {
		if t, err := time.Parse(dateLayout, raw[:len(dateLayout)]); err == nil {
			return t.Format(dateLayout), true
		}
	}
	return "", false
}
