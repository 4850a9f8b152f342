package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printdesk/internal/orders"
)

func orderAt(ts string, status, category, total string) orders.Order {
	created, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return orders.Order{Status: status, Category: category, TotalAmount: decimal.RequireFromString(total), CreatedAt: created}
}

func fixtureOrders() []orders.Order {
	return []orders.Order{
		orderAt("2026-02-01T01:00:00Z", "pending", "Printing", "10"),
		orderAt("2026-02-01T20:00:00Z", "COMPLETED", "Printing", "15.50"),
		orderAt("2026-02-02T03:00:00Z", "completed", "Lamination", "4"),
		orderAt("2026-02-03T12:00:00Z", "", "", "1"),
	}
}

func TestCountByStatus(t *testing.T) {
	assert.Equal(t, map[string]int{"PENDING": 1, "COMPLETED": 2, "UNKNOWN": 1}, CountByStatus(fixtureOrders()))
}

func TestRevenueByCategory(t *testing.T) {
	got := RevenueByCategory(fixtureOrders())

	require.Len(t, got, 3)
	assert.Equal(t, "25.5", got["Printing"].String())
	assert.Equal(t, "4", got["Lamination"].String())
	assert.Equal(t, "1", got["Uncategorized"].String())
}

func TestGroupOrdersByDate_UsesLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*3600)

	days := GroupOrdersByDate(fixtureOrders(), manila)

	require.Len(t, days, 3)
	assert.Equal(t, "2026-02-01", days[0].Date)
	assert.Equal(t, 1, days[0].Orders)
	assert.Equal(t, "2026-02-02", days[1].Date)
	assert.Equal(t, 2, days[1].Orders)
	assert.Equal(t, "19.5", days[1].Revenue.String())
	assert.Equal(t, "2026-02-03", days[2].Date)

	cal := BuildCalendar(days)
	assert.Equal(t, 4, cal.Total().Orders)
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixtureOrders())

	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, "30.5", s.Revenue.String())
	assert.Equal(t, 2, s.ByStatus["COMPLETED"])
}
