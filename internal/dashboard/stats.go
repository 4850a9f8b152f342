package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/printdesk/internal/orders"
)

// Summary feeds the stat cards of a dashboard.
type Summary struct {
	TotalOrders int                        `json:"totalOrders"`
	Revenue     decimal.Decimal            `json:"revenue"`
	ByStatus    map[string]int             `json:"byStatus"`
	ByCategory  map[string]decimal.Decimal `json:"revenueByCategory"`
}

// CountByStatus counts orders per upper-cased status.
func CountByStatus(list []orders.Order) map[string]int {
	counts := make(map[string]int)
	for _, o := range list {
		counts[normalizeKey(o.Status)]++
	}
	return counts
}

// RevenueByCategory sums order totals per category.
func RevenueByCategory(list []orders.Order) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, o := range list {
		key := strings.TrimSpace(o.Category)
		if key == "" {
			key = "Uncategorized"
		}
		sums[key] = sums[key].Add(o.TotalAmount)
	}
	return sums
}

// GroupOrdersByDate regroups orders into per-day records in loc, oldest first.
func GroupOrdersByDate(list []orders.Order, loc *time.Location) []DailyActivity {
	if loc == nil {
		loc = time.UTC
	}
	type bucket struct {
		orders  int
		revenue decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, o := range list {
		key := o.CreatedAt.In(loc).Format(dateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.orders++
		b.revenue = b.revenue.Add(o.TotalAmount)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DailyActivity, 0, len(keys))
	for _, k := range keys {
		revenue := buckets[k].revenue
		out = append(out, DailyActivity{Date: k, Orders: buckets[k].orders, Revenue: &revenue})
	}
	return out
}

// Summarize builds the stat cards for list.
func Summarize(list []orders.Order) Summary {
	s := Summary{
		TotalOrders: len(list),
		ByStatus:    CountByStatus(list),
		ByCategory:  RevenueByCategory(list),
	}
	for _, o := range list {
		s.Revenue = s.Revenue.Add(o.TotalAmount)
	}
	return s
}

func normalizeKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "UNKNOWN"
	}
	return s
}
