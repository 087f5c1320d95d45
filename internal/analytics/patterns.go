// Package analytics derives purchase patterns, preferences and business
// aggregates from order history. Everything here is pure computation over
// already-loaded records.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/customer_portal/internal/models"
)

// Frequency labels.
const (
	FrequencyRegular    = "regular"
	FrequencyOccasional = "occasional"
)

const (
	regularIntervalDays = 60
	highValueThreshold  = 100
	bulkLineItems       = 3
	loyaltyDistinctSKUs = 10
	topProductsLimit    = 5
)

// PurchasePatterns summarises how often and how much a customer orders.
type PurchasePatterns struct {
	AverageIntervalDays float64 `json:"averageIntervalDays"`
	AverageOrderValue   float64 `json:"averageOrderValue"`
	MostCommonOrderSize int     `json:"mostCommonOrderSize"`
	TotalOrders         int     `json:"totalOrders"`
	FrequencyLabel      string  `json:"frequencyLabel"`
}

// ProductCount is a SKU and how many orders it appeared in.
type ProductCount struct {
	SKU   string `json:"sku"`
	Count int    `json:"count"`
}

// Preferences describes what a customer tends to buy.
type Preferences struct {
	TopProducts       []ProductCount `json:"topProducts"`
	PrefersHighValue  bool           `json:"prefersHighValue"`
	PrefersBulkOrders bool           `json:"prefersBulkOrders"`
	BrandLoyalty      bool           `json:"brandLoyalty"`
}

// Patterns computes purchase patterns. Orders without a date take part in
// every figure except the interval.
func Patterns(orders []models.Order) PurchasePatterns {
	if len(orders) == 0 {
		return PurchasePatterns{}
	}

	interval := averageIntervalDays(orders)
	label := FrequencyOccasional
	if interval < regularIntervalDays {
		label = FrequencyRegular
	}

	return PurchasePatterns{
		AverageIntervalDays: interval,
		AverageOrderValue:   mean(sumTotals(orders), len(orders)),
		MostCommonOrderSize: mostCommonSize(orders),
		TotalOrders:         len(orders),
		FrequencyLabel:      label,
	}
}

// ExtractPreferences computes product preferences over orders.
func ExtractPreferences(orders []models.Order) Preferences {
	if len(orders) == 0 {
		return Preferences{TopProducts: []ProductCount{}}
	}

	counts := countProducts(orders)

	highValue, bulk := 0, 0
	for _, o := range orders {
		if o.TotalAmount > highValueThreshold {
			highValue++
		}
		if len(o.Products) > bulkLineItems {
			bulk++
		}
	}
	n := float64(len(orders))

	return Preferences{
		TopProducts:       topN(counts, topProductsLimit),
		PrefersHighValue:  float64(highValue) > n/3,
		PrefersBulkOrders: float64(bulk) > n/2,
		BrandLoyalty:      counts.len() < loyaltyDistinctSKUs,
	}
}

// averageIntervalDays is the mean whole-day gap between consecutive dated
// orders sorted ascending; 0 with fewer than two dated orders.
func averageIntervalDays(orders []models.Order) float64 {
	dates := make([]time.Time, 0, len(orders))
	for _, o := range orders {
		if !o.Date.IsZero() {
			dates = append(dates, o.Date)
		}
	}
	if len(dates) < 2 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	total := 0
	for i := 1; i < len(dates); i++ {
		total += int(dates[i].Sub(dates[i-1]).Hours() / 24)
	}
	return float64(total) / float64(len(dates)-1)
}

// mostCommonSize returns the most frequent line-item count, lowest on ties.
func mostCommonSize(orders []models.Order) int {
	freq := make(map[int]int)
	for _, o := range orders {
		freq[len(o.Products)]++
	}
	best, bestCount := 0, -1
	for size, count := range freq {
		if count > bestCount || (count == bestCount && size < best) {
			best, bestCount = size, count
		}
	}
	return best
}

// skuCounts keeps SKUs in first-seen order so ties sort deterministically.
type skuCounts struct {
	order []string
	count map[string]int
}

func (s skuCounts) len() int { return len(s.order) }

func countProducts(orders []models.Order) skuCounts {
	counts := skuCounts{count: make(map[string]int)}
	for _, o := range orders {
		for _, sku := range o.Products {
			if _, seen := counts.count[sku]; !seen {
				counts.order = append(counts.order, sku)
			}
			counts.count[sku]++
		}
	}
	return counts
}

func topN(counts skuCounts, n int) []ProductCount {
	out := make([]ProductCount, 0, counts.len())
	for _, sku := range counts.order {
		out = append(out, ProductCount{SKU: sku, Count: counts.count[sku]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func sumTotals(orders []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	return sum
}

func mean(sum decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
}
