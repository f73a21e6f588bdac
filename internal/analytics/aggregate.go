package analytics

import (
	"math"
	"sort"
	"time"

	"vendora/internal/model"
)

// commissionRate is the vendor's share of a gross order amount after the
// fixed 12% platform fee. A business constant, not configuration.
const commissionRate = 0.88

// topSellerLimit caps the best-seller list shown on the dashboard.
const topSellerLimit = 4

// netAmount converts a gross order amount to the vendor's net revenue.
func netAmount(gross float64) float64 {
	return gross * commissionRate
}

// monthlyRevenue buckets succeeded orders into the twelve calendar months of
// the current year, months with zero orders included. The bucket for the
// current month is marked.
func monthlyRevenue(orders []model.Order, now time.Time) []model.MonthlyRevenueBucket {
	year := now.Year()
	currentMonth := int(now.Month())

	buckets := make([]model.MonthlyRevenueBucket, 12)
	for m := 1; m <= 12; m++ {
		buckets[m-1] = model.MonthlyRevenueBucket{
			Month:        time.Month(m).String()[:3],
			MonthNumber:  m,
			Year:         year,
			CurrentMonth: m == currentMonth,
		}
	}

	for _, order := range orders {
		if order.Status != model.PaymentSucceeded {
			continue
		}
		if order.CreatedAt.Year() != year {
			continue
		}
		buckets[int(order.CreatedAt.Month())-1].Revenue += netAmount(order.Amount)
	}

	return buckets
}

// growth classifies month-over-month revenue movement and computes the
// percentage change rounded to one decimal. A zero previous month is defined
// as 100% growth when the current month has revenue, 0% otherwise.
func growth(current, previous float64) (model.GrowthDirection, float64) {
	direction := model.GrowthStable
	switch {
	case current > previous:
		direction = model.GrowthUp
	case current < previous:
		direction = model.GrowthDown
	}

	if previous == 0 {
		if current > 0 {
			return direction, 100
		}
		return direction, 0
	}

	return direction, math.Round((current-previous)/previous*1000) / 10
}

// topSellers accumulates units sold per product across all order line items
// and returns the best sellers in descending quantity order. Line items
// referencing products that no longer belong to the vendor are skipped.
// Ties keep first-seen order.
func topSellers(orders []model.Order, products []model.Product, limit int) []model.TopProduct {
	catalogue := make(map[string]model.Product, len(products))
	for _, p := range products {
		catalogue[p.ID] = p
	}

	units := make(map[string]int)
	var seen []string

	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := catalogue[item.ProductID]; !ok {
				continue
			}
			if _, counted := units[item.ProductID]; !counted {
				seen = append(seen, item.ProductID)
			}
			units[item.ProductID] += item.Quantity
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return units[seen[i]] > units[seen[j]]
	})

	if len(seen) > limit {
		seen = seen[:limit]
	}

	top := make([]model.TopProduct, 0, len(seen))
	for _, id := range seen {
		p := catalogue[id]
		top = append(top, model.TopProduct{
			ProductID: p.ID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
			UnitsSold: units[id],
		})
	}

	return top
}
