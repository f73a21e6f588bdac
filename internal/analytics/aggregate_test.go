package analytics

import (
	"testing"
	"time"

	"vendora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func succeededOrder(amount float64, createdAt time.Time) model.Order {
	return model.Order{
		Status:         model.PaymentSucceeded,
		DeliveryStatus: model.DeliveryProcessing,
		Amount:         amount,
		CreatedAt:      createdAt,
	}
}

func TestNetAmount_Commission(t *testing.T) {
	// Vendor net revenue is always gross times 0.88.
	assert.InDelta(t, 88.0, netAmount(100), 1e-9)
	assert.InDelta(t, 0.88, netAmount(1), 1e-9)
	assert.InDelta(t, 0.0, netAmount(0), 1e-9)
}

func TestMonthlyRevenue_TwelveBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	orders := []model.Order{
		succeededOrder(100, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		succeededOrder(50, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)),
		succeededOrder(200, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		// Prior year orders never land in this year's buckets.
		succeededOrder(999, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)),
		// Cancelled orders contribute nothing to revenue.
		{Status: model.PaymentCancelled, Amount: 500, CreatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
	}

	buckets := monthlyRevenue(orders, now)

	require.Len(t, buckets, 12)
	for i, bucket := range buckets {
		assert.Equal(t, i+1, bucket.MonthNumber)
		assert.Equal(t, 2025, bucket.Year)
		assert.Equal(t, bucket.MonthNumber == 6, bucket.CurrentMonth)
	}

	assert.Equal(t, "Jan", buckets[0].Month)
	assert.Equal(t, "Jun", buckets[5].Month)
	assert.InDelta(t, 200*0.88, buckets[0].Revenue, 1e-9)
	assert.InDelta(t, 150*0.88, buckets[5].Revenue, 1e-9)

	// Months with no orders are present with zero revenue.
	assert.Zero(t, buckets[2].Revenue)
	assert.Zero(t, buckets[11].Revenue)
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		previous  float64
		direction model.GrowthDirection
		percent   float64
	}{
		{name: "up", current: 150, previous: 100, direction: model.GrowthUp, percent: 50},
		{name: "down", current: 75, previous: 100, direction: model.GrowthDown, percent: -25},
		{name: "stable", current: 100, previous: 100, direction: model.GrowthStable, percent: 0},
		{name: "from zero with revenue", current: 88, previous: 0, direction: model.GrowthUp, percent: 100},
		{name: "both zero", current: 0, previous: 0, direction: model.GrowthStable, percent: 0},
		{name: "rounds to one decimal", current: 110, previous: 90, direction: model.GrowthUp, percent: 22.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction, percent := growth(tt.current, tt.previous)
			assert.Equal(t, tt.direction, direction)
			assert.InDelta(t, tt.percent, percent, 1e-9)
		})
	}
}

func TestTopSellers_Ranking(t *testing.T) {
	vendorID := newVendorID()
	products := []model.Product{
		{ID: "P1", VendorID: vendorID, Name: "Mug", Price: 10},
		{ID: "P2", VendorID: vendorID, Name: "Shirt", Price: 25},
		{ID: "P3", VendorID: vendorID, Name: "Poster", Price: 5},
	}

	orders := []model.Order{
		{Items: []model.LineItem{
			{ProductID: "P1", Quantity: 5},
			{ProductID: "P2", Quantity: 4},
		}},
		{Items: []model.LineItem{
			{ProductID: "P2", Quantity: 5},
			{ProductID: "P3", Quantity: 2},
			// Products no longer in the vendor's catalogue are skipped.
			{ProductID: "deleted", Quantity: 50},
		}},
	}

	top := topSellers(orders, products, 4)

	require.Len(t, top, 3)
	assert.Equal(t, "P2", top[0].ProductID)
	assert.Equal(t, 9, top[0].UnitsSold)
	assert.Equal(t, "P1", top[1].ProductID)
	assert.Equal(t, 5, top[1].UnitsSold)
	assert.Equal(t, "P3", top[2].ProductID)
	assert.Equal(t, 2, top[2].UnitsSold)
}

func TestTopSellers_Truncation(t *testing.T) {
	vendorID := newVendorID()
	var products []model.Product
	var items []model.LineItem
	for _, id := range []string{"A", "B", "C", "D", "E", "F"} {
		products = append(products, model.Product{ID: id, VendorID: vendorID, Name: id})
		items = append(items, model.LineItem{ProductID: id, Quantity: 1})
	}

	top := topSellers([]model.Order{{Items: items}}, products, 4)

	assert.Len(t, top, 4)
}

func TestTopSellers_NoOrders(t *testing.T) {
	top := topSellers(nil, []model.Product{{ID: "P1"}}, 4)
	assert.Empty(t, top)
}
