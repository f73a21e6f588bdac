package analytics

import (
	"context"
	"sync"
	"time"

	"vendora/internal/currency"
	"vendora/internal/model"
	"vendora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service defines the vendor revenue aggregation operations.
type Service interface {
	// VendorAnalytics computes the full dashboard aggregate for a vendor.
	// All monetary fields of the result are in USD; apply Localize for the
	// vendor's display currency.
	VendorAnalytics(ctx context.Context, vendorID uuid.UUID) (*model.VendorAnalytics, error)
}

// service implements Service.
type service struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new analytics service.
func NewService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	logger zerolog.Logger,
) Service {
	return &service{
		orders:   orders,
		products: products,
		logger:   logger.With().Str("service", "analytics").Logger(),
		now:      time.Now,
	}
}

// VendorAnalytics computes the full dashboard aggregate for a vendor.
// Orders and products are fetched concurrently and merged only after both
// complete; any fetch failure discards the whole result.
func (s *service) VendorAnalytics(ctx context.Context, vendorID uuid.UUID) (*model.VendorAnalytics, error) {
	var (
		wg          sync.WaitGroup
		orders      []model.Order
		products    []model.Product
		ordersErr   error
		productsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		orders, ordersErr = s.orders.ListByVendor(ctx, vendorID, repository.OrderFilter{
			Statuses: []model.PaymentStatus{model.PaymentSucceeded, model.PaymentCancelled},
		})
	}()
	go func() {
		defer wg.Done()
		products, productsErr = s.products.ListByVendor(ctx, vendorID)
	}()
	wg.Wait()

	if ordersErr != nil {
		s.logger.Error().Err(ordersErr).Str("vendor_id", vendorID.String()).Msg("failed to fetch vendor orders")
		return nil, model.ErrAnalyticsUnavailable
	}
	if productsErr != nil {
		s.logger.Error().Err(productsErr).Str("vendor_id", vendorID.String()).Msg("failed to fetch vendor products")
		return nil, model.ErrAnalyticsUnavailable
	}

	now := s.now()
	result := &model.VendorAnalytics{
		Currency: "usd",
		Monthly:  monthlyRevenue(orders, now),
	}

	for _, order := range orders {
		switch order.Status {
		case model.PaymentSucceeded:
			result.TotalOrders++
			result.TotalRevenue += netAmount(order.Amount)
		case model.PaymentCancelled:
			result.TotalRefunds += netAmount(order.Amount)
		}

		switch order.DeliveryStatus {
		case model.DeliveryProcessing, model.DeliveryShipped:
			result.PendingOrders++
		case model.DeliveryDelivered:
			result.DeliveredOrders++
		case model.DeliveryFailed:
			result.CancelledOrders++
		}
	}

	if result.TotalOrders > 0 {
		result.AverageOrderValue = result.TotalRevenue / float64(result.TotalOrders)
	}

	currentMonth := int(now.Month())
	result.CurrentMonthRevenue = result.Monthly[currentMonth-1].Revenue
	if currentMonth > 1 {
		result.PreviousMonthRevenue = result.Monthly[currentMonth-2].Revenue
	}
	result.Growth, result.GrowthPercent = growth(result.CurrentMonthRevenue, result.PreviousMonthRevenue)

	result.TopProducts = topSellers(orders, products, topSellerLimit)

	s.logger.Debug().
		Str("vendor_id", vendorID.String()).
		Int("orders", len(orders)).
		Int("products", len(products)).
		Msg("vendor analytics computed")

	return result, nil
}

// Localize returns a copy of the aggregate with every monetary field
// converted to the converter's display currency and headline figures
// formatted for display. It never touches the data store, so it can re-run
// on a currency change without re-querying.
func Localize(ctx context.Context, a model.VendorAnalytics, conv *currency.Converter) model.VendorAnalytics {
	out := a
	out.Currency = conv.Currency()
	out.TotalRevenue = conv.Convert(ctx, a.TotalRevenue)
	out.TotalRefunds = conv.Convert(ctx, a.TotalRefunds)
	out.AverageOrderValue = conv.Convert(ctx, a.AverageOrderValue)
	out.CurrentMonthRevenue = conv.Convert(ctx, a.CurrentMonthRevenue)
	out.PreviousMonthRevenue = conv.Convert(ctx, a.PreviousMonthRevenue)
	out.TotalRevenueDisplay = conv.Format(ctx, a.TotalRevenue)
	out.TotalRefundsDisplay = conv.Format(ctx, a.TotalRefunds)

	out.Monthly = make([]model.MonthlyRevenueBucket, len(a.Monthly))
	for i, bucket := range a.Monthly {
		bucket.Revenue = conv.Convert(ctx, bucket.Revenue)
		out.Monthly[i] = bucket
	}

	out.TopProducts = make([]model.TopProduct, len(a.TopProducts))
	for i, product := range a.TopProducts {
		product.Price = conv.Convert(ctx, product.Price)
		out.TopProducts[i] = product
	}

	return out
}
