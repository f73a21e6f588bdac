package repository

import (
	"context"

	"vendora/internal/model"

	"github.com/google/uuid"
)

// OrderFilter narrows vendor order listings.
type OrderFilter struct {
	// DeliveryStatus, when set, restricts results to one fulfillment state.
	DeliveryStatus *model.DeliveryStatus

	// Statuses, when non-empty, restricts results to the given payment outcomes.
	Statuses []model.PaymentStatus

	// Limit and Offset paginate results. Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// GetByID retrieves a single order by its ID. Returns (nil, nil) when
	// the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByVendor retrieves a vendor's orders, newest first, applying the
	// given filter.
	ListByVendor(ctx context.Context, vendorID uuid.UUID, filter OrderFilter) ([]model.Order, error)

	// MarkShipped transitions an order from processing to shipped, recording
	// the tracking number and package photo URL in the same statement.
	// Returns false if the order was not in processing (no row updated).
	MarkShipped(ctx context.Context, id uuid.UUID, trackingNumber, packageImageURL string) (bool, error)

	// MarkRefunded records a refund: payment status cancelled, delivery
	// status failed, and the refund reason, all in one statement. Returns
	// false if the order was not in a refundable state.
	MarkRefunded(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListByVendor retrieves all products in a vendor's catalogue.
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}
