package repository

import (
	"context"
	"fmt"
	"strings"

	"vendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `
	id, vendor_id, customer_id, amount, status, delivery_status,
	items, shipping_option, tracking_number, package_image_url,
	payment_intent_id, refund_reason, created_at, updated_at
`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// GetByID retrieves a single order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// ListByVendor retrieves a vendor's orders, newest first.
func (r *orderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter OrderFilter) ([]model.Order, error) {
	var (
		conditions = []string{"vendor_id = $1"}
		args       = []any{vendorID}
	)

	if filter.DeliveryStatus != nil {
		args = append(args, *filter.DeliveryStatus)
		conditions = append(conditions, fmt.Sprintf("delivery_status = $%d", len(args)))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("vendor_id", vendorID.String()).
			Msg("failed to query vendor orders")
		return nil, fmt.Errorf("failed to query vendor orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// MarkShipped transitions an order from processing to shipped. The guard on
// delivery_status makes the transition safe against concurrent sessions:
// only one update can win the row.
func (r *orderRepository) MarkShipped(ctx context.Context, id uuid.UUID, trackingNumber, packageImageURL string) (bool, error) {
	query := `
		UPDATE orders
		SET delivery_status = $2,
		    tracking_number = $3,
		    package_image_url = $4,
		    updated_at = NOW()
		WHERE id = $1 AND delivery_status = $5
	`

	tag, err := r.pool.Exec(ctx, query, id,
		model.DeliveryShipped, trackingNumber, packageImageURL, model.DeliveryProcessing)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order shipped")
		return false, fmt.Errorf("failed to mark order shipped: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("order_id", id.String()).Msg("order not in processing, shipment rejected")
		return false, nil
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("tracking_number", trackingNumber).
		Msg("order marked shipped")

	return true, nil
}

// MarkRefunded records a refund in a single statement so the cancelled
// payment status and failed delivery status can never diverge.
func (r *orderRepository) MarkRefunded(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2,
		    delivery_status = $3,
		    refund_reason = $4,
		    updated_at = NOW()
		WHERE id = $1 AND delivery_status = $5 AND status = $6
	`

	tag, err := r.pool.Exec(ctx, query, id,
		model.PaymentCancelled, model.DeliveryFailed, reason,
		model.DeliveryProcessing, model.PaymentSucceeded)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order refunded")
		return false, fmt.Errorf("failed to mark order refunded: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("order_id", id.String()).Msg("order not refundable, refund rejected")
		return false, nil
	}

	r.logger.Debug().Str("order_id", id.String()).Msg("order marked refunded")

	return true, nil
}

// scanOrder reads one order row, normalising the items and shipping_option
// columns through the model adapters.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order       model.Order
		rawItems    []byte
		rawShipping []byte
	)

	err := row.Scan(
		&order.ID,
		&order.VendorID,
		&order.CustomerID,
		&order.Amount,
		&order.Status,
		&order.DeliveryStatus,
		&rawItems,
		&rawShipping,
		&order.TrackingNumber,
		&order.PackageImageURL,
		&order.PaymentIntentID,
		&order.RefundReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Items, err = model.ParseLineItems(rawItems)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", order.ID, err)
	}

	order.ShippingOption, err = model.ParseShippingOption(rawShipping)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", order.ID, err)
	}

	return &order, nil
}
