package fulfillment

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"vendora/internal/model"
	"vendora/internal/payment"
	"vendora/internal/repository"
	"vendora/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// trackingUnavailable is returned when an order has no tracking number yet.
const trackingUnavailable = "not available"

// Photo is the package photo submitted as shipment evidence.
type Photo struct {
	Content     io.Reader
	ContentType string
	Filename    string
}

// ShipmentSession is the client-held capture session opened before a
// shipment is submitted.
type ShipmentSession struct {
	OrderID   uuid.UUID `json:"orderId"`
	StartedAt time.Time `json:"startedAt"`
}

// Service defines the order delivery-status lifecycle operations.
type Service interface {
	// BeginShipment validates that an order can be shipped and opens a
	// shipment-capture session for it.
	BeginShipment(ctx context.Context, orderID uuid.UUID) (*ShipmentSession, error)

	// SubmitShipment uploads the package photo and transitions the order to
	// shipped, recording the tracking number and photo URL.
	SubmitShipment(ctx context.Context, orderID uuid.UUID, trackingNumber string, photo *Photo) (*model.Order, error)

	// RequestRefund issues a refund through the payments provider and
	// records the cancellation.
	RequestRefund(ctx context.Context, orderID uuid.UUID, reason string) (*model.Order, error)

	// TrackingNumber returns the order's tracking number, or a
	// "not available" sentinel when none has been recorded.
	TrackingNumber(order *model.Order) string
}

// service implements Service.
type service struct {
	orders   repository.OrderRepository
	uploader storage.Uploader
	refunder payment.Refunder
	logger   zerolog.Logger
}

// NewService creates a new fulfillment service.
func NewService(
	orders repository.OrderRepository,
	uploader storage.Uploader,
	refunder payment.Refunder,
	logger zerolog.Logger,
) Service {
	return &service{
		orders:   orders,
		uploader: uploader,
		refunder: refunder,
		logger:   logger.With().Str("service", "fulfillment").Logger(),
	}
}

// BeginShipment validates that an order can be shipped and opens a
// shipment-capture session.
func (s *service) BeginShipment(ctx context.Context, orderID uuid.UUID) (*ShipmentSession, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to load order")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !model.CanTransition(order.DeliveryStatus, model.DeliveryShipped) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("delivery_status", string(order.DeliveryStatus)).
			Msg("shipment rejected, order not in processing")
		return nil, model.ErrInvalidState
	}

	return &ShipmentSession{
		OrderID:   order.ID,
		StartedAt: time.Now(),
	}, nil
}

// SubmitShipment uploads the package photo and transitions the order to
// shipped. The upload is sequenced before the record update because the
// update depends on the resulting URL; an upload left orphaned by a failed
// update is accepted and never rolled back.
func (s *service) SubmitShipment(ctx context.Context, orderID uuid.UUID, trackingNumber string, photo *Photo) (*model.Order, error) {
	// Evidence validation happens before any read or write.
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, model.ErrMissingTrackingNumber
	}
	if photo == nil || photo.Content == nil {
		return nil, model.ErrMissingPackagePhoto
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to load order")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !model.CanTransition(order.DeliveryStatus, model.DeliveryShipped) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("delivery_status", string(order.DeliveryStatus)).
			Msg("shipment rejected, order not in processing")
		return nil, model.ErrInvalidState
	}

	photoURL, err := s.uploader.Upload(ctx, photoKey(orderID, photo.Filename), photo.ContentType, photo.Content)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("package photo upload failed")
		return nil, model.ErrUploadFailed
	}

	ok, err := s.orders.MarkShipped(ctx, orderID, trackingNumber, photoURL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("photo_url", photoURL).
			Msg("failed to persist shipment, uploaded photo orphaned")
		return nil, model.ErrPersistenceFailed
	}
	if !ok {
		// Lost a race with another session; the order already left processing.
		return nil, model.ErrInvalidState
	}

	order.DeliveryStatus = model.DeliveryShipped
	order.TrackingNumber = &trackingNumber
	order.PackageImageURL = &photoURL

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("tracking_number", trackingNumber).
		Msg("order shipped")

	return order, nil
}

// RequestRefund issues a refund through the payments provider and records
// the cancellation as status=cancelled plus delivery_status=failed.
func (s *service) RequestRefund(ctx context.Context, orderID uuid.UUID, reason string) (*model.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, model.ErrMissingRefundReason
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to load order")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.PaymentIntentID == nil || *order.PaymentIntentID == "" {
		s.logger.Warn().Str("order_id", orderID.String()).Msg("refund rejected, no payment reference")
		return nil, model.ErrMissingPaymentReference
	}

	if !model.CanTransition(order.DeliveryStatus, model.DeliveryFailed) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("delivery_status", string(order.DeliveryStatus)).
			Msg("refund rejected, order not in processing")
		return nil, model.ErrInvalidState
	}

	if err := s.refunder.Refund(ctx, *order.PaymentIntentID, reason); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("payments provider refused refund")
		return nil, fmt.Errorf("failed to issue refund: %w", err)
	}

	ok, err := s.orders.MarkRefunded(ctx, orderID, reason)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to record refund")
		return nil, model.ErrPersistenceFailed
	}
	if !ok {
		return nil, model.ErrInvalidState
	}

	order.Status = model.PaymentCancelled
	order.DeliveryStatus = model.DeliveryFailed
	order.RefundReason = &reason

	s.logger.Info().Str("order_id", orderID.String()).Msg("order refunded")

	return order, nil
}

// TrackingNumber returns the order's tracking number or the "not available"
// sentinel. Pure read, no state change.
func (s *service) TrackingNumber(order *model.Order) string {
	if order == nil || order.TrackingNumber == nil || *order.TrackingNumber == "" {
		return trackingUnavailable
	}
	return *order.TrackingNumber
}

// photoKey builds the storage key for a package photo. The random element
// keeps resubmissions from overwriting earlier evidence.
func photoKey(orderID uuid.UUID, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s%s", orderID, uuid.New(), ext)
}
