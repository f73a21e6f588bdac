package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the fulfillment-progress state of an order, distinct
// from the payment outcome tracked by PaymentStatus.
type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipped    DeliveryStatus = "shipped"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryFailed     DeliveryStatus = "failed"
)

// PaymentStatus is the terminal payment outcome of an order. It is set once
// by the payments provider; this service only flips it to cancelled when a
// refund is recorded.
type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// transitions is the legal delivery-status transition table.
// delivered and failed are terminal.
var transitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryProcessing: {DeliveryShipped, DeliveryFailed},
	DeliveryShipped:    {DeliveryDelivered},
}

// CanTransition reports whether an order may move from one delivery status
// to another.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Progress returns the fulfillment progress percentage shown for a delivery
// status. It is purely derived display state.
func Progress(status DeliveryStatus) int {
	switch status {
	case DeliveryProcessing:
		return 33
	case DeliveryShipped:
		return 66
	case DeliveryDelivered:
		return 99
	default:
		return 0
	}
}

// ShippingOption is the delivery option snapshotted onto the order at
// checkout time. Immutable after order creation.
type ShippingOption struct {
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	MinDays          int     `json:"minDays"`
	MaxDays          int     `json:"maxDays"`
	ReturnWindowDays int     `json:"returnWindowDays"`
}

// LineItem is a single purchased product line within an order.
type LineItem struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Order represents one customer purchase directed at one vendor.
// Amount is the gross payment amount in USD, the platform's base currency.
type Order struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	VendorID        uuid.UUID      `json:"vendorId" db:"vendor_id"`
	CustomerID      uuid.UUID      `json:"customerId" db:"customer_id"`
	Amount          float64        `json:"amount" db:"amount"`
	Status          PaymentStatus  `json:"status" db:"status"`
	DeliveryStatus  DeliveryStatus `json:"deliveryStatus" db:"delivery_status"`
	Items           []LineItem     `json:"items" db:"items"`
	ShippingOption  ShippingOption `json:"shippingOption" db:"shipping_option"`
	TrackingNumber  *string        `json:"trackingNumber,omitempty" db:"tracking_number"`
	PackageImageURL *string        `json:"packageImageUrl,omitempty" db:"package_image_url"`
	PaymentIntentID *string        `json:"paymentIntentId,omitempty" db:"payment_intent_id"`
	RefundReason    *string        `json:"refundReason,omitempty" db:"refund_reason"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// Refunded reports whether the order has been refunded: payment cancelled
// and delivery marked failed. The refund transition sets both together.
func (o *Order) Refunded() bool {
	return o.Status == PaymentCancelled && o.DeliveryStatus == DeliveryFailed
}

// DeliveryWindow returns the estimated delivery window derived from the
// order creation time and the snapshotted shipping option.
func (o *Order) DeliveryWindow() (earliest, latest time.Time) {
	earliest = o.CreatedAt.AddDate(0, 0, o.ShippingOption.MinDays)
	latest = o.CreatedAt.AddDate(0, 0, o.ShippingOption.MaxDays)
	return earliest, latest
}
