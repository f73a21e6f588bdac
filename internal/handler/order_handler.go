package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"vendora/internal/fulfillment"
	"vendora/internal/model"
	"vendora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPhotoUploadBytes caps the multipart form size for shipment submissions.
const maxPhotoUploadBytes = 10 << 20

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service fulfillment.Service
	orders  repository.OrderRepository
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service fulfillment.Service, orders repository.OrderRepository, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		orders:  orders,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// deliveryEstimate is the estimated delivery window shown on order detail.
type deliveryEstimate struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// orderDetailResponse is an order enriched with derived display state.
type orderDetailResponse struct {
	*model.Order
	Progress         int              `json:"progress"`
	Refunded         bool             `json:"refunded"`
	DeliveryEstimate deliveryEstimate `json:"deliveryEstimate"`
}

func newOrderDetail(order *model.Order) orderDetailResponse {
	earliest, latest := order.DeliveryWindow()
	return orderDetailResponse{
		Order:    order,
		Progress: model.Progress(order.DeliveryStatus),
		Refunded: order.Refunded(),
		DeliveryEstimate: deliveryEstimate{
			Earliest: earliest,
			Latest:   latest,
		},
	}
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		// Surfaces malformed stored payloads as validation failures.
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newOrderDetail(order))
}

// ListByVendor handles GET /api/vendors/{id}/orders requests.
func (h *OrderHandler) ListByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vendor ID format", h.logger)
		return
	}

	filter := repository.OrderFilter{
		Limit:  50,
		Offset: 0,
	}

	if v := r.URL.Query().Get("delivery_status"); v != "" {
		status := model.DeliveryStatus(v)
		switch status {
		case model.DeliveryProcessing, model.DeliveryShipped, model.DeliveryDelivered, model.DeliveryFailed:
			filter.DeliveryStatus = &status
		default:
			writeError(w, http.StatusBadRequest, "invalid delivery status filter", h.logger)
			return
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	orders, err := h.orders.ListByVendor(r.Context(), vendorID, filter)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	details := make([]orderDetailResponse, len(orders))
	for i := range orders {
		details[i] = newOrderDetail(&orders[i])
	}

	writeJSON(w, http.StatusOK, details)
}

// BeginShipment handles POST /api/orders/{id}/ship/begin requests.
func (h *OrderHandler) BeginShipment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	session, err := h.service.BeginShipment(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Ship handles POST /api/orders/{id}/ship requests. The body is a multipart
// form with a tracking_number field and a package_photo file part.
func (h *OrderHandler) Ship(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return
	}

	trackingNumber := r.FormValue("tracking_number")

	var photo *fulfillment.Photo
	file, header, err := r.FormFile("package_photo")
	if err == nil {
		defer file.Close()
		photo = &fulfillment.Photo{
			Content:     file,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		}
	}

	order, err := h.service.SubmitShipment(r.Context(), orderID, trackingNumber, photo)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newOrderDetail(order))
}

// refundRequest is the JSON body for refund requests.
type refundRequest struct {
	Reason string `json:"reason"`
}

// Refund handles POST /api/orders/{id}/refund requests.
func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.RequestRefund(r.Context(), orderID, req.Reason)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newOrderDetail(order))
}

// Tracking handles GET /api/orders/{id}/tracking requests.
func (h *OrderHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"trackingNumber": h.service.TrackingNumber(order),
	})
}

// orderID extracts and validates the order ID path segment.
func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}
	return orderID, true
}
