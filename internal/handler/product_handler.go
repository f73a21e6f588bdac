package handler

import (
	"net/http"

	"vendora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles product catalogue HTTP requests.
type ProductHandler struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products repository.ProductRepository, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// ListByVendor handles GET /api/vendors/{id}/products requests.
func (h *ProductHandler) ListByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vendor ID format", h.logger)
		return
	}

	products, err := h.products.ListByVendor(r.Context(), vendorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}
