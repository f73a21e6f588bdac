package handler

import (
	"net/http"

	"vendora/internal/analytics"
	"vendora/internal/currency"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AnalyticsHandler handles vendor analytics HTTP requests.
type AnalyticsHandler struct {
	service analytics.Service
	rates   *currency.Cache
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service analytics.Service, rates *currency.Cache, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		rates:   rates,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// VendorAnalytics handles GET /api/vendors/{id}/analytics requests. The
// optional currency query parameter selects the display currency; amounts
// are aggregated in USD and converted in a display pass.
func (h *AnalyticsHandler) VendorAnalytics(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vendor ID format", h.logger)
		return
	}

	result, err := h.service.VendorAnalytics(r.Context(), vendorID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	conv := currency.NewConverter(h.rates, r.URL.Query().Get("currency"))
	localized := analytics.Localize(r.Context(), *result, conv)

	writeJSON(w, http.StatusOK, localized)
}
