package router

import (
	"net/http"

	"vendora/internal/handler"
	"vendora/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	analyticsHandler *handler.AnalyticsHandler,
	productHandler *handler.ProductHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Order lifecycle routes
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)
	mux.HandleFunc("GET /api/orders/{id}/tracking", orderHandler.Tracking)
	mux.HandleFunc("POST /api/orders/{id}/ship/begin", orderHandler.BeginShipment)
	mux.HandleFunc("POST /api/orders/{id}/ship", orderHandler.Ship)
	mux.HandleFunc("POST /api/orders/{id}/refund", orderHandler.Refund)

	// Vendor dashboard routes
	mux.HandleFunc("GET /api/vendors/{id}/orders", orderHandler.ListByVendor)
	mux.HandleFunc("GET /api/vendors/{id}/products", productHandler.ListByVendor)
	mux.HandleFunc("GET /api/vendors/{id}/analytics", analyticsHandler.VendorAnalytics)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
