package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HyungJun-An/LookFit/internal/service"
	"github.com/HyungJun-An/LookFit/pkg/health"
	"github.com/HyungJun-An/LookFit/pkg/middleware"
)

// NewRouter creates a chi router with all routes registered. Cart and order
// routes require a member identity; catalog reads are anonymous.
func NewRouter(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	orderService *service.OrderService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("lookfit"))
	r.Use(middleware.Tracing("lookfit"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	productHandler := NewProductHandler(catalogService, logger)
	cartHandler := NewCartHandler(cartService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.UpsertProduct)
		r.Get("/{productID}", productHandler.GetProduct)
		r.Post("/{productID}/stock", productHandler.AdjustStock)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RequireMember)

		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productID}", cartHandler.UpdateItem)
		r.Delete("/items/{productID}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RequireMember)

		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{orderNo}", orderHandler.GetOrder)
	})

	return r
}
