package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Portfolio-Importer/internal/api/middleware"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
)

// Services bundles the services the HTTP layer exposes.
type Services struct {
	System  *service.SystemService
	Import  *service.ImportService
	Price   *service.PriceService
	Holding *service.HoldingService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/owner/{ownerId}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateOwnerIDMiddleware)

			importHandler := handlers.NewImportHandler(svc.Import, svc.Price, cfg.Upload.MaxBytes)
			r.Post("/import/positions", importHandler.ImportPositions)
			r.Post("/import/dividends", importHandler.ImportDividends)
			r.Post("/import/dividends/feed", importHandler.ImportDividendFeed)
			r.Post("/prices/refresh", importHandler.RefreshPrices)

			holdingHandler := handlers.NewHoldingHandler(svc.Holding)
			r.Get("/holdings", holdingHandler.Holdings)
			r.Get("/dividends", holdingHandler.Dividends)
		})
	})

	return r
}
