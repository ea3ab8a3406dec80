package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "plot-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string, parcels *ParcelHandler, cart *CartHandler, admin *AdminHandler, baseLogger core_port.LoggerPort) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	// Карта участков открывается в браузере напрямую.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(IdentityMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные маршруты: карта, детали, заявки.
		r.Get("/parcels", parcels.GetParcels)
		r.Get("/parcels/{parcelID}", parcels.GetParcelDetails)
		r.Post("/parcels/{parcelID}/reserve", parcels.Reserve)
		r.Post("/parcels/{parcelID}/buy", parcels.Buy)
		r.Post("/parcels/{parcelID}/interest", parcels.RegisterInterest)

		// Корзина требует распознанного пользователя.
		r.Route("/cart", func(r chi.Router) {
			r.Use(RequireUserMiddleware)
			r.Get("/", cart.GetCart)
			r.Post("/", cart.AddToCart)
			r.Delete("/{plotID}", cart.RemoveFromCart)
			r.Post("/checkout", cart.Checkout)
		})

		// Админские маршруты. Роль проверяется в use case.
		r.Route("/admin/parcels", func(r chi.Router) {
			r.Patch("/{parcelID}/status", admin.SetStatus)
			r.Patch("/{parcelID}/price", admin.SetPrice)
			r.Post("/import", admin.Import)
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
