package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"medfinder/internal/config"
	"medfinder/internal/domain"
	"medfinder/internal/events"
	custommiddleware "medfinder/internal/middleware"
	"medfinder/internal/repository"
	"medfinder/internal/service"
	"medfinder/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the API is assembled from
type Dependencies struct {
	Pharmacies repository.PharmacyRepository
	Medicines  repository.MedicineRepository
	Publisher  events.Publisher
	// Redis enables rate limiting of the public search when set
	Redis *redis.Client
	// Closers are released by Server.Close in order
	Closers []io.Closer
}

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	closers []io.Closer
}

// NewRouter wires repositories, services and handlers into the API router
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) chi.Router {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithMessage(w, http.StatusOK, "Server is running")
	})

	// Initialize services
	guard := service.NewOwnershipGuard(deps.Pharmacies)
	pharmacyService := service.NewPharmacyService(deps.Pharmacies, guard, deps.Publisher, logger)
	medicineService := service.NewMedicineService(deps.Medicines, deps.Pharmacies, guard, deps.Publisher, logger)

	// Initialize handlers
	pharmacyHandler := transport.NewPharmacyHandler(pharmacyService, logger)
	medicineHandler := transport.NewMedicineHandler(medicineService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	ownerOnly := custommiddleware.RequireRole([]string{domain.RolePharmacyOwner}, logger)

	// Search is public; an optional token only changes the rate limit key
	searchMiddleware := chi.Middlewares{custommiddleware.OptionalAuthMiddleware(cfg.JWT.Secret, logger)}
	if deps.Redis != nil {
		searchMiddleware = append(searchMiddleware, custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "ratelimit:search",
		}, logger))
	}
	searchLimiter := func(next http.Handler) http.Handler {
		return searchMiddleware.Handler(next)
	}

	// Register routes
	pharmacyHandler.RegisterRoutes(router, authMiddleware, ownerOnly)
	medicineHandler.RegisterRoutes(router, authMiddleware, ownerOnly, searchLimiter)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "Route not found")
	})

	return router
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		closers: deps.Closers,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	for _, closer := range s.closers {
		if err := closer.Close(); err != nil {
			s.logger.Error("Failed to close resource", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
