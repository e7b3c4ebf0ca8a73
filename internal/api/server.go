package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voyago/internal/cache"
	"voyago/internal/config"
	"voyago/internal/database"
	"voyago/internal/external"
	"voyago/internal/handlers"
	"voyago/internal/logger"
	"voyago/internal/messaging"
	"voyago/internal/middleware"
	"voyago/internal/repository"
	"voyago/internal/search"
	"voyago/internal/service"
	"voyago/pkg/jwt"
)

// Server wires the HTTP API together: storage, messaging, cache, search,
// external clients, services and routes.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	redis    *cache.RedisClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)
	log := logger.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		// Events are best-effort; the API works without the broker.
		log.Warn("NATS unavailable, events disabled", "error", err)
		natsClient = &messaging.NATSClient{}
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, tour list cache disabled", "error", err)
		redisClient = nil
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		log.Warn("Elasticsearch unavailable, tour search disabled", "error", err)
		esClient = nil
	}

	momoClient := external.NewMomoClient(cfg.Momo)

	var mailer *external.Mailer
	if cfg.Mailer.BaseURL != "" {
		mailer = external.NewMailer(cfg.Mailer)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, momoClient, mailer, esClient, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		redis:    redisClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.redis)
	jwtService := jwt.NewService(s.config.JWTSecret, 24*time.Hour)

	// The gateway calls the IPN endpoint directly; it carries its own
	// HMAC signature instead of a bearer token.
	s.router.POST("/api/payments/ipn", h.PaymentCallback)

	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(jwtService))
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.PATCH("/cancel", h.CancelBooking)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", h.CreatePayment)
			payments.GET("/status", h.PaymentStatus)
		}

		flights := api.Group("/flights")
		{
			flights.POST("", h.CreateFlight)
			flights.GET("/:id", h.GetFlight)
		}

		hotelRooms := api.Group("/hotel-rooms")
		{
			hotelRooms.POST("", h.CreateHotelRoom)
			hotelRooms.GET("/:id", h.GetHotelRoom)
		}

		tours := api.Group("/tours")
		{
			tours.POST("", h.CreateTour)
			tours.GET("", h.ListTours)
			tours.GET("/search", h.SearchTours)
			tours.GET("/:id", h.GetTour)
		}

		vehicleTrips := api.Group("/vehicle-trips")
		{
			vehicleTrips.POST("", h.CreateVehicleTrip)
			vehicleTrips.GET("/:id", h.GetVehicleTrip)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	hc := s.db.HealthCheck(c.Request.Context())
	if hc.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"service":  "voyago-api",
			"database": hc,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "voyago-api",
		"database": hc,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests and the HTTP server in main.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes all external connections.
func (s *Server) Cleanup() error {
	log := logger.Get()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
