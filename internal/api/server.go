package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventide/internal/cache"
	"eventide/internal/config"
	"eventide/internal/database"
	"eventide/internal/external"
	"eventide/internal/handlers"
	"eventide/internal/messaging"
	"eventide/internal/middleware"
	"eventide/internal/repository"
	"eventide/internal/service"
)

// Server owns the process-level dependencies (store, cache, messaging)
// and injects them into the components; the components never construct
// their own clients.
type Server struct {
	router *gin.Engine
	config *config.Config
	db     *database.DB
	redis  *cache.Client
	nats   *messaging.NATSClient
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	paystack := external.NewPaystackClient(cfg.Paystack)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, paystack, natsClient, cfg.Core)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	server := &Server{
		router: router,
		config: cfg,
		db:     db,
		redis:  redisClient,
		nats:   natsClient,
	}

	server.setupRoutes(services, redisClient)

	return server
}

func (s *Server) setupRoutes(services *service.Services, redisClient *cache.Client) {
	h := handlers.NewHandlers(services)

	api := s.router.Group("/api")

	// The gateway cannot authenticate; the webhook authenticates itself
	// by its HMAC signature.
	api.POST("/webhooks/paystack", h.HandleWebhook)

	authed := api.Group("")
	authed.Use(middleware.Auth(redisClient))
	{
		tickets := authed.Group("/tickets")
		{
			tickets.POST("", h.PurchaseTicket)
			tickets.PATCH("/cancel", h.CancelTicket)
			tickets.GET("/verify/:token", h.RedeemTicket)
		}

		payments := authed.Group("/payments")
		{
			payments.POST("/initialize", h.InitializePayment)
			payments.GET("/verify", h.VerifyPayment)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "eventide-api",
	})
}

// GetRouter returns the router for the HTTP server and for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the process-level connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
