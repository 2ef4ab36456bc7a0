package router

import (
	"clientback/internal/handlers"
	"clientback/internal/metrics"
	"clientback/internal/middleware"
	"clientback/internal/ratelimit"
	"clientback/internal/repositories"
	"clientback/internal/services"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Users   repositories.UserRepository
	Clients repositories.ClientRepository
	Tokens  *utils.TokenManager
	Hasher  utils.PasswordHasher

	// Optional.
	LoginLimiter ratelimit.Limiter
	DB           handlers.Pinger
	Metrics      *metrics.Metrics
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(gin.Recovery())
	if deps.Metrics != nil {
		engine.Use(deps.Metrics.Middleware())
	}

	// Initialize Services
	accountService := services.NewAccountService(deps.Users, deps.Hasher, deps.Tokens)
	clientService := services.NewClientService(deps.Clients, deps.Users)

	// Initialize Handlers
	userHandler := handlers.NewUserHandler(accountService, deps.Metrics)
	clientHandler := handlers.NewClientHandler(clientService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	var loginLimit gin.HandlerFunc
	if deps.LoginLimiter != nil {
		loginLimit = middleware.RateLimit(deps.LoginLimiter, middleware.ClientIPKey, func(*gin.Context) {
			deps.Metrics.RecordLogin(metrics.LoginThrottled)
		})
	}
	auth := middleware.AuthMiddleware(deps.Tokens)

	SetupHealthRoutes(engine, healthHandler, deps.Metrics)
	SetupUserRoutes(engine, userHandler, auth, loginLimit)
	SetupClientRoutes(engine, clientHandler, auth)
}
