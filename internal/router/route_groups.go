package router

import (
	"clientback/internal/handlers"
	"clientback/internal/metrics"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes sets up liveness, readiness and metrics endpoints.
func SetupHealthRoutes(engine *gin.Engine, healthHandler *handlers.HealthHandler, m *metrics.Metrics) {
	engine.GET("/ping", healthHandler.Ping)
	engine.GET("/healthz", healthHandler.Healthz)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
}

// SetupUserRoutes sets up the account routes. loginLimit may be nil.
func SetupUserRoutes(engine *gin.Engine, userHandler *handlers.UserHandler, auth gin.HandlerFunc, loginLimit gin.HandlerFunc) {
	userRoutes := engine.Group("/users")
	{
		userRoutes.POST("/register", userHandler.RegisterUser)
		if loginLimit != nil {
			userRoutes.POST("/login", loginLimit, userHandler.LoginUser)
		} else {
			userRoutes.POST("/login", userHandler.LoginUser)
		}

		authRequiredRoutes := userRoutes.Group("")
		authRequiredRoutes.Use(auth)
		{
			authRequiredRoutes.GET("/me", userHandler.GetCurrentUser)
			authRequiredRoutes.PUT("/:userId", userHandler.UpdateUser)
		}
	}
}

// SetupClientRoutes sets up the client routes. All of them require a token.
func SetupClientRoutes(engine *gin.Engine, clientHandler *handlers.ClientHandler, auth gin.HandlerFunc) {
	clientRoutes := engine.Group("/clients")
	clientRoutes.Use(auth)
	{
		clientRoutes.GET("/all", clientHandler.GetAllClients)
		clientRoutes.GET("/:idType/:idNumber", clientHandler.GetClientByIdentification)
		clientRoutes.POST("/save", clientHandler.CreateClient)
		clientRoutes.PUT("/:clientId", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:clientId", clientHandler.DeleteClient)
	}
}
