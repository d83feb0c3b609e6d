package routes

import (
	"net/http"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Dependencies holds everything the router wires into handlers.
type Dependencies struct {
	Tasks       *service.TaskService
	Auth        *service.AuthService
	Tokens      *auth.TokenIssuer
	Hub         *realtime.Hub
	AuthLimiter *middleware.RateLimiter // optional, guards /api/auth

	// TrustedProxies may set X-Forwarded-For. Nil trusts none.
	TrustedProxies []string
}

func SetupRoutes(deps Dependencies) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	ginRouter := gin.New()
	if err := ginRouter.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORS(),
	)

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	authHandler := handlers.NewAuthHandler(deps.Auth)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	wsHandler := handlers.NewWSHandler(deps.Hub)

	api := ginRouter.Group("/api")

	// Public routes (no authentication required)
	public := api.Group("/auth")
	if deps.AuthLimiter != nil {
		public.Use(deps.AuthLimiter.Handler())
	}
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	// Protected routes (authentication required)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(deps.Tokens))
	{
		protected.GET("/tasks", taskHandler.GetTasks)
		protected.GET("/tasks/search", taskHandler.SearchTasks)
		protected.GET("/tasks/overdue", taskHandler.GetOverdueTasks)
		protected.GET("/tasks/status/:status", taskHandler.GetTasksByStatus)
		protected.GET("/tasks/priority/:priority", taskHandler.GetTasksByPriority)
		protected.GET("/tasks/:id", taskHandler.GetTask)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.PUT("/tasks/:id", taskHandler.UpdateTask)
		protected.PATCH("/tasks/:id/complete", taskHandler.CompleteTask)
		protected.DELETE("/tasks/:id", taskHandler.DeleteTask)

		protected.GET("/ws", wsHandler.Serve)
	}

	return ginRouter, nil
}
