package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/config"
	"task-tracker-api/internal/database"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/routes"
	"task-tracker-api/internal/service"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Init database
	db, err := database.Open(cfg.DBPath, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	hub := realtime.NewHub()
	taskService := service.NewTaskService(repository.NewTaskRepository(db), hub)
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewPasswordHasher(cfg.BcryptCost),
		tokens,
	)

	if cfg.SeedData {
		n, err := taskService.SeedSampleTasks(context.Background())
		if err != nil {
			log.Fatalf("Failed to seed sample tasks: %v", err)
		}
		log.Printf("Seeded %d sample tasks", n)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)

	// Setup the routes (public and protected routes)
	ginRoutes, err := routes.SetupRoutes(routes.Dependencies{
		Tasks:       taskService,
		Auth:        authService,
		Tokens:      tokens,
		Hub:         hub,
		AuthLimiter: limiter,

		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		printEndpoints()
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": shutdownOperation(server, limiter, db),
		},
	)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printEndpoints() {
	log.Println("API endpoints:")
	log.Println("  POST   /api/auth/register")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/tasks")
	log.Println("  GET    /api/tasks/search?title=")
	log.Println("  GET    /api/tasks/overdue")
	log.Println("  GET    /api/tasks/status/:status")
	log.Println("  GET    /api/tasks/priority/:priority")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  POST   /api/tasks")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  PATCH  /api/tasks/:id/complete")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")
}
