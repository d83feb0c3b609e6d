package main

import (
	"context"
	"errors"
	"log"

	"task-tracker-api/internal/database"
	"task-tracker-api/internal/middleware"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"gorm.io/gorm"
)

type httpServer interface {
	Shutdown(ctx context.Context) error
}

// shutdownOperation stops the limiter, drains the server and closes the
// database. The database is closed even when draining fails.
func shutdownOperation(server httpServer, limiter *middleware.RateLimiter, db *gorm.DB) gfshutdown.Operation {
	return func(ctx context.Context) error {
		log.Println("Graceful shutdown initiated...")
		limiter.Stop()
		return errors.Join(server.Shutdown(ctx), database.Close(db))
	}
}
