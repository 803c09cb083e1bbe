// The check_units worker drains the deferred rental unit assignment
// checks on a fixed interval. It shares the DI container with the server
// so every pass runs the same replan cycle the API uses.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/discope/booking-service/internal/services"
)

const pollInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run check_units worker: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	spannerDB := os.Getenv("SPANNER_DATABASE")
	if spannerDB == "" {
		spannerDB = "projects/discope/instances/dev-instance/databases/booking-db"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	serviceOpts, err := services.NewServiceOptions(ctx, spannerDB, redisAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	log.Printf("check_units worker polling every %s", pollInterval)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		res, err := serviceOpts.CheckUnits.Execute(ctx)
		if err != nil {
			log.Printf("check_units pass failed: %v", err)
		} else if res.Processed > 0 {
			log.Printf("check_units: processed %d tasks, %d resolved", res.Processed, res.Resolved)
		}

		select {
		case <-ctx.Done():
			log.Println("check_units worker stopping")
			return nil
		case <-ticker.C:
		}
	}
}
