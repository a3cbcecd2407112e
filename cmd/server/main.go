package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignite/survey-tracker/internal/api"
	"github.com/ignite/survey-tracker/internal/app"
	"github.com/ignite/survey-tracker/internal/config"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %v\n"+
			"  Hint: Run 'lsof -i :<port>' to find the blocking process", addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  Survey Tracker Server (cmd/server/main.go)                ║")
	log.Println("║  Baseline, follow-up and dashboard API                     ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	addr := cfg.Server.Addr()
	if err := checkPortAvailable(addr); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: %s is available", addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer a.Close()
	defer logger.Sync()

	if a.Redis != nil {
		log.Println("[redis] analytics cache, sessions and import lock on Redis")
	} else {
		log.Println("[redis] not configured: in-memory sessions, no analytics cache, Postgres import lock")
	}
	if a.S3 != nil {
		log.Printf("[s3] import bucket %s", cfg.Storage.S3Bucket)
	}

	h := api.NewHandlers(a.Respondents, a.Followups, a.References, a.Dashboard)
	h.SetSessionStore(a.Sessions)
	h.SetImporter(a.Importer, a.Opener)
	h.SetMaxUploadBytes(int64(cfg.Import.MaxUploadMB) << 20)
	h.SetReportRenderer(a.Reports)

	var bucket api.BucketHeader
	if a.S3 != nil {
		bucket = a.S3
	}
	hc := api.NewHealthChecker(a.DB, a.Redis, bucket, cfg.Storage.S3Bucket)
	server := api.NewServer(cfg, h, hc)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
