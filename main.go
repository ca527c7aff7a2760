// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"olistdash/api/config"
	"olistdash/api/dataset"
	"olistdash/api/handlers"
	"olistdash/api/middleware"
	"olistdash/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Load the dashboard dataset (read once, shared read-only) ---
	ds, err := dataset.Load(cfg)
	if err != nil {
		log.Fatalf("Failed to load dashboard data from %s: %v", cfg.DataDir, err)
	}

	dashboardStore := store.NewDashboardStore(ds)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigin))
	r.Use(middleware.RequestIDMiddleware())

	dashboardHandlers.Register(r.Group("/api"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Dashboard API starting on http://localhost:%s (data: %s)", cfg.Port, cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Dashboard API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
