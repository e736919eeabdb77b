package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asseto/trackgo/internal/ai"
	"github.com/asseto/trackgo/internal/config"
	"github.com/asseto/trackgo/internal/database"
	"github.com/asseto/trackgo/internal/handlers"
	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
	"github.com/asseto/trackgo/internal/services/vendorbridge"
	"github.com/asseto/trackgo/internal/services/warranty"
	"github.com/asseto/trackgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Category{},
		&models.Device{},
		&models.Vendor{},
		&models.RMA{},
		&models.RMASequence{},
		&models.Notification{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Event transport: websocket hub plus the persistent notification
	// store behind it
	hub := websocket.NewHub()
	go hub.Run()
	notifier := websocket.NewNotifier(hub, db)

	// 5. Lifecycle engine
	engine := rma.NewEngine(db, notifier)

	if cfg.Triage.APIKey != "" {
		triager, err := ai.NewTriageClient(context.Background(), cfg.Triage.APIKey, cfg.Triage.Model)
		if err != nil {
			log.Printf("⚠️ Triage disabled: %v", err)
		} else {
			defer triager.Close()
			engine.SetTriager(triager)
			log.Println("✅ AI priority triage enabled")
		}
	}

	// 6. Background services
	erpBridge := vendorbridge.NewService(db, vendorbridge.Config{
		URL:      cfg.VendorERP.URL,
		Database: cfg.VendorERP.Database,
		Username: cfg.VendorERP.Username,
		Password: cfg.VendorERP.Password,
	})
	erpBridge.Start()

	warrantyChecker := warranty.NewChecker(db, notifier)
	warrantyChecker.Start()

	// 7. HTTP router
	router := handlers.NewRouter(db, cfg, engine, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	warrantyChecker.Stop()
	if cfg.VendorERP.URL != "" {
		erpBridge.Stop()
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
