package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentacloud-backend/internal/auth"
	"rentacloud-backend/internal/cache"
	"rentacloud-backend/internal/config"
	"rentacloud-backend/internal/database"
	"rentacloud-backend/internal/db"
	"rentacloud-backend/internal/handlers"
	"rentacloud-backend/internal/health"
	h "rentacloud-backend/internal/http"
	"rentacloud-backend/internal/middleware"
	"rentacloud-backend/internal/monitoring"
	"rentacloud-backend/internal/repositories"
	"rentacloud-backend/internal/services"
	"rentacloud-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; everything degrades to direct queries without it.
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Embedded migrations run on startup so the binary is self-contained.
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	rentalRepo := repositories.NewRentalRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	backupRepo := repositories.NewBackupRepository(pool)

	// Services
	totpService := services.NewTOTPService(userRepo)
	userService := services.NewUserService(userRepo, jwtManager, totpService)
	productService := services.NewProductService(productRepo)
	customerService := services.NewCustomerService(customerRepo, rentalRepo)
	rentalService := services.NewRentalService(rentalRepo, productRepo, customerRepo)
	reportService := services.NewReportService(rentalRepo)
	backupService := services.NewBackupService(cfg, productRepo, customerRepo, rentalRepo, backupRepo)
	paymentService := services.NewPaymentService(cfg, transactionRepo, rentalRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, totpService)
	productHandler := handlers.NewProductHandler(productService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	rentalHandler := handlers.NewRentalHandler(rentalService)
	reportHandler := handlers.NewReportHandler(reportService)
	backupHandler := handlers.NewBackupHandler(backupService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Live monitoring feed
	monitorCtx, monitorCancel := context.WithCancel(context.Background())
	defer monitorCancel()
	monitor := monitoring.NewMonitor(pool)
	monitor.Start(monitorCtx)

	router := h.NewRouter(
		authHandler,
		productHandler,
		customerHandler,
		rentalHandler,
		reportHandler,
		backupHandler,
		paymentHandler,
		healthHandler,
		monitor,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
