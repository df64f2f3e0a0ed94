package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentacloud-backend/internal/handlers"
	"rentacloud-backend/internal/middleware"
	"rentacloud-backend/internal/monitoring"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	customerHandler *handlers.CustomerHandler,
	rentalHandler *handlers.RentalHandler,
	reportHandler *handlers.ReportHandler,
	backupHandler *handlers.BackupHandler,
	paymentHandler *handlers.PaymentHandler,
	healthHandler *handlers.HealthHandler,
	monitor *monitoring.Monitor,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/2fa", authHandler.LoginTOTP).Methods("POST")

	// Gateway webhook (authenticated by signature, not JWT)
	r.HandleFunc("/api/payments/webhook", paymentHandler.Webhook).Methods("POST")

	// Authenticated account routes
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Two-factor enrolment
	twoFAAPI := r.PathPrefix("/api/2fa").Subrouter()
	twoFAAPI.Use(authMiddleware.Authenticate)
	twoFAAPI.HandleFunc("/setup", authHandler.SetupTOTP).Methods("POST")
	twoFAAPI.HandleFunc("/verify", authHandler.VerifyTOTP).Methods("POST")

	// Protected API routes - Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.ListProducts).Methods("GET")
	productsAPI.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	productsAPI.HandleFunc("/stats/overview", productHandler.Stats).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.UpdateProduct).Methods("PUT")
	productsAPI.HandleFunc("/{id}", productHandler.DeleteProduct).Methods("DELETE")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.CreateCustomer).Methods("POST")
	customersAPI.HandleFunc("/stats/overview", customerHandler.Stats).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	customersAPI.HandleFunc("/{id}", customerHandler.DeleteCustomer).Methods("DELETE")

	// Protected API routes - Rentals
	rentalsAPI := r.PathPrefix("/api/rentals").Subrouter()
	rentalsAPI.Use(authMiddleware.Authenticate)
	rentalsAPI.HandleFunc("", rentalHandler.ListRentals).Methods("GET")
	rentalsAPI.HandleFunc("", rentalHandler.CreateRental).Methods("POST")
	rentalsAPI.HandleFunc("/stats/overview", rentalHandler.Stats).Methods("GET")
	rentalsAPI.HandleFunc("/{id}", rentalHandler.GetRental).Methods("GET")
	rentalsAPI.HandleFunc("/{id}", rentalHandler.UpdateRental).Methods("PUT")
	rentalsAPI.HandleFunc("/{id}", rentalHandler.CancelRental).Methods("DELETE")
	rentalsAPI.HandleFunc("/{id}/return", rentalHandler.ReturnRental).Methods("PATCH")
	rentalsAPI.HandleFunc("/{id}/receipt", reportHandler.Receipt).Methods("GET")
	rentalsAPI.HandleFunc("/{id}/payments", paymentHandler.ListByRental).Methods("GET")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/daily", reportHandler.Daily).Methods("GET")
	reportsAPI.HandleFunc("/monthly", reportHandler.Monthly).Methods("GET")

	// Protected API routes - Backup (admin only)
	backupAPI := r.PathPrefix("/api/backup").Subrouter()
	backupAPI.Use(authMiddleware.Authenticate)
	backupAPI.Use(authMiddleware.RequireRole("admin"))
	backupAPI.HandleFunc("/export", backupHandler.Export).Methods("GET")
	backupAPI.HandleFunc("/import", backupHandler.Import).Methods("POST")
	backupAPI.HandleFunc("/upload", backupHandler.Upload).Methods("POST")
	backupAPI.HandleFunc("/list", backupHandler.ListRemote).Methods("GET")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/order", paymentHandler.CreateOrder).Methods("POST")

	// Live monitoring feed
	r.HandleFunc("/ws/monitoring", monitor.HandleWS)

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
