package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/avlebedev/finops-service/internal/config"
	"github.com/avlebedev/finops-service/internal/handler"
	"github.com/avlebedev/finops-service/internal/integrations/ecb"
	"github.com/avlebedev/finops-service/internal/jobs"
	"github.com/avlebedev/finops-service/internal/middleware"
	"github.com/avlebedev/finops-service/internal/models"
	"github.com/avlebedev/finops-service/internal/repository"
	"github.com/avlebedev/finops-service/internal/service"
	"github.com/avlebedev/finops-service/internal/utils/email"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.RunMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	rates := ecb.NewClient(cfg, logger)
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, rates, sender)
	h := handler.NewHandler(svc, logger, rates)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	// Public routes
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	registerLedgerRoutes(authRouter, h, "/accounts-payable", models.KindPayable)
	registerLedgerRoutes(authRouter, h, "/accounts-receivable", models.KindReceivable)
	authRouter.HandleFunc("/cash-flow-forecast/projections", h.Projections).Methods("GET")
	authRouter.HandleFunc("/cash-flow-forecast", h.ListForecastPeriods).Methods("GET")
	authRouter.HandleFunc("/cash-flow-forecast", h.CreateForecastPeriod).Methods("POST")
	authRouter.HandleFunc("/cash-flow-forecast/{id}", h.GetForecastPeriod).Methods("GET")
	authRouter.HandleFunc("/cash-flow-forecast/{id}", h.UpdateForecastPeriod).Methods("PUT")
	authRouter.HandleFunc("/cash-flow-forecast/{id}", h.DeleteForecastPeriod).Methods("DELETE")
	authRouter.HandleFunc("/dashboard/metrics", h.DashboardMetrics).Methods("GET")
	authRouter.HandleFunc("/dashboard/risks", h.DashboardRisks).Methods("GET")
	authRouter.HandleFunc("/audit-logs", h.AuditLogs).Methods("GET")
	authRouter.HandleFunc("/rates", h.Rates).Methods("GET")

	// Start overdue sweep
	sweeper := jobs.NewSweeper(svc, logger, cfg.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		logger.Fatalf("Failed to start sweeper: %v", err)
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	sweeper.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}

func registerLedgerRoutes(r *mux.Router, h *handler.Handler, prefix string, kind models.InvoiceKind) {
	r.HandleFunc(prefix+"/overdue", h.ListOverdue(kind)).Methods("GET")
	r.HandleFunc(prefix, h.ListInvoices(kind)).Methods("GET")
	r.HandleFunc(prefix, h.CreateInvoice(kind)).Methods("POST")
	r.HandleFunc(prefix+"/{id}", h.GetInvoice(kind)).Methods("GET")
	r.HandleFunc(prefix+"/{id}", h.UpdateInvoice(kind)).Methods("PUT")
	r.HandleFunc(prefix+"/{id}", h.DeleteInvoice(kind)).Methods("DELETE")
}
