package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/barcode"
	"github.com/ledgerline/billing-api/internal/catalog"
	"github.com/ledgerline/billing-api/internal/config"
	"github.com/ledgerline/billing-api/internal/customer"
	"github.com/ledgerline/billing-api/internal/dashboard"
	"github.com/ledgerline/billing-api/internal/db"
	"github.com/ledgerline/billing-api/internal/httpx"
	"github.com/ledgerline/billing-api/internal/ingestion"
	"github.com/ledgerline/billing-api/internal/invoice"
	appmiddleware "github.com/ledgerline/billing-api/internal/middleware"
	"github.com/ledgerline/billing-api/internal/payment"
	"github.com/ledgerline/billing-api/internal/reports"
	"github.com/ledgerline/billing-api/internal/repository"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	migrationsPath := flag.String("migrations", "migrations", "directory containing SQL migrations")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := db.RunMigrations(cfg.Database, *migrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("migrations applied")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.NewConnection(ctx, cfg.Database)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()
	logger.Info("connected to database", zap.String("dbname", cfg.Database.DBName))

	products := repository.NewProductRepository(conn.Pool)
	customers := repository.NewCustomerRepository(conn.Pool)
	invoices := repository.NewInvoiceRepository(conn.Pool)
	users := repository.NewUserRepository(conn.Pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(users, tokens)
	authHandler := auth.NewHandler(authService, logger)

	barcodes := barcode.NewAllocator(func(ctx context.Context, orgID uuid.UUID, code string) (bool, error) {
		return products.BarcodeTaken(ctx, orgID, code, uuid.Nil)
	})

	catalogService := catalog.NewService(products, barcodes, barcode.RenderImage)
	catalogHandler := catalog.NewHandler(catalogService, logger)

	ingestionService := ingestion.NewService(products, barcodes, barcode.RenderImage, logger)
	ingestionHandler := ingestion.NewHandler(ingestionService, logger)

	customerHandler := customer.NewHandler(customers, logger)
	invoiceHandler := invoice.NewHandler(invoices, logger)

	dashboardService := dashboard.NewService(invoices, products)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)

	reportsService := reports.NewService(invoices, customers)
	reportsHandler := reports.NewHandler(reportsService, logger)

	gateway := payment.NewHTTPGateway(cfg.Payment.GatewayURL)
	paymentHandler := payment.NewHandler(gateway, logger)

	r := chi.NewRouter()
	r.Use(appmiddleware.Recovery(logger))
	r.Use(appmiddleware.Logging(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Route("/products", func(r chi.Router) {
				ingestionHandler.Routes(r)
				catalogHandler.Routes(r)
			})
			r.Route("/customers", customerHandler.Routes)
			r.Route("/invoices", invoiceHandler.Routes)
			r.Route("/dashboard", dashboardHandler.Routes)
			r.Route("/reports", reportsHandler.Routes)
			r.Route("/payments", paymentHandler.Routes)
		})
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
