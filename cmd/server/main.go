package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/brapi"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/config"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/database"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/metrics"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/pricing"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/scheduler"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/service"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/version"
)

const (
	shutdownTimeout = 30 * time.Second
	refreshTimeout  = 5 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from cfg, so fall back to a default one.
		zap.Must(zap.NewProduction()).Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to create logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck // nothing useful to do on exit
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Monetary values are sent as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("connected to database",
		zap.String("path", cfg.Database.Path),
		zap.Int64("schema_version", schemaVersion),
	)

	issuer, err := auth.NewIssuer(cfg.Auth)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	realizedRepo := repository.NewRealizedProfitLossRepository(db)

	pricingService := pricing.NewService(
		brapi.NewQuoteClient(cfg.Brapi),
		pricing.NewCache(cfg.Pricing.CacheTTL),
		cfg.Pricing.FetchConcurrency,
		logger.Named("pricing"),
		m,
	)

	// Create services
	portfolioService := service.NewPortfolioService(productRepo, realizedRepo, pricingService, logger.Named("portfolio"), m)
	svc := api.Services{
		System:      service.NewSystemService(db),
		User:        service.NewUserService(userRepo, issuer, cfg.Auth.ProEmail),
		Product:     service.NewProductService(db, productRepo, transactionRepo, dividendRepo, expenseRepo, realizedRepo),
		Transaction: service.NewTransactionService(db, productRepo, transactionRepo, realizedRepo, cfg.RealizeOnSell),
		Dividend:    service.NewDividendService(db, productRepo, dividendRepo, expenseRepo),
		Expense:     service.NewExpenseService(db, productRepo, dividendRepo, expenseRepo),
		Realized:    service.NewRealizedProfitLossService(db, productRepo, realizedRepo),
		Portfolio:   portfolioService,
	}

	jobs := scheduler.New(logger.Named("scheduler"), refreshTimeout)
	if err := jobs.AddJob("price-refresh", cfg.Pricing.RefreshSchedule, portfolioService.RefreshPrices, true); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svc, issuer, cfg, logger, m),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version.Version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		jobs.Start()
		<-gctx.Done()

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		jobs.Stop(shutdownCtx)
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
