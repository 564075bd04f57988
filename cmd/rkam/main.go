package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/rkam/internal/cli"
	"github.com/alexanderramin/rkam/internal/config"
	"github.com/alexanderramin/rkam/internal/db"
	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/httpapi"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/alexanderramin/rkam/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, domain.ErrAuthorization) || errors.Is(err, domain.ErrValidation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	// Config file: RKAM_CONFIG or ~/.rkam/rkam.yaml when present.
	cfg, err := config.Resolve(os.Getenv("RKAM_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	lineRepo := repository.NewSQLiteBudgetLineRepo(database)
	proposalRepo := repository.NewSQLiteProposalRepo(database)
	paymentRepo := repository.NewSQLitePaymentRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database).WithRetryPolicy(cfg.RetryPolicy())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observers := []service.UseCaseObserver{service.NewMetricsUseCaseObserver(registry)}
	if cfg.Log.Enabled {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}
	observer := service.NewMultiUseCaseObserver(observers...)

	app := &cli.App{
		Proposals: service.NewProposalService(proposalRepo, auditRepo, uow, observer),
		Payments:  service.NewPaymentService(paymentRepo, uow, observer),
		Budget:    service.NewBudgetService(lineRepo, uow, observer),
		Users:     service.NewUserService(userRepo),
		Audit:     service.NewAuditService(auditRepo),
		Import:    service.NewImportService(uow, observer),
		ServeAddr: cfg.HTTP.Addr,
		Plain:     !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	app.Serve = func(ctx context.Context, addr string) error {
		srv := httpapi.New(httpapi.Services{
			Proposals: app.Proposals,
			Payments:  app.Payments,
			Budget:    app.Budget,
			Users:     app.Users,
		}, httpapi.Options{Logger: logger, Gatherer: registry})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Listen(addr) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			logger.Info("shutting down http server")
			return srv.ShutdownWithTimeout(shutdownTimeout)
		}
	}

	return cli.NewRootCmd(app).Execute()
}
