package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/rebound/internal/auth"
	"github.com/alexanderramin/rebound/internal/cli"
	"github.com/alexanderramin/rebound/internal/config"
	"github.com/alexanderramin/rebound/internal/db"
	"github.com/alexanderramin/rebound/internal/logging"
	"github.com/alexanderramin/rebound/internal/repository"
	"github.com/alexanderramin/rebound/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	bedtime, err := cfg.Bedtime()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	settings := service.DefaultSettings()
	settings.Location = loc
	settings.DefaultBedtime = bedtime
	settings.Policy = policy

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(logger),
		service.NewMetricsObserver(registry),
	}

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Config:   cfg,
		DB:       database,
		Logger:   logger,
		Recovery: service.NewRecoveryService(uow, settings, observers...),
		Tasks:    service.NewTaskService(repository.NewSQLiteTaskRepo(database), uow, settings, observers...),
		Stats:    service.NewStatsService(uow, settings, observers...),
		Registry: registry,
	}
	if tokens, err := auth.NewTokens(cfg.JWTSecret); err == nil {
		app.Tokens = tokens
	} else if !errors.Is(err, auth.ErrNoSecret) {
		return err
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
