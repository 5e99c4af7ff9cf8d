package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"basketcatalog/internal/config"
	"basketcatalog/internal/database"
	"basketcatalog/internal/handlers"
	"basketcatalog/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type store interface {
	service.Gateway
	service.CategoryStore
}

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo store
	if cfg.DBDriver == "memory" {
		mem := database.NewMemoryRepo()
		if _, err := mem.SeedBaskets(ctx, database.Fixtures(time.Now())); err != nil {
			logger.Fatalf("seed memory store: %v", err)
		}
		repo = mem
	} else {
		db, err := initDB(cfg.DBDriver, cfg.DSN())
		if err != nil {
			logger.Fatalf("db connect failed: %v", err)
		}
		defer db.Close()

		r := database.New(db, logger)
		if cfg.AutoMigrate {
			if err := r.Migrate(ctx); err != nil {
				logger.Fatalf("migrate: %v", err)
			}
		}
		repo = r
	}

	var refresherDone <-chan struct{}
	if cfg.RefreshSchedule != "" {
		refresher := service.NewCategoryRefresher(repo, logger)
		refresherDone, err = refresher.Start(ctx, cfg.RefreshSchedule)
		if err != nil {
			logger.Fatalf("category refresher: %v", err)
		}
	}

	catalog := service.NewCatalogService(repo, logger, cfg.StoreTimeout)
	h := handlers.NewHandler(catalog, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("server starting on :%s (store=%s)", cfg.Port, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	// the store is closed by the deferred db.Close once a running refresh finishes
	if refresherDone != nil {
		select {
		case <-refresherDone:
		case <-shutdownCtx.Done():
			logger.Warn("category refresher did not stop before shutdown deadline")
		}
	}
}

func initDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if driver == "sqlite" {
		// single writer; avoids SQLITE_BUSY under the refresher
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	return db, nil
}
