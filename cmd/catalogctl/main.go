package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"basketcatalog/internal/config"
	"basketcatalog/internal/database"
	"basketcatalog/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var logger = logrus.New()

func main() {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Administrative tasks for the basket catalog store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd(), refreshCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Fatal(err)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r *database.Repo) error {
				if err := r.Migrate(ctx); err != nil {
					return err
				}
				logger.Info("schema applied")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo baskets when the catalog is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r *database.Repo) error {
				n, err := r.Count(ctx, nil)
				if err != nil {
					return fmt.Errorf("count baskets: %w", err)
				}
				if n > 0 && !force {
					logger.Infof("catalog already has %d baskets; skipping (use --force to merge fixtures)", n)
					return nil
				}
				inserted, err := r.SeedBaskets(ctx, database.Fixtures(time.Now()))
				if err != nil {
					return err
				}
				logger.Infof("seeded %d baskets", inserted)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "insert missing fixtures even if baskets exist")
	return cmd
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Recompute stored basket categories from their assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r *database.Repo) error {
				n, err := service.NewCategoryRefresher(r, logger).RefreshOnce(ctx)
				if err != nil {
					return err
				}
				logger.Infof("updated %d basket categories", n)
				return nil
			})
		},
	}
}

func withRepo(ctx context.Context, fn func(context.Context, *database.Repo) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("DB_DRIVER=memory has nothing to administer")
	}

	db, err := sqlx.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	defer db.Close()
	return fn(ctx, database.New(db, logger))
}
