package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"intranet/internal/config"
	"intranet/internal/logging"
	"intranet/internal/models"
	"intranet/internal/repository"
	"intranet/internal/repository/memstore"
	"intranet/internal/server"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "intranet",
		Short:         "Corporate intranet backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yml", "Path to the YAML config file")
	cmd.AddCommand(newServeCommand(&configPath))
	cmd.AddCommand(newMigrateCommand(&configPath))
	return cmd
}

// bootstrap loads the config and builds the application logger.
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newServeCommand(configPath *string) *cobra.Command {
	var inMemory, migrateFirst bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			accessLog, err := logging.NewAccessLogger(cfg.Log.Level)
			if err != nil {
				return err
			}

			deps := server.Deps{
				Config:    cfg,
				Logger:    logger,
				AccessLog: accessLog,
			}

			if inMemory {
				logger.Warn("Running with in-memory storage, data is lost on exit")
				store := memstore.New(defaultDepartments...)
				deps.Departments, deps.Employees, deps.News = store.Departments(), store.Employees(), store.News()
			} else {
				db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()

				if migrateFirst {
					if err := repository.MigrateDB(db, cfg.Database.MigrationsPath, logger); err != nil {
						return err
					}
				}
				deps.Departments = repository.NewDepartmentRepository(db, logger)
				deps.Employees = repository.NewEmployeeRepository(db, logger)
				deps.News = repository.NewNewsRepository(db, logger)
			}

			srv, err := server.NewServer(deps)
			if err != nil {
				return err
			}

			// Context for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := srv.Run(ctx); err != nil {
				return err
			}
			logger.Info("Application stopped.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&inMemory, "memory", false, "Keep data in process memory instead of PostgreSQL")
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func newMigrateCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(*configPath, func(cfg *config.Config, db *sqlx.DB, logger *zap.Logger) error {
				return repository.MigrateDB(db, cfg.Database.MigrationsPath, logger)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(*configPath, func(cfg *config.Config, db *sqlx.DB, logger *zap.Logger) error {
				return repository.RollbackDB(db, cfg.Database.MigrationsPath, steps, logger)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func withDatabase(configPath string, fn func(*config.Config, *sqlx.DB, *zap.Logger) error) error {
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(cfg, db, logger)
}

var defaultDepartments = []models.Department{
	{ID: 1, Name: "Dirección"},
	{ID: 2, Name: "Recursos Humanos"},
	{ID: 3, Name: "Ventas"},
	{ID: 4, Name: "Tecnología"},
	{ID: 5, Name: "Finanzas"},
}
