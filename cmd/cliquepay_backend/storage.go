package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	"github.com/cliquepay/cliquepay_backend/internal/repositories/database/memory"
	"github.com/cliquepay/cliquepay_backend/internal/repositories/database/pgsql"
	"github.com/cliquepay/cliquepay_backend/internal/utils"
	"github.com/cliquepay/cliquepay_backend/pkg/config"
	"github.com/cliquepay/cliquepay_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// setupStorage builds the repositories for the configured driver and returns
// a function that releases them.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		if cfg.IsProduction {
			return portsrepo.RepositoryProvider{}, nil, errors.New("memory storage is not allowed in production")
		}
		store := memory.NewStore()
		seedDemoData(store, cfg, logger)
		logger.Warn("Using in-memory storage, data is lost on restart")
		return store.Provider(), func() {}, nil

	case config.StoragePostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil

	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// runMigrations applies every pending "up" migration.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// seedDemoData registers three users sharing a flat so the in-memory mode is
// usable straight away, and logs a bearer token for each of them.
func seedDemoData(store *memory.Store, cfg *config.Config, logger *slog.Logger) {
	users := []domain.User{
		{UserID: "u-alice", ExternalID: "demo|alice", Name: "alice", FullName: "Alice Example", Email: "alice@example.com"},
		{UserID: "u-bob", ExternalID: "demo|bob", Name: "bob", FullName: "Bob Example", Email: "bob@example.com"},
		{UserID: "u-carol", ExternalID: "demo|carol", Name: "carol", FullName: "Carol Example", Email: "carol@example.com"},
	}
	memberIDs := make([]string, 0, len(users))
	for _, u := range users {
		store.AddUser(u)
		memberIDs = append(memberIDs, u.UserID)
	}
	store.AddGroup(domain.Group{GroupID: "g-flat", Name: "Flat", CreatedBy: "u-alice"}, memberIDs...)

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, no demo tokens issued")
		return
	}
	for _, u := range users {
		token, err := utils.GenerateJWT(u.ExternalID, cfg.JWTSecret, 24*time.Hour, cfg.JWTIssuer)
		if err != nil {
			logger.Error("Failed to sign demo token", slog.String("user_id", u.UserID), slog.String("error", err.Error()))
			continue
		}
		logger.Info("Demo user ready", slog.String("user_id", u.UserID), slog.String("group_id", "g-flat"), slog.String("token", token))
	}
}
