// Package bootstrap provides dependency initialization for the rehab API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hallym-rehab/rehab-api/internal/config"
	"github.com/hallym-rehab/rehab-api/internal/database"
	"github.com/hallym-rehab/rehab-api/internal/program"
	"github.com/hallym-rehab/rehab-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	ProgramService *program.Service
	// LocalObjectsDir is the root of the local object store, empty when S3 is used.
	LocalObjectsDir string
	closers         []func() error
}

// Close releases resources held by the dependencies, such as the database pool.
func (d *Dependencies) Close() error {
	var firstErr error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize object storage
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if local, ok := store.(*storage.LocalStore); ok {
		deps.LocalObjectsDir = local.Root()
	}

	// Initialize temp file area
	temp, err := storage.NewTempFiles(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	// Initialize program repository
	repo, err := initRepository(ctx, cfg, logger, deps)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	deps.ProgramService = program.NewService(
		repo,
		store,
		temp,
		logger,
		program.WithBucket(cfg.S3Bucket),
	)
	return deps, nil
}

// initStorage creates the appropriate object store based on configuration.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ObjectStore, error) {
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 store: %w", err)
		}
		logger.Info("S3 object store configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
			slog.String("endpoint", cfg.S3Endpoint),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStore(cfg.LocalStoreDir, cfg.LocalPublicURL)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	logger.Info("local object store configured",
		slog.String("root", localStore.Root()),
		slog.String("public_url", cfg.LocalPublicURL),
	)
	return localStore, nil
}

// initRepository opens the configured repository and seeds development members.
func initRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger, deps *Dependencies) (program.Repository, error) {
	if cfg.DatabaseDriver == database.DriverMemory {
		repo := program.NewMemoryRepository()
		for _, id := range cfg.SeedMemberIDs {
			repo.AddMember(id, fmt.Sprintf("member-%d", id))
		}
		logger.Info("in-memory repository configured",
			slog.Int("seeded_members", len(cfg.SeedMemberIDs)),
		)
		return repo, nil
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, func() error { return database.Close(db) })

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	repo := database.NewGormRepository(db)
	for _, id := range cfg.SeedMemberIDs {
		if err := repo.EnsureMember(ctx, &program.Member{ID: id, Name: fmt.Sprintf("member-%d", id)}); err != nil {
			return nil, fmt.Errorf("seed member %d: %w", id, err)
		}
	}
	logger.Info("database repository configured",
		slog.String("driver", cfg.DatabaseDriver),
		slog.Int("seeded_members", len(cfg.SeedMemberIDs)),
	)
	return repo, nil
}
