package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "github.com/alanyoungcy/tickbot/internal/blob/s3"
	"github.com/alanyoungcy/tickbot/internal/cache/redis"
	"github.com/alanyoungcy/tickbot/internal/config"
	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application modes
// need. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	TickStore   domain.TickStore
	RecordCache domain.RecordCache
	BlobWriter  domain.BlobWriter
	Archiver    domain.Archiver
}

// needsPostgres returns true for modes that require the tick store.
func needsPostgres(mode string) bool {
	switch mode {
	case "live", "replay":
		return true
	default:
		return false
	}
}

// needsRedis returns true for modes that require the record cache.
func needsRedis(mode string) bool {
	switch mode {
	case "live", "serve":
		return true
	default:
		return false
	}
}

// needsS3 returns true for modes that archive records to object storage.
func needsS3(mode string) bool {
	return mode == "live"
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}
	mode := strings.ToLower(cfg.Mode)

	if needsPostgres(mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.TickStore = postgres.NewTickStore(pgClient.Pool())
	}

	if needsRedis(mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.RecordCache = redis.NewRecordCache(redisClient, cfg.Redis.RecentLimit)
	}

	if needsS3(mode) && cfg.S3.Endpoint != "" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		if deps.TickStore != nil {
			deps.Archiver = s3blob.NewArchiver(deps.BlobWriter, deps.TickStore)
		}
	}

	logger.InfoContext(ctx, "dependencies wired",
		slog.Bool("postgres", deps.TickStore != nil),
		slog.Bool("redis", deps.RecordCache != nil),
		slog.Bool("s3", deps.BlobWriter != nil),
	)

	return deps, cleanup, nil
}
