package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/config"
	"github.com/terraverde/terraverde-api/internal/auth"
	authmw "github.com/terraverde/terraverde-api/internal/auth/middleware"
	"github.com/terraverde/terraverde-api/internal/platform/blobstore"
	"github.com/terraverde/terraverde-api/internal/platform/cache"
	"github.com/terraverde/terraverde-api/internal/platform/docstore"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/reports/repository"
)

// Stores holds every external collaborator the services are built on.
type Stores struct {
	Docs     docstore.Store
	Blobs    blobstore.Store
	Cache    cache.Cache
	Archive  repository.Archive
	DB       *pgxpool.Pool
	Verifier authmw.TokenVerifier

	closers []func() error
}

// Close releases clients in reverse order of creation.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func (s *Stores) onClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// MemoryStores is the dev/test wiring with nothing external.
func MemoryStores() *Stores {
	return &Stores{
		Docs:    docstore.NewMemoryStore(),
		Blobs:   blobstore.NewMemoryStore(),
		Cache:   cache.Noop{},
		Archive: repository.NoopArchive{},
	}
}

// OpenStores connects the backends selected by cfg. On error everything
// opened so far is closed.
func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *Stores, err error) {
	log = logger.OrNop(log)
	s := MemoryStores()
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	var app *firebase.App
	if cfg.Firebase.HasCredentials() {
		if app, err = auth.InitializeFirebase(ctx, &cfg.Firebase); err != nil {
			return nil, err
		}
		authClient, err := auth.NewAuthClient(ctx, app)
		if err != nil {
			return nil, err
		}
		s.Verifier = authClient
		log.Info("firebase auth enabled", zap.String("project_id", cfg.Firebase.ProjectID))
	}

	if err = s.openDocstore(ctx, cfg, app); err != nil {
		return nil, err
	}
	if err = s.openBlobstore(ctx, cfg, app); err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			return nil, err
		}
		s.onClose(client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, statistics will be recomputed until it recovers", zap.Error(err))
		}
		s.Cache = cache.NewRedisCache(client, cfg.Redis.StatsTTL)
	}

	if cfg.Database.DSN != "" {
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			return nil, err
		}
		s.onClose(func() error { pool.Close(); return nil })
		s.DB = pool

		sqlDB := stdlib.OpenDBFromPool(pool)
		s.onClose(sqlDB.Close)
		if s.Archive, err = openArchive(ctx, sqlDB); err != nil {
			return nil, err
		}
	}

	log.Info("stores ready",
		zap.String("docstore", s.Docs.Name()),
		zap.String("blobstore", s.Blobs.Name()),
		zap.Bool("redis", cfg.Redis.Enabled()),
		zap.Bool("report_archive", s.DB != nil),
	)
	return s, nil
}

func (s *Stores) openDocstore(ctx context.Context, cfg *config.Config, app *firebase.App) error {
	switch cfg.Firebase.Backend {
	case config.BackendFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return fmt.Errorf("failed to get Firestore client: %w", err)
		}
		s.onClose(client.Close)
		s.Docs = docstore.NewFirestoreStore(client)
	case config.BackendRTDB:
		client, err := app.Database(ctx)
		if err != nil {
			return fmt.Errorf("failed to get Realtime Database client: %w", err)
		}
		s.Docs = docstore.NewRTDBStore(client)
	}
	return nil
}

func (s *Stores) openBlobstore(ctx context.Context, cfg *config.Config, app *firebase.App) error {
	switch cfg.Storage.Backend {
	case config.StorageFirebase:
		client, err := app.Storage(ctx)
		if err != nil {
			return fmt.Errorf("failed to get Storage client: %w", err)
		}
		bucket, err := client.Bucket(cfg.Firebase.StorageBucket)
		if err != nil {
			return fmt.Errorf("failed to open bucket %s: %w", cfg.Firebase.StorageBucket, err)
		}
		s.Blobs = blobstore.NewGCSStore(bucket, cfg.Firebase.StorageBucket)
	case config.StorageS3:
		opt := blobstore.S3Options{
			Bucket:          cfg.Storage.S3Bucket,
			Region:          cfg.Storage.S3Region,
			Endpoint:        cfg.Storage.S3Endpoint,
			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretKey,
			PublicURL:       cfg.Storage.PublicURL,
		}
		client, err := blobstore.NewS3Client(ctx, opt)
		if err != nil {
			return err
		}
		s.Blobs = blobstore.NewS3Store(client, opt)
	}
	return nil
}

func openArchive(ctx context.Context, db *sql.DB) (*repository.SQLArchive, error) {
	archive := repository.NewSQLArchive(db)
	if err := archive.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}
