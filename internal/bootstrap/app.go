package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"minutes-backend/internal/minutes"
	"minutes-backend/internal/services/health"
	"minutes-backend/internal/shared/config"
	"minutes-backend/internal/shared/server"
	"minutes-backend/internal/shared/server/middleware"
	"minutes-backend/internal/shared/storage/db"
	"minutes-backend/internal/shared/storage/object"
	localstore "minutes-backend/internal/shared/storage/object/local"
	miniostore "minutes-backend/internal/shared/storage/object/minio"
	s3store "minutes-backend/internal/shared/storage/object/s3"
	"minutes-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Archive        object.ObjectStore
	RunRepo        minutes.RunRepo
	MinutesService *minutes.Service
	MinutesHandler *minutes.Handler
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildContext(context.Background(), cfg)
}

// BuildContext is Build with a caller-supplied context for connection setup.
func BuildContext(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Archive: archive,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		MinutesHandler: app.MinutesHandler,
		Health:         health.NewService(app.DB),
		Limiter:        middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"run_log":       runLogKind(sqlDB),
		"archive_store": cfg.ArchiveStore,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.db.skipped", map[string]any{"reason": "DATABASE_URL empty; run log kept in memory"})
		return nil, nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, db.DefaultOptions(db.ProfileLambda).WithEnv())
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions(db.ProfileServer).WithEnv())
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.fallback", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArchiveStore {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("ARCHIVE_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		if strings.TrimSpace(cfg.MinIOEndpoint) == "" {
			return nil, errors.New("ARCHIVE_STORE=minio requires MINIO_ENDPOINT")
		}
		store, err := miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.RunRepo = &minutes.PGRepo{DB: app.DB}
	} else {
		app.RunRepo = minutes.NewMemoryRepo(0)
	}

	app.MinutesService = minutes.NewService(app.RunRepo, app.Archive)
	app.MinutesHandler = minutes.NewHandler(app.MinutesService, app.Config.MaxUploadBytes)

	if app.MinutesHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func runLogKind(sqlDB *sql.DB) string {
	if sqlDB != nil {
		return "postgres"
	}
	return "memory"
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
