package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/analyses"
	"cv-analyzer/internal/docintel"
	"cv-analyzer/internal/llm"
	"cv-analyzer/internal/llm/gemini"
	"cv-analyzer/internal/llm/openai"
	"cv-analyzer/internal/notify"
	"cv-analyzer/internal/queue"
	"cv-analyzer/internal/services/health"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/server"
	"cv-analyzer/internal/shared/storage/db"
	"cv-analyzer/internal/shared/storage/object"
	azblobstore "cv-analyzer/internal/shared/storage/object/azblob"
	localstore "cv-analyzer/internal/shared/storage/object/local"
	miniostore "cv-analyzer/internal/shared/storage/object/minio"
	s3store "cv-analyzer/internal/shared/storage/object/s3"
	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/uploads"
)

// openDB is buildDB, replaceable in tests.
var openDB = buildDB

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Queue           queue.Client
	Pool            *queue.Pool
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Health          *health.Service
}

// Build wires every dependency from cfg. Jobs go to SQS when SQS_QUEUE_URL
// is set and to an in-process pool otherwise; call Start to run the pool.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Anything failing past this point must not leak the pool.
	fail := func(err error) (*App, error) {
		closeDB(sqlDB)
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store}
	if strings.TrimSpace(cfg.SQSQueueURL) != "" {
		sqsClient, err := queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
		if err != nil {
			return fail(err)
		}
		app.Queue = sqsClient
	} else {
		app.Pool = queue.NewPool(cfg.WorkerConcurrency, queue.DefaultPoolCapacity)
		app.Queue = app.Pool
	}

	if sqlDB != nil {
		app.AnalysesRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		app.AnalysesRepo = analyses.NewMemoryRepo()
	}

	svc := &analyses.Service{
		Repo:            app.AnalysesRepo,
		Store:           store,
		Queue:           app.Queue,
		LLM:             llmClient,
		Notifier:        buildNotifier(cfg),
		Policy:          uploads.NewPolicy(cfg.MaxUploadBytes),
		AnalysisTimeout: cfg.AnalysisTimeout,
	}
	if cfg.DocIntelEnabled() {
		svc.DocIntel = docintel.New(cfg.DocIntelEndpoint, cfg.DocIntelKey, cfg.DocIntelModelID)
	}
	app.AnalysesService = svc
	app.AnalysisHandler = analyses.NewHandler(svc, cfg.MaxUploadBytes)

	if sqlDB != nil {
		app.Health = health.NewService(cfg.AppVersion, sqlDB)
	} else {
		app.Health = health.NewService(cfg.AppVersion, nil)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		Health:          app.Health,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"llm_provider": cfg.LLMProvider,
		"database":     sqlDB != nil,
		"sqs":          app.Pool == nil,
		"docintel":     cfg.DocIntelEnabled(),
	})
	return app, nil
}

// Start runs the in-process workers, if any, and re-dispatches analyses a
// previous process left unfinished.
func (a *App) Start(ctx context.Context) {
	if a.Pool == nil {
		return
	}
	a.Pool.Start(ctx, a.AnalysesService.ProcessMessage)
	if _, err := a.AnalysesService.ResumeStale(ctx); err != nil {
		telemetry.Warn("bootstrap.resume_stale_failed", map[string]any{"error": err})
	}
}

// Shutdown drains the in-process pool and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain workers: %w", err))
		}
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// closeDB releases a pool opened during a Build that then failed. The Lambda
// singleton stays open for the next invocation.
func closeDB(sqlDB *sql.DB) {
	if sqlDB == nil || db.IsLambdaRuntime() {
		return
	}
	if err := sqlDB.Close(); err != nil {
		telemetry.Warn("bootstrap.close_db_failed", map[string]any{"error": err.Error()})
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB    *sql.DB
		err      error
		settings = db.SettingsFromEnv(db.CurrentProfile())
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, settings)
	} else {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL, settings)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	// Lambda functions rely on cmd/migrate having run.
	if !db.IsLambdaRuntime() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		store, err := miniostore.New(miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.AWSRegion,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "azure":
		store, err := azblobstore.New(cfg.AzureStorageConnectionString, cfg.AzureStorageContainer, "")
		if err != nil {
			return nil, err
		}
		if err := store.EnsureContainer(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "azure":
		if cfg.AzureOpenAIKey == "" || cfg.AzureOpenAIEndpoint == "" {
			telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewAzureClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIKey, cfg.AzureOpenAIDeployment, cfg.AzureOpenAIAPIVersion, cfg.LLMTimeout)
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	case "gemini":
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func buildNotifier(cfg config.Config) notify.Notifier {
	if !cfg.EmailEnabled {
		return notify.LogNotifier{FrontendURL: cfg.FrontendURL}
	}
	return notify.NewSMTP(notify.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		From:        cfg.EmailFromAddress,
		TLS:         cfg.SMTPTLS,
		FrontendURL: cfg.FrontendURL,
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
