package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"cv-analyzer/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port        string
	Env         string
	AppName     string
	AppVersion  string
	LogLevel    string
	CORSOrigins []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool

	AzureStorageConnectionString string
	AzureStorageContainer        string

	DatabaseURL string

	LLMProvider           string
	LLMModel              string
	LLMTimeout            time.Duration
	AzureOpenAIKey        string
	AzureOpenAIEndpoint   string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string
	OpenAIAPIKey          string
	GeminiAPIKey          string

	DocIntelEndpoint string
	DocIntelKey      string
	DocIntelModelID  string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPassword     string
	SMTPTLS          bool
	EmailFromAddress string
	FrontendURL      string

	SQSQueueURL          string
	SQSVisibilityTimeout time.Duration
	WorkerConcurrency    int
	ShutdownTimeout      time.Duration
	MaxUploadBytes       int64
	AnalysisTimeout      time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:        getEnv("PORT", "8000"),
		Env:         env,
		AppName:     getEnv("APP_NAME", "AI Resume Analyzer"),
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", getEnv("CORS_ALLOW_ORIGINS", "*"))),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		MinioEndpoint:   getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:     getEnv("MINIO_BUCKET", "resumes"),
		MinioUseSSL:     getBool("MINIO_USE_SSL", false),

		AzureStorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		AzureStorageContainer:        getEnv("AZURE_STORAGE_CONTAINER", "resumes"),

		DatabaseURL: dbURL,

		LLMProvider:           normalizeLLMProvider(getEnv("LLM_PROVIDER", "azure")),
		LLMModel:              getEnv("LLM_MODEL", ""),
		LLMTimeout:            time.Duration(getInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		AzureOpenAIKey:        getEnv("AZURE_OPENAI_KEY", ""),
		AzureOpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", ""),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),

		DocIntelEndpoint: strings.TrimRight(getEnv("DOCUMENT_INTELLIGENCE_ENDPOINT", ""), "/"),
		DocIntelKey:      getEnv("DOCUMENT_INTELLIGENCE_KEY", ""),
		DocIntelModelID:  getEnv("DOCUMENT_INTELLIGENCE_MODEL_ID", "prebuilt-resume"),

		EmailEnabled:     getBool("EMAIL_ENABLED", false),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPTLS:          getBool("SMTP_TLS", false),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@resumeanalyzer.com"),
		FrontendURL:      strings.TrimRight(getEnv("APP_FRONTEND_URL", "http://localhost:3000"), "/"),

		SQSQueueURL:          getEnv("SQS_QUEUE_URL", ""),
		SQSVisibilityTimeout: time.Duration(getInt("SQS_VISIBILITY_TIMEOUT_SECONDS", 1200)) * time.Second,
		WorkerConcurrency:    getInt("WORKER_CONCURRENCY", 4),
		ShutdownTimeout:      time.Duration(getInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxUploadBytes:       int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		AnalysisTimeout:      getDuration("ANALYSIS_TIMEOUT", 5*time.Minute),
	}
}

// Validate reports combinations that cannot produce a working service.
func (c Config) Validate() error {
	var errs []error
	switch c.ObjectStoreType {
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when OBJECT_STORE=s3"))
		}
	case "minio":
		if c.MinioEndpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required when OBJECT_STORE=minio"))
		}
	case "azure":
		if c.AzureStorageConnectionString == "" {
			errs = append(errs, errors.New("AZURE_STORAGE_CONNECTION_STRING is required when OBJECT_STORE=azure"))
		}
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		errs = append(errs, errors.New("SMTP_HOST is required when EMAIL_ENABLED=true"))
	}
	if c.WorkerConcurrency <= 0 {
		errs = append(errs, errors.New("WORKER_CONCURRENCY must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// DocIntelEnabled reports whether document intelligence credentials are set.
func (c Config) DocIntelEnabled() bool {
	return c.DocIntelEndpoint != "" && c.DocIntelKey != ""
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	case "azure", "azblob":
		return "azure"
	default:
		return "local"
	}
}

func normalizeLLMProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "azure", "azure-openai", "azure_openai":
		return "azure"
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	case "none", "placeholder", "off":
		return "none"
	default:
		return "azure"
	}
}
