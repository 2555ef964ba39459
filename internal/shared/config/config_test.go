package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "CORS_ORIGINS", "CORS_ALLOW_ORIGINS", "OBJECT_STORE", "LLM_PROVIDER", "EMAIL_ENABLED", "MAX_UPLOAD_BYTES", "APP_VERSION"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, "azure", cfg.LLMProvider)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.False(t, cfg.EmailEnabled)
	assert.EqualValues(t, 10<<20, cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Minute, cfg.AnalysisTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("OBJECT_STORE", "MinIO")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("LLM_PROVIDER", "google")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("SMTP_HOST", "smtp.test")
	t.Setenv("APP_FRONTEND_URL", "https://cv.test/")
	t.Setenv("ANALYSIS_TIMEOUT", "90")
	t.Setenv("DOCUMENT_INTELLIGENCE_ENDPOINT", "https://di.test/")
	t.Setenv("DOCUMENT_INTELLIGENCE_KEY", "k")

	cfg := Load()

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "minio", cfg.ObjectStoreType)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.True(t, cfg.EmailEnabled)
	assert.Equal(t, "https://cv.test", cfg.FrontendURL)
	assert.Equal(t, 90*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, "https://di.test", cfg.DocIntelEndpoint)
	assert.True(t, cfg.DocIntelEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nCV_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Setenv("PORT", "7000")
	t.Setenv("CV_TEST_ONLY_KEY", "")
	os.Unsetenv("CV_TEST_ONLY_KEY")

	cfg := Load()

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-file", os.Getenv("CV_TEST_ONLY_KEY"))
}

func TestValidateReportsMissingSettings(t *testing.T) {
	cfg := Config{
		ObjectStoreType:   "s3",
		EmailEnabled:      true,
		WorkerConcurrency: 0,
		MaxUploadBytes:    1,
	}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
	assert.Contains(t, err.Error(), "SMTP_HOST")
	assert.Contains(t, err.Error(), "WORKER_CONCURRENCY")
}

func TestAzureObjectStore(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OBJECT_STORE", "AzBlob")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "")
	t.Setenv("AZURE_STORAGE_CONTAINER", "")

	cfg := Load()

	assert.Equal(t, "azure", cfg.ObjectStoreType)
	assert.Equal(t, "resumes", cfg.AzureStorageContainer)
	require.Error(t, cfg.Validate())
	assert.Contains(t, cfg.Validate().Error(), "AZURE_STORAGE_CONNECTION_STRING")

	cfg.AzureStorageConnectionString = "AccountName=x;AccountKey=eA=="
	assert.NotContains(t, errString(cfg.Validate()), "AZURE_STORAGE_CONNECTION_STRING")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
