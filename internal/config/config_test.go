package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(Static("empty", nil))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "colabri-doc", cfg.ServiceName)
	assert.Equal(t, int64(1<<20), cfg.WSMaxMessageBytes)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.DBURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.AMQPURL)
	assert.Equal(t, "0.0.0.0:3000", cfg.ServerAddress())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "PORT=4000\nLOG_LEVEL=debug\nENVIRONMENT=staging\nHOST=10.0.0.1\n")
	appEnv := writeFile(t, dir, "app.env", "PORT=5000\nLOG_LEVEL=warn\n")

	t.Setenv("PORT", "6000")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("HOST", "")

	cfg, err := Load(DotenvFile(dotenv), DotenvFile(appEnv), ProcessEnv())
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Port, "process env beats both files")
	assert.Equal(t, "warn", cfg.LogLevel, "app.env beats .env")
	assert.Equal(t, "staging", cfg.Environment, ".env beats defaults")
	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, "text", cfg.LogFormat, "default when no source sets it")
}

func TestLoad_MissingFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(DotenvFile(filepath.Join(dir, ".env")), DotenvFile(filepath.Join(dir, "app.env")))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
}

func TestLoad_OptionalValuesPassThrough(t *testing.T) {
	cfg, err := Load(Static("test", map[string]string{
		"CORS_ORIGINS":          "https://a.example, https://b.example ,",
		"CLOUD_POD":             "pod-7",
		"CLOUD_AUTH_JWT_SECRET": "s3cret",
		"GCP_PROJECT_ID":        "proj",
		"DB_URL":                "user:pass@tcp(db:3306)/colab",
		"REDIS_URL":             "redis://localhost:6379/0",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	assert.Equal(t, "pod-7", cfg.Pod)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "proj", cfg.GCPProjectID)
	assert.Equal(t, "user:pass@tcp(db:3306)/colab", cfg.DBURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"bad duration", map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
		{"non positive message limit", map[string]string{"WS_MAX_MESSAGE_BYTES": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Static("test", tt.values))
			require.Error(t, err)
		})
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	// a directory in place of the file cannot be parsed as dotenv
	require.NoError(t, os.Mkdir(filepath.Join(dir, "app.env"), 0o755))

	_, err := Load(DotenvFile(filepath.Join(dir, "app.env")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.env")
}

func TestEnvironmentHelpers(t *testing.T) {
	tests := []struct {
		env  string
		dev  bool
		prod bool
	}{
		{"dev", true, false},
		{"Development", true, false},
		{"prod", false, true},
		{"PRODUCTION", false, true},
		{"staging", false, false},
	}
	for _, tt := range tests {
		cfg := &Config{Environment: tt.env}
		assert.Equal(t, tt.dev, cfg.IsDevelopment(), tt.env)
		assert.Equal(t, tt.prod, cfg.IsProduction(), tt.env)
	}
}

func TestRateLimit_Clamps(t *testing.T) {
	cfg := &Config{
		RateLimitEnabled:        true,
		RateLimitCapacity:       0,
		RateLimitRefillTokens:   -3,
		RateLimitRefillInterval: 0,
		RateLimitTTL:            time.Second,
	}

	rl := cfg.RateLimit()

	assert.True(t, rl.Enabled)
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, time.Second, rl.RefillInterval)
	assert.Equal(t, 5*time.Second, rl.TTL)
	assert.Equal(t, "rl", rl.Prefix)
}

func TestNewRedisClient_EmptyURL(t *testing.T) {
	client, err := NewRedisClient("")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	client, err := NewRedisClient("http://not-redis")
	require.Error(t, err)
	assert.Nil(t, client)
}
