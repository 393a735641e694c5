package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  env: development
  port: 9000
  cors_origin: "http://localhost:3000"
mongodb:
  uri: "mongodb://localhost:27017"
  database: vidstream
jwt:
  access_ttl_minutes: 30
aws:
  region: us-east-1
  bucket: vidstream-media
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.App.Env)
	require.Equal(t, 9000, cfg.App.Port)
	require.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	require.Equal(t, "vidstream", cfg.Mongo.Database)
	require.Equal(t, "access-secret", cfg.JWT.AccessSecret)
	require.Equal(t, "refresh-secret", cfg.JWT.RefreshSecret)
	require.Equal(t, 30, cfg.JWT.AccessTTLMinutes)

	// defaults fill in what the file and env omit
	require.Equal(t, 10, cfg.JWT.RefreshTTLDays)
	require.Equal(t, 10, cfg.Security.PasswordHashCost)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("APP_PORT", "4242")
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, 4242, cfg.App.Port)
	require.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadMissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := Load(writeConfig(t, sampleConfig))
	require.Error(t, err)
}

func TestLoadMissingMongoURI(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "b")
	t.Setenv("MONGO_URI", "")

	_, err := Load(writeConfig(t, "app:\n  port: 8000\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
