package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FLIGHT_API_BASE_URL", "REDIS_ADDR", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
http:
  address: ":8000"
grpc:
  address: ":9000"
flight_api:
  base_url: "http://flights.internal:8081/api/"
  timeout_seconds: 3
redis:
  addr: "localhost:6379"
  db: 2
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  booking_topic: "bookings"
  notifications_topic: "notifications"
  group_id: "mailer"
cities:
  cache_ttl_seconds: 60
  fallback: ["Boston", "Chicago"]
notifications:
  dwell_ms: 1000
  grace_ms: 100
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTP.Address)
	assert.Equal(t, ":9000", cfg.GRPC.Address)
	assert.Equal(t, "http://flights.internal:8081/api", cfg.FlightAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.FlightAPI.Timeout())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "bookings", cfg.Kafka.BookingTopic)
	assert.Equal(t, "mailer", cfg.Kafka.GroupID)
	assert.Equal(t, time.Minute, cfg.Cities.CacheTTL())
	assert.Equal(t, []string{"Boston", "Chicago"}, cfg.Cities.Fallback)
	assert.Equal(t, time.Second, cfg.Notifications.Dwell())
	assert.Equal(t, 100*time.Millisecond, cfg.Notifications.Grace())
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.HTTP.Address)
	assert.Equal(t, ":9090", cfg.GRPC.Address)
	assert.Equal(t, "http://localhost:8081/api", cfg.FlightAPI.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.FlightAPI.Timeout())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "desk.bookings", cfg.Kafka.BookingTopic)
	assert.Equal(t, "desk.notifications", cfg.Kafka.NotificationsTopic)
	assert.Equal(t, time.Hour, cfg.Cities.CacheTTL())
	assert.Len(t, cfg.Cities.Fallback, 8)
	assert.Equal(t, 4700*time.Millisecond, cfg.Notifications.Dwell())
	assert.Equal(t, 300*time.Millisecond, cfg.Notifications.Grace())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FLIGHT_API_BASE_URL", "http://override:1234/api")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", " a:9092, b:9092,,")

	cfg, err := LoadConfig(writeConfig(t, "flight_api:\n  base_url: http://file/api\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://override:1234/api", cfg.FlightAPI.BaseURL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "http: [unterminated"))
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "failed to parse config")
}
