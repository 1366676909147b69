package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	GRPC          GRPCConfig          `yaml:"grpc"`
	FlightAPI     FlightAPIConfig     `yaml:"flight_api"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Cities        CitiesConfig        `yaml:"cities"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type FlightAPIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (f FlightAPIConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether a Redis address is configured; the desk runs
// without a cache otherwise.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type CitiesConfig struct {
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	Fallback        []string `yaml:"fallback"`
}

func (c CitiesConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type NotificationsConfig struct {
	DwellMillis int `yaml:"dwell_ms"`
	GraceMillis int `yaml:"grace_ms"`
}

func (n NotificationsConfig) Dwell() time.Duration {
	return time.Duration(n.DwellMillis) * time.Millisecond
}

func (n NotificationsConfig) Grace() time.Duration {
	return time.Duration(n.GraceMillis) * time.Millisecond
}

var defaultCities = []string{"New York", "London", "Paris", "Tokyo", "Sydney", "Los Angeles", "Dubai", "Singapore"}

// LoadConfig reads the YAML file at path. A .env file in the working
// directory, if present, is loaded first so its values can override the file.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FLIGHT_API_BASE_URL"); v != "" {
		c.FlightAPI.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
}

// splitList splits a comma separated env value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8090"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.FlightAPI.BaseURL == "" {
		c.FlightAPI.BaseURL = "http://localhost:8081/api"
	}
	c.FlightAPI.BaseURL = strings.TrimRight(c.FlightAPI.BaseURL, "/")
	if c.FlightAPI.TimeoutSeconds <= 0 {
		c.FlightAPI.TimeoutSeconds = 15
	}
	if c.Kafka.BookingTopic == "" {
		c.Kafka.BookingTopic = "desk.bookings"
	}
	if c.Kafka.NotificationsTopic == "" {
		c.Kafka.NotificationsTopic = "desk.notifications"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "airbooking-desk-worker"
	}
	if c.Cities.CacheTTLSeconds <= 0 {
		c.Cities.CacheTTLSeconds = 3600
	}
	if len(c.Cities.Fallback) == 0 {
		c.Cities.Fallback = append([]string(nil), defaultCities...)
	}
	if c.Notifications.DwellMillis <= 0 {
		c.Notifications.DwellMillis = 4700
	}
	if c.Notifications.GraceMillis <= 0 {
		c.Notifications.GraceMillis = 300
	}
}
