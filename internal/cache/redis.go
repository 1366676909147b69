package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/airbooking-desk/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	citiesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, citiesTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		citiesTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, citiesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, citiesTTL: citiesTTL}
}

// GetCities returns nil, nil on a cache miss.
func (c *RedisCache) GetCities(ctx context.Context) ([]string, error) {
	data, err := c.client.Get(ctx, citiesKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cities []string
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *RedisCache) SetCities(ctx context.Context, cities []string) error {
	payload, err := json.Marshal(cities)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, citiesKey(), payload, c.citiesTTL).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func citiesKey() string {
	return "cache:cities"
}
