package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for ledger-derived data
const (
	ProductListKey   = "products:list"
	ProductStatsKey  = "stats:products"
	CustomerStatsKey = "stats:customers"
	RentalStatsKey   = "stats:rentals"

	statsTTL = 60 * time.Second
	listTTL  = 5 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis
// is unreachable every lookup misses and every write is a no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is disabled)
func GetClient() *redis.Client {
	return client
}

// GetJSON fetches a cached value into dest, reporting whether it was present.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores a value under key. Failures are ignored; the database is
// always the source of truth.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// SetStats stores a stats overview with the short stats TTL.
func SetStats(ctx context.Context, key string, value interface{}) {
	SetJSON(ctx, key, value, statsTTL)
}

// SetList stores a listing with the list TTL.
func SetList(ctx context.Context, key string, value interface{}) {
	SetJSON(ctx, key, value, listTTL)
}

// InvalidateLedger drops every cached projection of ledger state. Called
// after any product/customer/rental mutation.
func InvalidateLedger(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, ProductListKey, ProductStatsKey, CustomerStatsKey, RentalStatsKey)
}
