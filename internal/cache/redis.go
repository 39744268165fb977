package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis connection. It stays nil when REDIS_URL is not
// set or the server is unreachable; consumers treat nil as "no cache".
var Client *redis.Client

// InitRedis connects the shared client. Failure is not fatal: the service
// runs fine without Redis, it just refetches market data more often.
func InitRedis(redisURL string) {
	if redisURL == "" {
		log.Println("Warning: REDIS_URL not set, running without a market-data cache")
		return
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Warning: invalid REDIS_URL, running without a market-data cache: %v", err)
		return
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: redis unreachable, running without a market-data cache: %v", err)
		client.Close()
		return
	}

	Client = client
	log.Println("Connected to redis")
}
