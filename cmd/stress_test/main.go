package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mihirp/food-order/internal/adapter/storage"
)

const (
	redisAddr   = "localhost:6379"
	totalUsers  = 50
	addsPerUser = 20
	itemID      = "stress-item"
)

// Hammers the Redis cart store with concurrent line mutations and verifies no
// increments are lost and no zero-quantity lines survive.
func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	keys, _ := rdb.Keys(ctx, "cart:stress-user-*").Result()
	for _, k := range keys {
		rdb.Del(ctx, k)
	}

	carts := storage.NewRedisAdapter(rdb)

	var opCount atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for u := 0; u < totalUsers; u++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()

			for i := 0; i < addsPerUser; i++ {
				if err := carts.AddItem(ctx, userID, itemID); err != nil {
					log.Printf("add item for %s: %v", userID, err)
					continue
				}
				opCount.Add(1)
			}

			// Drive half the quantity back down.
			for i := 0; i < addsPerUser/2; i++ {
				if err := carts.Decrement(ctx, userID, itemID); err != nil {
					log.Printf("decrement for %s: %v", userID, err)
					continue
				}
				opCount.Add(1)
			}
		}(fmt.Sprintf("stress-user-%d", u))
	}

	wg.Wait()
	elapsed := time.Since(start)

	expected := addsPerUser - addsPerUser/2
	mismatches := 0
	for u := 0; u < totalUsers; u++ {
		userID := fmt.Sprintf("stress-user-%d", u)
		cart, err := carts.Get(ctx, userID)
		if err != nil {
			log.Fatalf("read cart %s: %v", userID, err)
		}
		if len(cart.Lines) != 1 || cart.Lines[0].Quantity != expected {
			mismatches++
			log.Printf("cart %s: got %+v, want quantity %d", userID, cart.Lines, expected)
		}
	}

	fmt.Printf("ops: %d in %s (%.0f ops/sec)\n",
		opCount.Load(), elapsed, float64(opCount.Load())/elapsed.Seconds())
	fmt.Printf("carts verified: %d, mismatches: %d\n", totalUsers, mismatches)
}
