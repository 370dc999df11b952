package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mihirp/food-order/internal/core/domain"
)

const cartKeyPrefix = "cart:"

// addLineScript inserts or increments a cart line and records first-insert
// order in the companion list.
var addLineScript = redis.NewScript(`
local qty = redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
if qty == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
end
return qty
`)

// decrementLineScript lowers a line by 1 and deletes it at zero. Missing
// lines return 0 without touching anything.
var decrementLineScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if not current then
	return 0
end

if tonumber(current) <= 1 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	redis.call('LREM', KEYS[2], 0, ARGV[1])
	return 0
end

return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
`)

var removeLineScript = redis.NewScript(`
redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('LREM', KEYS[2], 0, ARGV[1])
return 1
`)

// RedisAdapter stores one cart per user as a hash of itemID -> quantity plus
// a list holding line insertion order. Every mutation is a single script so
// the quantity-zero-implies-removal invariant holds under concurrent calls.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func cartKeys(userID string) (hashKey, orderKey string) {
	hashKey = cartKeyPrefix + userID
	return hashKey, hashKey + ":order"
}

func (r *RedisAdapter) AddItem(ctx context.Context, userID, itemID string) error {
	hashKey, orderKey := cartKeys(userID)
	return addLineScript.Run(ctx, r.client, []string{hashKey, orderKey}, itemID).Err()
}

func (r *RedisAdapter) Decrement(ctx context.Context, userID, itemID string) error {
	hashKey, orderKey := cartKeys(userID)
	return decrementLineScript.Run(ctx, r.client, []string{hashKey, orderKey}, itemID).Err()
}

func (r *RedisAdapter) Remove(ctx context.Context, userID, itemID string) error {
	hashKey, orderKey := cartKeys(userID)
	return removeLineScript.Run(ctx, r.client, []string{hashKey, orderKey}, itemID).Err()
}

func (r *RedisAdapter) Clear(ctx context.Context, userID string) error {
	hashKey, orderKey := cartKeys(userID)
	return r.client.Del(ctx, hashKey, orderKey).Err()
}

func (r *RedisAdapter) Get(ctx context.Context, userID string) (domain.Cart, error) {
	hashKey, orderKey := cartKeys(userID)

	quantities, err := r.client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return domain.Cart{}, fmt.Errorf("read cart %s: %w", userID, err)
	}

	order, err := r.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return domain.Cart{}, fmt.Errorf("read cart order %s: %w", userID, err)
	}

	cart := domain.Cart{UserID: userID}
	for _, itemID := range order {
		raw, ok := quantities[itemID]
		if !ok {
			continue
		}

		qty, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("cart %s item %s quantity %q: %w", userID, itemID, raw, err)
		}

		cart.Lines = append(cart.Lines, domain.CartLine{
			ItemID:   itemID,
			Quantity: qty,
		})
	}

	return cart, nil
}
