package cart

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/champomix/champomix-api/internal/redisx"
)

// addScript increments the quantity and appends the image to the ordering
// list the first time it is seen.
var addScript = redis.NewScript(`
local existed = redis.call('HEXISTS', KEYS[2], ARGV[1])
local n = redis.call('HINCRBY', KEYS[2], ARGV[1], ARGV[2])
if existed == 0 then
	redis.call('RPUSH', KEYS[1], ARGV[1])
end
return n
`)

// RedisStore shares one cart between every API instance using the same Redis.
type RedisStore struct {
	rdb        *redis.Client
	imagesKey  string
	quantities string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, imagesKey: redisx.KeyCartImages, quantities: redisx.KeyCartQuantities}
}

func (s *RedisStore) Add(ctx context.Context, image string, quantity int) error {
	if err := addScript.Run(ctx, s.rdb, []string{s.imagesKey, s.quantities}, image, quantity).Err(); err != nil {
		// HINCRBY refuses the increment and the script stops before RPUSH
		if strings.Contains(err.Error(), "would overflow") {
			return ErrQuantityOverflow
		}
		return fmt.Errorf("add %s to cart: %w", image, err)
	}
	return nil
}

func (s *RedisStore) Items(ctx context.Context) ([]Item, error) {
	var (
		images *redis.StringSliceCmd
		qty    *redis.MapStringStringCmd
	)
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		images = p.LRange(ctx, s.imagesKey, 0, -1)
		qty = p.HGetAll(ctx, s.quantities)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	quantities := qty.Val()
	out := make([]Item, 0, len(images.Val()))
	for _, img := range images.Val() {
		n, err := strconv.Atoi(quantities[img])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for image %s: %w", img, err)
		}
		out = append(out, Item{Image: img, Quantity: n})
	}
	return out, nil
}
