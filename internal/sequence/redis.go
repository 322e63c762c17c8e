package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps one INCR counter per batch. A missing key is initialised with
// SETNX from Seed before the first increment.
type Redis struct {
	client *redis.Client
	prefix string
	seed   SeedFunc
}

// NewRedis builds a Redis sequencer. seed may be nil, in which case new
// batches start at 1.
func NewRedis(client *redis.Client, prefix string, seed SeedFunc) *Redis {
	if prefix == "" {
		prefix = "ehsas:seq:"
	}
	return &Redis{client: client, prefix: prefix, seed: seed}
}

func (r *Redis) key(batch int) string {
	return fmt.Sprintf("%s%d", r.prefix, batch)
}

func (r *Redis) Next(ctx context.Context, batch int) (int64, error) {
	key := r.key(batch)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("sequence exists %s: %w", key, err)
	}
	if exists == 0 {
		var start int64
		if r.seed != nil {
			if start, err = r.seed(ctx, batch); err != nil {
				return 0, fmt.Errorf("sequence seed batch %d: %w", batch, err)
			}
		}
		if err := r.client.SetNX(ctx, key, start, 0).Err(); err != nil {
			return 0, fmt.Errorf("sequence setnx %s: %w", key, err)
		}
	}
	value, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("sequence incr %s: %w", key, err)
	}
	return value, nil
}
