package gamestate

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
	"github.com/KirkDiggler/ultima-end/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/ultima-end/internal/redis"
)

// Key pattern: ultima:save:{slot}
const saveKeyPrefix = "ultima:save:"

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

// envelope is the stored value: the encoded state plus its save time
type envelope struct {
	SavedAt time.Time       `json:"saved_at"`
	State   json.RawMessage `json:"state"`
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for save slots
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Save stores the slot without expiry
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	stateJSON, err := game.Encode(input.State)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	data, err := json.Marshal(envelope{SavedAt: now, State: stateJSON})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal save")
	}

	key := r.buildKey(input.Slot)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store save in Redis")
	}

	slog.DebugContext(ctx, "Game saved", "backend", "redis", "key", key)

	return &SaveOutput{SavedAt: now}, nil
}

func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if err := validateLoad(input); err != nil {
		return nil, err
	}

	key := r.buildKey(input.Slot)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no save in slot %s", input.Slot)
		}
		return nil, errors.Wrapf(err, "failed to get save from Redis")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal save").
			WithMeta("slot", input.Slot)
	}
	if len(env.State) == 0 {
		return nil, errors.DataLoss("save has no state").WithMeta("slot", input.Slot)
	}

	state, err := decodeState(env.State, input.Slot, input.Settings)
	if err != nil {
		return nil, err
	}

	return &LoadOutput{
		State:   state,
		SavedAt: env.SavedAt,
	}, nil
}

func (r *redisRepository) buildKey(slot string) string {
	return saveKeyPrefix + slot
}
