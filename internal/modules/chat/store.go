// README: Chat store backed by a capped Redis list per driver thread.
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"courier/internal/types"
)

const (
	threadKeyPrefix = "chat:driver:%s"
	// maxThreadLen caps how much history a thread retains.
	maxThreadLen = 200
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) Append(ctx context.Context, m Message) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	key := threadKey(m.DriverID)
	pipe := s.redis.Pipeline()
	pipe.RPush(ctx, key, raw)
	pipe.LTrim(ctx, key, -maxThreadLen, -1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to limit messages, oldest first.
func (s *Store) Recent(ctx context.Context, driverID types.ID, limit int) ([]Message, error) {
	if limit <= 0 || limit > maxThreadLen {
		limit = maxThreadLen
	}
	raws, err := s.redis.LRange(ctx, threadKey(driverID), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(raws))
	for _, raw := range raws {
		var m Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func threadKey(driverID types.ID) string {
	return fmt.Sprintf(threadKeyPrefix, string(driverID))
}
