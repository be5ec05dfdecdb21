package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisContactStore keeps per-recipient contact bookkeeping for the
// broadcast throttle in Redis. Two keys per recipient:
//
//	contact:last:<id>    last contact instant (RFC3339Nano)
//	contact:attempt:<id> id of the send attempt that produced it
//
// The attempt key makes RecordContact idempotent for retries of the same
// logical send: re-recording the same attempt must not advance the cooldown.
type RedisContactStore struct {
	rdb *redis.Client
}

const (
	lastContactPrefix = "contact:last:"
	attemptPrefix     = "contact:attempt:"

	// Retention beyond the 24h cooldown; stale records only ever make a
	// recipient eligible sooner, never later.
	contactTTL = 7 * 24 * time.Hour
)

func NewRedisContactStore(rdb *redis.Client) *RedisContactStore {
	return &RedisContactStore{rdb: rdb}
}

// LastContactedAt returns the recipient's last contact instant. ok is false
// when the recipient has never been contacted.
func (s *RedisContactStore) LastContactedAt(ctx context.Context, recipientID string) (time.Time, bool, error) {
	val, err := s.rdb.Get(ctx, lastContactPrefix+recipientID).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// RecordContact stores the contact instant for the recipient, unless the
// same attempt was already recorded.
func (s *RedisContactStore) RecordContact(ctx context.Context, recipientID, attemptID string, at time.Time) error {
	prev, err := s.rdb.Get(ctx, attemptPrefix+recipientID).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if err == nil && prev == attemptID {
		return nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, lastContactPrefix+recipientID, at.UTC().Format(time.RFC3339Nano), contactTTL)
	pipe.Set(ctx, attemptPrefix+recipientID, attemptID, contactTTL)
	_, err = pipe.Exec(ctx)
	return err
}
