package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/cardex/internal/db"
)

// delIfValueScript deletes KEYS[1] only while it holds ARGV[1].
const delIfValueScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`

// SetNX stores value with a TTL only if key does not exist (SET NX PX).
func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	cmd := s.b().Set().Key(key).Value(value).Nx().PxMilliseconds(ttl.Milliseconds()).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpSet, Err: err}
	}
	return true, nil
}

// DelIfValue atomically deletes key when its value equals value.
func (s *Store) DelIfValue(ctx context.Context, key, value string) (bool, error) {
	cmd := s.b().Eval().Script(delIfValueScript).Numkeys(1).Key(key).Arg(value).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Err: err}
	}
	return n > 0, nil
}
