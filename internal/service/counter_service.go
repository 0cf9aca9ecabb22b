package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CounterSink applies an accumulated delta to the backing store.
type CounterSink func(ctx context.Context, id int64, delta int64) error

// CounterService accumulates view, download and play counts in redis
// and flushes them to postgres in batches. A lost flush loses at most
// one interval of counts, which is acceptable for popularity data.
type CounterService struct {
	rdb   *redis.Client
	log   zerolog.Logger
	sinks map[string]CounterSink
}

func NewCounterService(rdb *redis.Client, log zerolog.Logger) *CounterService {
	return &CounterService{
		rdb:   rdb,
		log:   log,
		sinks: make(map[string]CounterSink),
	}
}

// Register binds a counter kind such as "views:book" to its sink.
func (s *CounterService) Register(kind string, sink CounterSink) {
	s.sinks[kind] = sink
}

// Bump increments a counter. Failures are logged and swallowed so a
// redis hiccup never fails the request that triggered the count.
func (s *CounterService) Bump(ctx context.Context, kind string, id int64) {
	if s.rdb == nil {
		return
	}
	key := fmt.Sprintf("%s:%d", kind, id)
	if err := s.rdb.Incr(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("counter bump failed")
	}
}

// Flush drains all counter keys and applies the deltas through the
// registered sinks. GETDEL makes each key's drain atomic; counts
// arriving mid-flush land in a fresh key for the next run.
func (s *CounterService) Flush(ctx context.Context) error {
	for kind := range s.sinks {
		if err := s.flushKind(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *CounterService) flushKind(ctx context.Context, kind string) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, kind+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}

		for _, key := range keys {
			if err := s.flushKey(ctx, kind, key); err != nil {
				s.log.Error().Err(err).Str("key", key).Msg("counter flush failed")
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *CounterService) flushKey(ctx context.Context, kind, key string) error {
	raw, err := s.rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	delta, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || delta == 0 {
		return nil
	}

	idStr := strings.TrimPrefix(key, kind+":")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil
	}

	return s.sinks[kind](ctx, id, delta)
}
