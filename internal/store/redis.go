package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/models"
)

// RedisRepository keeps one JSON value per record and a sorted set per owner
// indexing record ids by creation time.
//
//	<prefix>:owner:<owner>            ZSET  id -> created_at (unix ms)
//	<prefix>:record:<owner>:<id>      STRING JSON
type RedisRepository struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisRepository(rdb redis.Cmdable, prefix string) *RedisRepository {
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) Driver() string { return config.StoreRedis }

func (r *RedisRepository) indexKey(owner string) string {
	return r.key("owner", owner)
}

func (r *RedisRepository) recordKey(owner, id string) string {
	return r.key("record", owner, id)
}

func (r *RedisRepository) key(parts ...string) string {
	k := r.prefix
	for _, p := range parts {
		if k != "" {
			k += ":"
		}
		k += p
	}
	return k
}

func (r *RedisRepository) Insert(ctx context.Context, rec *models.OutcomeRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(rec.Owner, rec.ID), doc, 0)
		pipe.ZAdd(ctx, r.indexKey(rec.Owner), redis.Z{
			Score:  float64(rec.CreatedAt.UnixMilli()),
			Member: rec.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context, owner string) ([]*models.OutcomeRecord, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.indexKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(ids) == 0 {
		return []*models.OutcomeRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(owner, id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	out := make([]*models.OutcomeRecord, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// index entry without a value
			continue
		}
		rec, err := decodeRecord([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *RedisRepository) Get(ctx context.Context, owner, id string) (*models.OutcomeRecord, error) {
	doc, err := r.rdb.Get(ctx, r.recordKey(owner, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return decodeRecord(doc)
}

func (r *RedisRepository) Delete(ctx context.Context, owner, id string) error {
	var del *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.recordKey(owner, id))
		pipe.ZRem(ctx, r.indexKey(owner), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}
