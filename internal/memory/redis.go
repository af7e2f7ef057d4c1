package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/harborview/maya/pkg"
)

const (
	memPrefix  = "maya:mem:"
	turnPrefix = "maya:turns:"

	// keys live seven days at most; the sweep may prune fields earlier
	retentionTTL = 7 * 24 * time.Hour

	// per-session turn log cap
	maxLoggedTurns = 200
)

// RedisStore keeps session memory in one hash per session and the turn
// log in one list per session.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client (used by tests).
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func memKey(sessionID string) string {
	return memPrefix + sessionID
}

func turnKey(sessionID string) string {
	return turnPrefix + sessionID
}

func seqKey(sessionID string) string {
	return turnPrefix + sessionID + ":seq"
}

// Put stores a record under the session's hash, replacing any previous
// value for the key.
func (r *RedisStore) Put(ctx context.Context, sessionID, key, value string, importance pkg.Importance) error {
	record := pkg.MemoryRecord{
		Key:        key,
		Value:      value,
		Importance: importance,
		CreatedAt:  time.Now(),
	}

	data, err := sonic.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal memory record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, memKey(sessionID), key, data)
	pipe.Expire(ctx, memKey(sessionID), retentionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put memory record: %w", err)
	}
	return nil
}

// Get recalls a record and increments its access count.
func (r *RedisStore) Get(ctx context.Context, sessionID, key string) (*pkg.MemoryRecord, error) {
	data, err := r.client.HGet(ctx, memKey(sessionID), key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get memory record: %w", err)
	}

	var record pkg.MemoryRecord
	if err := sonic.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory record: %w", err)
	}

	record.AccessCount++
	updated, err := sonic.Marshal(record)
	if err == nil {
		r.client.HSet(ctx, memKey(sessionID), key, updated)
	}

	return &record, nil
}

// GetAll returns the session's records no older than maxAge.
func (r *RedisStore) GetAll(ctx context.Context, sessionID string, maxAge time.Duration) ([]pkg.MemoryRecord, error) {
	fields, err := r.client.HGetAll(ctx, memKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session memory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	records := make([]pkg.MemoryRecord, 0, len(fields))
	for _, data := range fields {
		var record pkg.MemoryRecord
		if err := sonic.Unmarshal([]byte(data), &record); err != nil {
			continue
		}
		if record.CreatedAt.Before(cutoff) {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Sweep removes records older than the given age across all sessions and
// returns the number of removed records. Empty sessions are deleted.
func (r *RedisStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	removed := 0

	iter := r.client.Scan(ctx, 0, memPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			continue
		}

		var stale []string
		for field, data := range fields {
			var record pkg.MemoryRecord
			if err := sonic.Unmarshal([]byte(data), &record); err != nil {
				stale = append(stale, field)
				continue
			}
			if record.CreatedAt.Before(cutoff) {
				stale = append(stale, field)
			}
		}

		if len(stale) > 0 {
			if err := r.client.HDel(ctx, key, stale...).Err(); err == nil {
				removed += len(stale)
			}
		}
		if len(stale) == len(fields) {
			r.client.Del(ctx, key)
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("memory sweep scan failed: %w", err)
	}

	return removed, nil
}

// Append pushes a turn onto the session's log. The index comes from a
// per-session counter so it keeps increasing even after the list is
// trimmed.
func (r *RedisStore) Append(ctx context.Context, turn pkg.ConversationTurn) (int, error) {
	seq, err := r.client.Incr(ctx, seqKey(turn.SessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance turn counter: %w", err)
	}
	turn.TurnIndex = int(seq) - 1

	data, err := sonic.Marshal(turn)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal turn: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, turnKey(turn.SessionID), data)
	pipe.LTrim(ctx, turnKey(turn.SessionID), -maxLoggedTurns, -1)
	pipe.Expire(ctx, turnKey(turn.SessionID), retentionTTL)
	pipe.Expire(ctx, seqKey(turn.SessionID), retentionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to append turn: %w", err)
	}

	return turn.TurnIndex, nil
}

// Recent returns up to n most recent turns, oldest first.
func (r *RedisStore) Recent(ctx context.Context, sessionID string, n int) ([]pkg.ConversationTurn, error) {
	items, err := r.client.LRange(ctx, turnKey(sessionID), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read turn log: %w", err)
	}

	turns := make([]pkg.ConversationTurn, 0, len(items))
	for _, item := range items {
		var turn pkg.ConversationTurn
		if err := sonic.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
