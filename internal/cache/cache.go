// Package cache недолго хранит посчитанную статистику.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"pomodoroTracker/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StatsCache interface {
	// Get возвращает false при промахе
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

type RedisStatsCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Connect создаёт клиента и проверяет соединение
func Connect(ctx context.Context, opts *redis.Options, prefix string, ttl time.Duration) (*RedisStatsCache, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("подключение к redis %s: %w", opts.Addr, err)
	}
	logger.Info("Cache: подключение к redis установлено", zap.String("addr", opts.Addr))
	return NewRedis(client, prefix, ttl), nil
}

func (c *RedisStatsCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("чтение из кэша: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("декодирование значения кэша: %w", err)
	}
	return true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("кодирование значения кэша: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("запись в кэш: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("поиск ключей кэша: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("удаление ключей кэша: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

// Noop никогда не хранит значения
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }
func (Noop) Set(ctx context.Context, key string, value any) error        { return nil }
func (Noop) Invalidate(ctx context.Context) error                        { return nil }

// Memory кэш в памяти процесса, у каждой записи свой срок
type Memory struct {
	mtx     sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (m *Memory) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mtx.RLock()
	entry, ok := m.entries[key]
	m.mtx.RUnlock()

	if !ok || !m.now().Before(entry.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("декодирование значения кэша: %w", err)
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("кодирование значения кэша: %w", err)
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.entries[key] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Invalidate(ctx context.Context) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
