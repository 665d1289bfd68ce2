// Package cache provides the shared expiring key-value store used for
// OTP codes. Redis is the primary backend so multiple instances see
// the same OTP state; when Redis is unreachable the store degrades to
// a process-local table.
package cache

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no live entry exists for a key.
var ErrNotFound = errors.New("cache: entry not found")

// OTPStore is the capability the OTP flow needs: put with TTL, and a
// read that consumes the entry.
type OTPStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	GetAndClear(ctx context.Context, key string) (string, error)
	Peek(ctx context.Context, key string) (string, error)
}

// NewOTPStore connects to Redis and falls back to an in-process store
// when the connection fails.
func NewOTPStore() OTPStore {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Printf("[Redis] unavailable: %v (falling back to in-process OTP store; do not run multiple instances)", err)
		return NewMemoryStore()
	}

	log.Println("[Redis] OTP store connected")
	return &RedisStore{client: client}
}

// RedisStore keys are namespaced under otp: so the database can be
// shared with other consumers.
type RedisStore struct {
	client *redis.Client
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, "otp:"+key, value, ttl).Err()
}

func (s *RedisStore) GetAndClear(ctx context.Context, key string) (string, error) {
	val, err := s.client.GetDel(ctx, "otp:"+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

func (s *RedisStore) Peek(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, "otp:"+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

// MemoryStore is the single-instance fallback. Entries expire lazily
// on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) GetAndClear(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.entries, key)
	if time.Now().After(entry.expiresAt) {
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Peek(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", ErrNotFound
	}
	return entry.value, nil
}
