package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"tedp_backend/internal/runner"
	"tedp_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// SessionSnapshot is what the store parks between two requests of the same
// respondent: the runner state plus the access code the session was opened
// for.
type SessionSnapshot struct {
	AccessCodeID uint            `json:"accessCodeId"`
	PassationID  uint            `json:"passationId"`
	Runner       runner.Snapshot `json:"runner"`
}

// SessionStore holds one snapshot per session token, TTL-bound so abandoned
// flows disappear on their own.
type SessionStore interface {
	Save(ctx context.Context, token string, s SessionSnapshot) error
	Load(ctx context.Context, token string) (SessionSnapshot, error)
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "tedp:session:"

type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, token string, snap SessionSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKeyPrefix+token, raw, s.TTL).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context, token string) (SessionSnapshot, error) {
	raw, err := s.Client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return SessionSnapshot{}, util.ErrSessionNotFound
	}
	if err != nil {
		return SessionSnapshot{}, err
	}

	var snap SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return SessionSnapshot{}, err
	}
	return snap, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+token).Err()
}

// MemorySessionStore backs tests and single-node development runs.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]SessionSnapshot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]SessionSnapshot)}
}

func (s *MemorySessionStore) Save(_ context.Context, token string, snap SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = snap
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, token string) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.sessions[token]
	if !ok {
		return SessionSnapshot{}, util.ErrSessionNotFound
	}
	return snap, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
