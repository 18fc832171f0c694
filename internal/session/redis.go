package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "dashboard:session:"
	redisOpTimeout = 2 * time.Second
)

// RedisStore shares sessions between dashboard replicas. Keys expire with
// the session, so Sweep has nothing to do.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

type storedSession struct {
	Session
	Token string `json:"token"`
}

func redisKey(token string) string { return redisKeyPrefix + token }

func (r *RedisStore) Open(token string, s Session) (Session, error) {
	now := r.now()
	s.Token = token
	s.CreatedAt = now
	s.ExpiresAt = now.Add(r.ttl)

	b, err := json.Marshal(storedSession{Session: s, Token: token})
	if err != nil {
		return Session{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, redisKey(token), b, r.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Get(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	b, err := r.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		return Session{}, false
	}
	s, err := decodeStored(b)
	if err != nil || s.Expired(r.now()) {
		return Session{}, false
	}
	return s, true
}

func (r *RedisStore) Close(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = r.client.Del(ctx, redisKey(token)).Err()
}

func (r *RedisStore) Sweep() int { return 0 }

func decodeStored(b []byte) (Session, error) {
	var st storedSession
	if err := json.Unmarshal(b, &st); err != nil {
		return Session{}, err
	}
	if st.Token == "" {
		return Session{}, errors.New("stored session has no token")
	}
	st.Session.Token = st.Token
	return st.Session, nil
}
