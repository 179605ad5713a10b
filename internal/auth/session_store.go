package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const sessionKeyPrefix = "studiosite-admin-session||"

// RedisSessionStore keeps the ids of live admin sessions, so a session can be
// revoked before its token expires. Keys expire together with their tokens.
type RedisSessionStore struct {
	redisClient *redis.Client
	now         func() time.Time
}

func NewRedisSessionStore(redisClient *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		redisClient: redisClient,
		now:         time.Now,
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.SessionID == "" {
		return errors.New("save session: missing session id")
	}

	ttl := claims.ExpiresIn(s.now())
	if ttl <= 0 {
		return errors.New("save session: token already expired")
	}

	cmd := s.redisClient.Set(ctx, sessionKey(claims.SessionID), claims.Subject, ttl)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) IsActive(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	cmd := s.redisClient.Exists(ctx, sessionKey(sessionID))
	if err := cmd.Err(); err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return cmd.Val() == 1, nil
}

// Revoke removes the session, returns false if it was not active.
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	cmd := s.redisClient.Del(ctx, sessionKey(sessionID))
	if err := cmd.Err(); err != nil {
		return false, fmt.Errorf("revoke session: %w", err)
	}

	revoked := cmd.Val() > 0
	log.Tracef("session %s revoked: %t", sessionID, revoked)
	return revoked, nil
}
