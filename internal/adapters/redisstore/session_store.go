package redisstore

// Package redisstore provides Redis-backed storage for the browser surface.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-based web session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based web session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "websession:"}
}

// NewSessionStoreWithPrefix creates a store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.WebSession) error {
	if sess.ID == "" {
		return errors.New("web session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal web session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("web session is expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.WebSession, error) {
	if id == "" {
		return domainauth.WebSession{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.WebSession{}, ErrNotFound
		}
		return domainauth.WebSession{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.WebSession
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.WebSession{}, fmt.Errorf("unmarshal web session: %w", unmarshalErr)
	}

	// Redis TTL handles expiry; a stale payload can still linger briefly.
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.WebSession{}, fmt.Errorf("cleanup expired web session: %w", deleteErr)
		}
		return domainauth.WebSession{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a web session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "web session not found" }

var ErrNotFound error = notFoundError{}
