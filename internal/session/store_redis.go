package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkarhu/deduction-api/internal/domain"
)

// RedisStore keeps each user as JSON under ded:user:<id> with a set-based
// name index, mirroring how live game state is usually held here: cheap
// lookups, no relational schema.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient wraps an existing client; used by tests.
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func userKey(id string) string      { return "ded:user:" + strings.TrimSpace(id) }
func nameIdxKey(name string) string { return "ded:index:name:" + strings.TrimSpace(name) }

func (s *RedisStore) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		CurrentStage: 1,
		JoinedAt:     time.Now().UTC(),
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	if err := s.rdb.SAdd(ctx, nameIdxKey(u.Name), u.ID).Err(); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *RedisStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	raw, err := s.rdb.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RedisStore) UpdateUserStage(ctx context.Context, id string, stage int) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUnknownUser
	}
	u.CurrentStage = stage
	return s.save(ctx, u)
}

func (s *RedisStore) DeleteUser(ctx context.Context, id string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, userKey(id)).Err(); err != nil {
		return err
	}
	return s.rdb.SRem(ctx, nameIdxKey(u.Name), id).Err()
}

func (s *RedisStore) FindUserIDByName(ctx context.Context, name string) (string, error) {
	ids, err := s.rdb.SMembers(ctx, nameIdxKey(strings.TrimSpace(name))).Result()
	if err != nil {
		return "", err
	}
	var oldest *domain.User
	for _, id := range ids {
		u, gerr := s.GetUser(ctx, id)
		if gerr != nil || u == nil {
			continue
		}
		if oldest == nil || u.JoinedAt.Before(oldest.JoinedAt) {
			oldest = u
		}
	}
	if oldest == nil {
		return "", nil
	}
	return oldest.ID, nil
}

func (s *RedisStore) save(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, userKey(u.ID), raw, 0).Err()
}
