package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pkarhu/deduction-api/internal/domain"
)

func newTestStore(t *testing.T) (*RedisStore, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStoreFromClient(rdb), rdb, func() { mr.Close() }
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "  alice  ")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Name != "alice" || u.CurrentStage != 1 {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetUser: %v, %+v", err, got)
	}
	if got.ID != u.ID || got.Name != "alice" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := s.UpdateUserStage(ctx, u.ID, 2); err != nil {
		t.Fatalf("UpdateUserStage: %v", err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.CurrentStage != 2 {
		t.Fatalf("stage not persisted: %+v", got)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if got, _ := s.GetUser(ctx, u.ID); got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
	if id, _ := s.FindUserIDByName(ctx, "alice"); id != "" {
		t.Fatalf("name index not cleaned up: %q", id)
	}
}

func TestFindUserIDByNamePrefersOldest(t *testing.T) {
	s, rdb, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	// Two records under the same name with distinct join times.
	older := domain.User{ID: "u-old", Name: "grace", CurrentStage: 2,
		JoinedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := domain.User{ID: "u-new", Name: "grace", CurrentStage: 1,
		JoinedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	for _, u := range []domain.User{older, newer} {
		raw, _ := json.Marshal(u)
		if err := rdb.Set(ctx, userKey(u.ID), raw, 0).Err(); err != nil {
			t.Fatalf("seed set: %v", err)
		}
		if err := rdb.SAdd(ctx, nameIdxKey(u.Name), u.ID).Err(); err != nil {
			t.Fatalf("seed index: %v", err)
		}
	}

	id, err := s.FindUserIDByName(ctx, "grace")
	if err != nil {
		t.Fatalf("FindUserIDByName: %v", err)
	}
	if id != "u-old" {
		t.Fatalf("expected the oldest record, got %q", id)
	}
}

func TestGetUserMissing(t *testing.T) {
	s, _, cleanup := newTestStore(t)
	defer cleanup()

	got, err := s.GetUser(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
