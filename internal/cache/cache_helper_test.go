package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:"), mr
}

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := setupTestCache(t)
	ctx := context.Background()

	want := testPayload{Name: "list", Count: 3}
	if err := helper.Set(ctx, "payload", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got testPayload
	if err := helper.Get(ctx, "payload", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper, _ := setupTestCache(t)

	var got testPayload
	err := helper.Get(context.Background(), "missing", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := setupTestCache(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "gone", testPayload{Name: "x"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := helper.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := helper.Exists(ctx, "gone")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("key should be deleted")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := setupTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"list:all", "list:active", "record:1"} {
		if err := helper.Set(ctx, key, testPayload{Name: key}, time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	for key, want := range map[string]bool{
		"list:all":    false,
		"list:active": false,
		"record:1":    true,
	} {
		exists, err := helper.Exists(ctx, key)
		if err != nil {
			t.Fatalf("Exists %s failed: %v", key, err)
		}
		if exists != want {
			t.Errorf("key %s exists=%v, want %v", key, exists, want)
		}
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := setupTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return testPayload{Name: "fetched", Count: calls}, nil
	}

	var first testPayload
	if err := helper.CacheOrExecute(ctx, "aside", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}

	var second testPayload
	if err := helper.CacheOrExecute(ctx, "aside", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute (cached) failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cached read, fetch called %d times", calls)
	}
	if second != first {
		t.Errorf("cached value %+v differs from fetched %+v", second, first)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", testPayload{}, time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}

	var got testPayload
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}

	// Must not panic or error either.
	SafeDelete(ctx, helper, "k")
	SafeInvalidatePattern(ctx, helper, "k:*")
}
