package kvstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisStore error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "otp_secret:a@b.c", "SECRET", time.Minute); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	value, found, err := store.Get(ctx, "otp_secret:a@b.c")
	if err != nil || !found {
		t.Fatalf("Get = (%q, %v, %v), want found", value, found, err)
	}
	if value != "SECRET" {
		t.Errorf("value = %q, want %q", value, "SECRET")
	}

	if err := store.Delete(ctx, "otp_secret:a@b.c"); err != nil {
		t.Fatalf("Delete error = %v", err)
	}
	if _, found, _ := store.Get(ctx, "otp_secret:a@b.c"); found {
		t.Error("key still present after Delete")
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", 300*time.Second); err != nil {
		t.Fatalf("Set error = %v", err)
	}
	if ttl := mr.TTL("k"); ttl != 300*time.Second {
		t.Errorf("ttl = %v, want 300s", ttl)
	}

	mr.FastForward(301 * time.Second)

	_, found, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if found {
		t.Error("expired key still found")
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get error = %v, want ErrUnavailable", err)
	}
	if err := store.Set(context.Background(), "k", "v", time.Minute); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Set error = %v, want ErrUnavailable", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	store.Set(ctx, "k", "v", 50*time.Millisecond)

	value, found, err := store.Get(ctx, "k")
	if err != nil || !found || value != "v" {
		t.Fatalf("Get = (%q, %v, %v), want (v, true, nil)", value, found, err)
	}

	time.Sleep(80 * time.Millisecond)

	if _, found, _ := store.Get(ctx, "k"); found {
		t.Error("expired key still found")
	}

	store.Set(ctx, "k2", "v2", time.Minute)
	store.Delete(ctx, "k2")
	if _, found, _ := store.Get(ctx, "k2"); found {
		t.Error("deleted key still found")
	}
}

func TestDeleteIfEqual(t *testing.T) {
	redisStore, _ := newTestRedisStore(t)
	memoryStore := NewMemoryStore()
	defer memoryStore.Close()

	stores := map[string]Store{"redis": redisStore, "memory": memoryStore}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store.Set(ctx, "otp_secret:a@b.c", "OLD", time.Minute)

			// a newer value must survive a delete aimed at the old one
			store.Set(ctx, "otp_secret:a@b.c", "NEW", time.Minute)
			removed, err := store.DeleteIfEqual(ctx, "otp_secret:a@b.c", "OLD")
			if err != nil || removed {
				t.Fatalf("DeleteIfEqual(OLD) = (%v, %v), want (false, nil)", removed, err)
			}
			if value, found, _ := store.Get(ctx, "otp_secret:a@b.c"); !found || value != "NEW" {
				t.Fatalf("value = (%q, %v), want NEW kept", value, found)
			}

			removed, err = store.DeleteIfEqual(ctx, "otp_secret:a@b.c", "NEW")
			if err != nil || !removed {
				t.Fatalf("DeleteIfEqual(NEW) = (%v, %v), want (true, nil)", removed, err)
			}
			removed, _ = store.DeleteIfEqual(ctx, "otp_secret:a@b.c", "NEW")
			if removed {
				t.Error("second DeleteIfEqual removed an already deleted key")
			}
		})
	}
}

func TestMemoryStore_DeleteIfEqualConcurrent(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	store.Set(ctx, "k", "v", time.Minute)

	const callers = 8
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			removed, _ := store.DeleteIfEqual(ctx, "k", "v")
			results <- removed
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for removed := range results {
		if removed {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want 1", winners)
	}
}

func TestRedisStore_DeleteIfEqualUnavailable(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()
	if _, err := store.DeleteIfEqual(context.Background(), "k", "v"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DeleteIfEqual error = %v, want ErrUnavailable", err)
	}
}
