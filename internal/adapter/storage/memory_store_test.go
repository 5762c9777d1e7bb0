package storage

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rl1809/pos-register/internal/port"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != "v1" {
		t.Errorf("expected v1, got %s", value)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, port.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "k1", []byte("v1"))
	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k1"); !errors.Is(err, port.ErrKeyNotFound) {
		t.Errorf("expected key removed, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "k1"); err != nil {
		t.Errorf("expected no error deleting missing key, got %v", err)
	}
}

func TestMemoryStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "cache:a", []byte("1"))
	store.Set(ctx, "cache:b", []byte("2"))
	store.Set(ctx, "session:c", []byte("3"))

	keys, err := store.Keys(ctx, "cache:")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	sort.Strings(keys)

	if len(keys) != 2 || keys[0] != "cache:a" || keys[1] != "cache:b" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "k1", []byte("v1"))
	value, _ := store.Get(ctx, "k1")
	value[0] = 'X'

	again, _ := store.Get(ctx, "k1")
	if string(again) != "v1" {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}
}
