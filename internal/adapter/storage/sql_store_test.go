package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/pos-register/internal/port"
)

func getSQLStore(t *testing.T) *SQLStore {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewSQLStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSQLStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := getSQLStore(t)

	store.Delete(ctx, "test:k1")
	if err := store.Set(ctx, "test:k1", []byte("v1")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := store.Get(ctx, "test:k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != "v1" {
		t.Errorf("expected v1, got %s", value)
	}

	// Overwrite through the upsert path.
	if err := store.Set(ctx, "test:k1", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, _ = store.Get(ctx, "test:k1")
	if string(value) != "v2" {
		t.Errorf("expected v2 after overwrite, got %s", value)
	}

	store.Delete(ctx, "test:k1")
}

func TestSQLStore_MissingKey(t *testing.T) {
	ctx := context.Background()
	store := getSQLStore(t)

	store.Delete(ctx, "test:missing")
	if _, err := store.Get(ctx, "test:missing"); !errors.Is(err, port.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSQLStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := getSQLStore(t)

	for _, key := range []string{"testprefix:a", "testprefix:b", "other:c"} {
		store.Delete(ctx, key)
	}
	store.Set(ctx, "testprefix:a", []byte("1"))
	store.Set(ctx, "testprefix:b", []byte("2"))
	store.Set(ctx, "other:c", []byte("3"))

	keys, err := store.Keys(ctx, "testprefix:")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	sort.Strings(keys)

	if len(keys) != 2 || keys[0] != "testprefix:a" || keys[1] != "testprefix:b" {
		t.Errorf("unexpected keys: %v", keys)
	}

	for _, key := range []string{"testprefix:a", "testprefix:b", "other:c"} {
		store.Delete(ctx, key)
	}
}
