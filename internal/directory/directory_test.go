package directory_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"tutor-scheduling-api/internal/directory"
	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/store"
)

type countingDir struct {
	names map[string]string
	calls int
}

func (d *countingDir) DisplayName(_ context.Context, id string) (string, error) {
	d.calls++
	name, ok := d.names[id]
	if !ok {
		return "", store.ErrNotFound
	}
	return name, nil
}

func TestStoreDirectory(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.CreateUser(ctx, model.User{ID: "t1", Name: "Ada", Role: model.RoleTutor}); err != nil {
		t.Fatal(err)
	}

	d := directory.New(st)
	name, err := d.DisplayName(ctx, "t1")
	if err != nil || name != "Ada" {
		t.Fatalf("got %q, %v", name, err)
	}
	if _, err := d.DisplayName(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCachedDirectory(t *testing.T) {
	_ = godotenv.Load("../../.env")
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := directory.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	id := uuid.New().String()
	next := &countingDir{names: map[string]string{id: "Grace"}}
	c := directory.NewCached(next, rdb, time.Minute, nil)
	t.Cleanup(func() { _ = c.Forget(ctx, id) })

	for i := 0; i < 3; i++ {
		name, err := c.DisplayName(ctx, id)
		if err != nil || name != "Grace" {
			t.Fatalf("got %q, %v", name, err)
		}
	}
	if next.calls != 1 {
		t.Errorf("expected one backing lookup, got %d", next.calls)
	}

	next.names[id] = "Grace H."
	if err := c.Forget(ctx, id); err != nil {
		t.Fatal(err)
	}
	if name, _ := c.DisplayName(ctx, id); name != "Grace H." {
		t.Errorf("stale name %q after Forget", name)
	}

	if _, err := c.DisplayName(ctx, "missing-"+id); err == nil {
		t.Error("unknown user should fail")
	}
}
