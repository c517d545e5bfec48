package cache

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

type fakeStore struct {
	values   map[string]string
	getErr   error
	setErr   error
	patterns []string
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return value, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) CacheKey(parts ...string) string {
	return "bl:" + strings.Join(parts, ":")
}

func (f *fakeStore) CachePattern(parts ...string) string {
	return "bl:" + strings.Join(parts, ":") + ":*"
}

func (f *fakeStore) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	f.patterns = append(f.patterns, pattern)
	return 1, nil
}

func newTestCache(fake *fakeStore) *Cache {
	return &Cache{
		store:      fake,
		logg:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		defaultTTL: time.Minute,
	}
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	c := newTestCache(&fakeStore{})

	if got := c.DeriveKey(EntityOrder, "abc"); got != "bl:order:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := c.DeriveKey(EntityCart, ""); got != "bl:cart" {
		t.Fatalf("unexpected key %q", got)
	}
	got := c.DeriveKey(EntityWithdraw, "", Param{Key: "vendor", Value: "v1"}, Param{Key: "status", Value: "pending"})
	if got != "bl:withdraw:vendor=v1&status=pending" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestGetRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeStore{}
	c := newTestCache(fake)

	type doc struct {
		Name string `json:"name"`
	}
	c.Set(context.Background(), "bl:order:abc", doc{Name: "first"})

	var out doc
	if !c.Get(context.Background(), "bl:order:abc", &out) {
		t.Fatal("expected cache hit")
	}
	if out.Name != "first" {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestGetMiss(t *testing.T) {
	t.Parallel()

	c := newTestCache(&fakeStore{})

	var out map[string]any
	if c.Get(context.Background(), "bl:order:missing", &out) {
		t.Fatal("expected miss")
	}
}

func TestGetCorruptPayload(t *testing.T) {
	t.Parallel()

	fake := &fakeStore{values: map[string]string{"bl:order:abc": "{not json"}}
	c := newTestCache(fake)

	var out map[string]any
	if c.Get(context.Background(), "bl:order:abc", &out) {
		t.Fatal("expected corrupt payload to read as miss")
	}
}

func TestGetStoreErrorFallsThrough(t *testing.T) {
	t.Parallel()

	fake := &fakeStore{getErr: errors.New("connection refused")}
	c := newTestCache(fake)

	var out map[string]any
	if c.Get(context.Background(), "bl:order:abc", &out) {
		t.Fatal("expected store error to read as miss")
	}
}

func TestInvalidateEntity(t *testing.T) {
	t.Parallel()

	fake := &fakeStore{}
	c := newTestCache(fake)

	c.InvalidateEntity(context.Background(), EntityCart, EntitySellerWallet)

	if len(fake.patterns) != 2 {
		t.Fatalf("expected two delete patterns, got %v", fake.patterns)
	}
	if fake.patterns[0] != "bl:cart:*" || fake.patterns[1] != "bl:seller_wallet:*" {
		t.Fatalf("unexpected patterns %v", fake.patterns)
	}
}
