package cache

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	req := &muster.AuthorizeRequest{
		ActorID:       "u1",
		AnyPermission: catalog.EventsCreate,
	}
	result := &muster.AuthzResult{Allowed: true, Decision: muster.DecisionAllow}

	// Miss
	_, ok := c.Get(ctx, "g1", req)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, "g1", req, result)
	got, ok := c.Get(ctx, "g1", req)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.Allowed {
		t.Fatal("expected allowed")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	req := &muster.AuthorizeRequest{
		ActorID:       "u1",
		AnyPermission: catalog.EventsCreate,
	}
	c.Set(ctx, "g1", req, &muster.AuthzResult{Allowed: true})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "g1", req)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidateGuild(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	req1 := &muster.AuthorizeRequest{ActorID: "u1", AnyPermission: catalog.EventsCreate}
	req2 := &muster.AuthorizeRequest{ActorID: "u2", AnyPermission: catalog.SiegeSignup}

	c.Set(ctx, "g1", req1, &muster.AuthzResult{Allowed: true})
	c.Set(ctx, "g1", req2, &muster.AuthzResult{Allowed: false})
	c.Set(ctx, "g2", req1, &muster.AuthzResult{Allowed: true})

	c.InvalidateGuild(ctx, "g1")

	if _, ok := c.Get(ctx, "g1", req1); ok {
		t.Fatal("g1 req1 should be invalidated")
	}
	if _, ok := c.Get(ctx, "g1", req2); ok {
		t.Fatal("g1 req2 should be invalidated")
	}
	if _, ok := c.Get(ctx, "g2", req1); !ok {
		t.Fatal("g2 req1 should still be cached")
	}
}

func TestMemoryCacheInvalidateActor(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	req1 := &muster.AuthorizeRequest{ActorID: "u1", AnyPermission: catalog.EventsCreate}
	req2 := &muster.AuthorizeRequest{ActorID: "u2", AnyPermission: catalog.EventsCreate}

	c.Set(ctx, "g1", req1, &muster.AuthzResult{Allowed: true})
	c.Set(ctx, "g1", req2, &muster.AuthzResult{Allowed: true})

	c.InvalidateActor(ctx, "g1", "u1")

	if _, ok := c.Get(ctx, "g1", req1); ok {
		t.Fatal("u1 should be invalidated")
	}
	if _, ok := c.Get(ctx, "g1", req2); !ok {
		t.Fatal("u2 should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	for i := 0; i < 5; i++ {
		req := &muster.AuthorizeRequest{
			ActorID:       "u1",
			AnyPermission: catalog.EventsCreate,
			OwnerID:       string(rune('a' + i)),
		}
		c.Set(ctx, "g1", req, &muster.AuthzResult{Allowed: true})
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
