package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably-system/internal/upstream"
)

func scanPayload(sessionID string) *upstream.ScanResponse {
	return &upstream.ScanResponse{
		Status:    "ok",
		QRContext: &upstream.QRContext{OutletID: "o-1", SessionID: sessionID, Currency: "INR"},
		Outlet:    &upstream.OutletInfo{ID: "11111111-2222-4333-8444-555555555555", Name: "Corner Cafe"},
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	assert.Nil(t, cache.Get(ctx, "T12"))

	cache.Set(ctx, "T12", scanPayload("s-1"), time.Minute)
	got := cache.Get(ctx, "T12")
	require.NotNil(t, got)
	assert.Equal(t, "s-1", got.QRContext.SessionID)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Set(ctx, "T12", scanPayload("s-1"), time.Minute)

	cache.now = func() time.Time { return now.Add(time.Minute) }
	assert.Nil(t, cache.Get(ctx, "T12"), "entry at expiry boundary is a miss")

	// lazy delete: a later read with fresh clock still misses
	cache.now = time.Now
	assert.Nil(t, cache.Get(ctx, "T12"))
}

func TestMemoryCacheEntryWithoutContextIsMissAndDropped(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	cache.Set(ctx, "T12", &upstream.ScanResponse{Status: "ok"}, time.Minute)
	assert.Nil(t, cache.Get(ctx, "T12"))

	// the invalid entry is deleted on read, not left until TTL
	cache.mu.Lock()
	_, stillThere := cache.entries["T12"]
	cache.mu.Unlock()
	assert.False(t, stillThere)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	cache.Set(ctx, "T12", scanPayload("s-1"), time.Minute)
	cache.Delete(ctx, "T12")
	assert.Nil(t, cache.Get(ctx, "T12"))
}
