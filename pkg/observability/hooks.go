// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the binary decides
// what, if anything, consumes them. The HTTP server registers Prometheus
// collectors; the CLI leaves the no-op defaults in place.
//
// # Usage
//
// Register hooks at startup:
//
//	observability.SetRenderHooks(metrics)
//	observability.SetCacheHooks(metrics)
//
// Emit events from library code:
//
//	observability.Render().OnRenderStart(ctx, "png", len(plan.Layers))
//	// ... draw ...
//	observability.Render().OnRenderComplete(ctx, "png", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// RenderHooks receives events from artifact rendering and asset loading.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, layers int)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)

	// OnAssetLoad records one part image load. remote is true for URLs.
	OnAssetLoad(ctx context.Context, remote bool, duration time.Duration, err error)
}

// CacheHooks receives events from artifact cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// SessionHooks receives events from builder sessions.
type SessionHooks interface {
	OnSessionOpen(ctx context.Context)
	OnSessionClose(ctx context.Context)

	// OnSelect records a part choice for category.
	OnSelect(ctx context.Context, category string)

	// OnNavigate records an advance or jump; err is the refusal, if any.
	OnNavigate(ctx context.Context, action, category string, err error)
}

// NoopRenderHooks ignores all render events.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                     {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}
func (NoopRenderHooks) OnAssetLoad(context.Context, bool, time.Duration, error)        {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSessionHooks ignores all session events.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionOpen(context.Context)                     {}
func (NoopSessionHooks) OnSessionClose(context.Context)                    {}
func (NoopSessionHooks) OnSelect(context.Context, string)                  {}
func (NoopSessionHooks) OnNavigate(context.Context, string, string, error) {}

var (
	renderHooks  RenderHooks  = NoopRenderHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetRenderHooks registers render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSessionHooks registers session hooks. Nil is ignored.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	sessionHooks = NoopSessionHooks{}
}
