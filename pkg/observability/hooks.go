// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let a binary attach instrumentation without the libraries depending
// on an observability backend. The defaults are no-ops; main registers real
// implementations at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCartHooks(&myCartHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cart().OnDrop(ctx, cartID, tag, row, wrapped)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Cart Hooks
// =============================================================================

// CartHooks receives events from carts and their piles.
type CartHooks interface {
	// OnDrop records an accepted drop and the pile row the item landed in.
	OnDrop(ctx context.Context, cartID, tag string, row int, wrapped bool)

	// OnReject records a drop that was refused (for example, a full cart).
	OnReject(ctx context.Context, cartID, reason string)

	// OnMeter records a survival meter change caused by an item.
	OnMeter(ctx context.Context, cartID string, hp, delta int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot stores.
type StoreHooks interface {
	// OnLoad records a snapshot lookup.
	OnLoad(ctx context.Context, backend string, hit bool, duration time.Duration)

	// OnSave records a snapshot write.
	OnSave(ctx context.Context, backend string, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCartHooks is a no-op implementation of CartHooks.
type NoopCartHooks struct{}

func (NoopCartHooks) OnDrop(context.Context, string, string, int, bool) {}
func (NoopCartHooks) OnReject(context.Context, string, string)          {}
func (NoopCartHooks) OnMeter(context.Context, string, int, int)         {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, bool, time.Duration)       {}
func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cartHooks  CartHooks  = NoopCartHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetCartHooks registers custom cart hooks. Nil is ignored.
func SetCartHooks(h CartHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cartHooks = h
	}
}

// SetStoreHooks registers custom store hooks. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Cart returns the registered cart hooks.
func Cart() CartHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cartHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cartHooks = NoopCartHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
