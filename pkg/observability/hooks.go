// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; main decides which
// backend receives them. The defaults are no-ops, and [Prometheus] is the
// bundled metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	    observability.SetRenderHooks(m)
//	    observability.SetControlHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnLayoutStart(ctx, "eades", nodeCount)
//	// ... compute positions ...
//	observability.Render().OnLayoutComplete(ctx, "eades", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the graph renderer.
type RenderHooks interface {
	// Layout events
	OnLayoutStart(ctx context.Context, layouter string, nodeCount int)
	OnLayoutComplete(ctx context.Context, layouter string, duration time.Duration, err error)

	// OnRenderComplete is called once per render with the number of node
	// glyphs and arcs drawn.
	OnRenderComplete(ctx context.Context, nodes, arcs int, duration time.Duration, err error)
}

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from graph engines.
type EngineHooks interface {
	// OnSnapshot records a pull of the graph or the index table.
	OnSnapshot(ctx context.Context, kind string, k int, duration time.Duration, err error)

	// OnSetK records a change of the k parameter.
	OnSetK(ctx context.Context, k int, duration time.Duration, err error)
}

// =============================================================================
// Control Hooks
// =============================================================================

// ControlHooks receives events from the parameter controller.
type ControlHooks interface {
	// OnProposal records the terminal state of a k proposal.
	OnProposal(ctx context.Context, state, reason string)

	// OnCommand records a dispatched command.
	OnCommand(ctx context.Context, command string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopRenderHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopRenderHooks) OnRenderComplete(context.Context, int, int, time.Duration, error) {}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnSnapshot(context.Context, string, int, time.Duration, error) {}
func (NoopEngineHooks) OnSetK(context.Context, int, time.Duration, error)             {}

// NoopControlHooks is a no-op implementation of ControlHooks.
type NoopControlHooks struct{}

func (NoopControlHooks) OnProposal(context.Context, string, string) {}
func (NoopControlHooks) OnCommand(context.Context, string, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks  RenderHooks  = NoopRenderHooks{}
	engineHooks  EngineHooks  = NoopEngineHooks{}
	controlHooks ControlHooks = NoopControlHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetEngineHooks registers custom engine hooks.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetControlHooks registers custom controller hooks.
func SetControlHooks(h ControlHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		controlHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Control returns the registered controller hooks.
func Control() ControlHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return controlHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	engineHooks = NoopEngineHooks{}
	controlHooks = NoopControlHooks{}
	cacheHooks = NoopCacheHooks{}
}
