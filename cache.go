package symphony

import (
	"reflect"
	"sync"
)

// cacheKey pairs the concrete owner type with the message type it was
// resolved against. The declared response type is folded into the compiled
// invoker's closure, not the key: a concrete type is only ever applied
// against one response type per request type at a time.
type cacheKey struct {
	owner   reflect.Type
	message reflect.Type
}

// invokerCache memoizes compiled invokers under concurrent access. Entries
// are computed lazily on first dispatch and kept for the lifetime of the
// process; there is no eviction.
type invokerCache[V any] struct {
	mu      sync.RWMutex
	entries map[cacheKey]V
}

// getOrCompute returns the cached value for key, computing and inserting it
// when absent. The compute function runs outside the lock, so a concurrent
// first access may compute more than once, but the insert below is atomic
// and every reader converges on a single fully-constructed entry.
func (c *invokerCache[V]) getOrCompute(key cacheKey, compute func() (V, error)) (V, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}

	if c.entries == nil {
		c.entries = make(map[cacheKey]V)
	}

	c.entries[key] = v

	return v, nil
}

func (c *invokerCache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
}

func (c *invokerCache[V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

var (
	requestInvokers  invokerCache[requestInvoker]
	behaviorInvokers invokerCache[behaviorInvoker]
	eventInvokers    invokerCache[eventInvoker]
)

// ClearCaches empties every compiled-invoker cache uniformly. It exists for
// test isolation and hot-reload scenarios; steady-state use never needs it,
// as entries are invariant for a given pair of types.
func ClearCaches() {
	requestInvokers.clear()
	behaviorInvokers.clear()
	eventInvokers.clear()
}

func requestInvokerFor(owner, request, response reflect.Type) (requestInvoker, error) {
	return requestInvokers.getOrCompute(cacheKey{owner: owner, message: request}, func() (requestInvoker, error) {
		m, err := resolveRequestMethod(owner, request, response)
		if err != nil {
			return nil, err
		}

		return compileRequest(m), nil
	})
}

func behaviorInvokerFor(owner, request, response reflect.Type) (behaviorInvoker, error) {
	return behaviorInvokers.getOrCompute(cacheKey{owner: owner, message: request}, func() (behaviorInvoker, error) {
		m, err := resolveBehaviorMethod(owner, request, response)
		if err != nil {
			return nil, err
		}

		return compileBehavior(m), nil
	})
}

func eventInvokerFor(owner, event reflect.Type) (eventInvoker, error) {
	return eventInvokers.getOrCompute(cacheKey{owner: owner, message: event}, func() (eventInvoker, error) {
		m, err := resolveEventMethod(owner, event)
		if err != nil {
			return nil, err
		}

		return compileEvent(m), nil
	})
}
