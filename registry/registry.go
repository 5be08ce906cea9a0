// Package registry provides an in-memory symphony.Container implementation
// with explicit, ordered handler registration and singleton or transient
// lifetimes.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"

	"github.com/jarviisha/symphony"
)

// Provider yields handler instances with a chosen lifetime.
type Provider struct {
	instance any
	factory  func() any
}

// Singleton registers a single shared instance, returned on every
// resolution. The instance's own thread-safety is the author's concern.
func Singleton(instance any) Provider {
	return Provider{instance: instance}
}

// Transient registers a factory invoked on every resolution, yielding a
// fresh instance per dispatch.
func Transient(factory func() any) Provider {
	return Provider{factory: factory}
}

func (p Provider) resolve() any {
	if p.factory != nil {
		return p.factory()
	}

	return p.instance
}

// entry is an ordered multi-registration: a behavior or an event handler.
type entry struct {
	key      symphony.Key
	provider Provider
	global   bool // applies to every request pipeline
}

// Registry is an in-memory symphony.Container implementation. Behaviors and
// event handlers are yielded in registration order, which the dispatcher
// relies on for pipeline composition and event fan-out.
//
// Registry is safe for concurrent resolution. Registration calls should
// happen during configuration, before the first dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[symphony.Key]Provider
	ordered  []entry
}

var _ symphony.Container = &Registry{}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[symphony.Key]Provider)}
}

// RegisterRequestHandler registers the handler provider for requests of
// type R with declared response type T.
//
// Please note, when registering multiple handlers for the same request and
// response types, the last registration overwrites any previous one.
func RegisterRequestHandler[R any, T any](r *Registry, p Provider) {
	r.put(symphony.HandlerKey(typeOf[R](), typeOf[T]()), p)
}

// RegisterCommandHandler registers a handler for a request with no
// meaningful response. The dispatcher adapts it to the uniform
// response-bearing contract, returning symphony.Unit to the caller.
func RegisterCommandHandler[R any](r *Registry, p Provider) {
	r.put(symphony.HandlerKey(typeOf[R](), typeOf[symphony.Unit]()), p)
}

// RegisterBehavior appends a behavior for requests of type R with declared
// response type T. Behaviors execute in registration order, first
// registered outermost.
func RegisterBehavior[R any, T any](r *Registry, p Provider) {
	r.append(entry{key: symphony.BehaviorKey(typeOf[R](), typeOf[T]()), provider: p})
}

// RegisterGlobalBehavior appends an untyped behavior applied to every
// request pipeline, ordered relative to typed behaviors by overall
// registration order.
func (r *Registry) RegisterGlobalBehavior(p Provider) {
	r.append(entry{key: symphony.BehaviorKey(typeOf[any](), typeOf[any]()), provider: p, global: true})
}

// RegisterEventHandler appends an event handler for events of type E. Event
// handlers execute sequentially in registration order.
func RegisterEventHandler[E any](r *Registry, p Provider) {
	r.append(entry{key: symphony.EventKey(typeOf[E]()), provider: p})
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (r *Registry) put(key symphony.Key, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[key] = p
}

func (r *Registry) append(e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ordered = append(r.ordered, e)
}

// ResolveOne implements symphony.Container.
func (r *Registry) ResolveOne(key symphony.Key) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.handlers[key]
	if !ok {
		return nil, false
	}

	return p.resolve(), true
}

// ResolveAll implements symphony.Container. Global behaviors match every
// behavior key; typed registrations match their exact key only.
func (r *Registry) ResolveAll(key symphony.Key) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []any

	for _, e := range r.ordered {
		switch {
		case e.global && key.Kind == symphony.KindBehavior:
			out = append(out, e.provider.resolve())
		case !e.global && e.key == key:
			out = append(out, e.provider.resolve())
		}
	}

	return out
}

// Validate checks that every registration structurally resolves a
// conforming handler method, reporting all defects at once rather than
// failing on the first.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var err error

	for key, p := range r.handlers {
		if verr := symphony.Validate(key, p.resolve()); verr != nil {
			err = multierr.Append(err, fmt.Errorf("registry: invalid registration for %s: %w", key, verr))
		}
	}

	for _, e := range r.ordered {
		if verr := symphony.Validate(e.key, e.provider.resolve()); verr != nil {
			err = multierr.Append(err, fmt.Errorf("registry: invalid registration for %s: %w", e.key, verr))
		}
	}

	return err
}
