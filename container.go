package symphony

import (
	"fmt"
	"reflect"
)

// Kind discriminates the three families of container lookups performed by
// the dispatcher.
type Kind uint8

const (
	// KindRequestHandler identifies a lookup for the single handler of a
	// request type.
	KindRequestHandler Kind = iota + 1

	// KindBehavior identifies a lookup for the ordered behaviors wrapping a
	// request dispatch.
	KindBehavior

	// KindEventHandler identifies a lookup for the ordered handlers of a
	// published event type.
	KindEventHandler
)

func (k Kind) String() string {
	switch k {
	case KindRequestHandler:
		return "request handler"
	case KindBehavior:
		return "behavior"
	case KindEventHandler:
		return "event handler"
	default:
		return fmt.Sprintf("unknown kind (%d)", uint8(k))
	}
}

// Key identifies a set of registrations inside a Container. It is a
// comparable value, cheap to construct on every dispatch.
type Key struct {
	Kind     Kind
	Message  reflect.Type
	Response reflect.Type // nil for event handler keys
}

func (k Key) String() string {
	if k.Response == nil {
		return fmt.Sprintf("%s[%s]", k.Kind, k.Message)
	}

	return fmt.Sprintf("%s[%s, %s]", k.Kind, k.Message, k.Response)
}

// HandlerKey returns the lookup key for the handler of the given request and
// declared response types.
func HandlerKey(request, response reflect.Type) Key {
	return Key{Kind: KindRequestHandler, Message: request, Response: response}
}

// BehaviorKey returns the lookup key for the behaviors applying to the given
// request and declared response types.
func BehaviorKey(request, response reflect.Type) Key {
	return Key{Kind: KindBehavior, Message: request, Response: response}
}

// EventKey returns the lookup key for the handlers of the given event type.
func EventKey(event reflect.Type) Key {
	return Key{Kind: KindEventHandler, Message: event}
}

// Container supplies handler and behavior instances to the dispatcher.
//
// The dispatcher never constructs or disposes the instances it receives:
// lifetime and ownership belong entirely to the Container implementation.
// ResolveAll must yield instances in registration order, as both the
// behavior pipeline and event fan-out depend on it.
type Container interface {
	// ResolveOne returns the single instance registered for the key, or
	// false when none is registered.
	ResolveOne(key Key) (any, bool)

	// ResolveAll returns every instance registered for the key, in
	// registration order. An empty result is a valid configuration.
	ResolveAll(key Key) []any
}
