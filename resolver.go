package symphony

import (
	"context"
	"fmt"
	"reflect"
)

// handleMethodName is the preferred method name searched during the first
// resolution phase.
const handleMethodName = "Handle"

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	unitType    = reflect.TypeOf(Unit{})
)

// method is the resolved descriptor of a handler, behavior or event handler
// method, in receiver-explicit form.
type method struct {
	owner    reflect.Type
	fn       reflect.Value // func(receiver, ctx, ...) (...)
	request  reflect.Type  // declared message parameter type
	response reflect.Type  // declared response type; unitType for the void shape
	next     reflect.Type  // behavior continuation parameter type, nil otherwise
	void     bool          // command shape returning a bare error
}

// matcher reports whether a candidate method conforms to the expected shape,
// returning its descriptor when it does.
type matcher func(reflect.Method) (method, bool)

// resolveMethod locates the single method of owner conforming to the
// expected shape.
//
// Resolution runs in two phases: first the exported method named "Handle" is
// probed, matching the common case of a type implementing one handler
// contract directly. If that method is absent or does not conform, every
// exported method is inspected; exactly one conforming method wins, zero
// fails with a resolution error, and more than one is an ambiguity error.
func resolveMethod(owner reflect.Type, match matcher, signature string) (method, error) {
	if m, ok := owner.MethodByName(handleMethodName); ok {
		if desc, ok := match(m); ok {
			return desc, nil
		}
	}

	var (
		found    []method
		names    []string
		searched []string
	)

	for i := 0; i < owner.NumMethod(); i++ {
		m := owner.Method(i)
		searched = append(searched, m.Name)

		if desc, ok := match(m); ok {
			found = append(found, desc)
			names = append(names, m.Name)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return method{}, &MethodResolutionError{
			Owner:     owner,
			Method:    handleMethodName,
			Signature: signature,
			Searched:  searched,
		}
	default:
		return method{}, &AmbiguousMethodError{
			Owner:     owner,
			Signature: signature,
			Matches:   names,
		}
	}
}

// resolveRequestMethod locates the handler method for a request with the
// given declared response type. Both the value-returning shape and the
// bare-error command shape (declared response Unit) are accepted.
func resolveRequestMethod(owner, request, response reflect.Type) (method, error) {
	match := func(m reflect.Method) (method, bool) {
		mt := m.Func.Type()
		if mt.IsVariadic() || mt.NumIn() != 3 || mt.In(1) != contextType || !request.AssignableTo(mt.In(2)) {
			return method{}, false
		}

		switch {
		case mt.NumOut() == 2 && mt.Out(1) == errorType && mt.Out(0).AssignableTo(response):
			return method{
				owner:    owner,
				fn:       m.Func,
				request:  mt.In(2),
				response: mt.Out(0),
			}, true

		case mt.NumOut() == 1 && mt.Out(0) == errorType && response == unitType:
			return method{
				owner:    owner,
				fn:       m.Func,
				request:  mt.In(2),
				response: unitType,
				void:     true,
			}, true
		}

		return method{}, false
	}

	return resolveMethod(owner, match, requestSignature(request, response))
}

// resolveBehaviorMethod locates the behavior method for a request with the
// given declared response type. The continuation parameter is accepted in
// either of its two shapes: the named Next type or an equivalent unnamed
// func type.
func resolveBehaviorMethod(owner, request, response reflect.Type) (method, error) {
	match := func(m reflect.Method) (method, bool) {
		mt := m.Func.Type()
		if mt.IsVariadic() || mt.NumIn() != 4 || mt.In(1) != contextType || !request.AssignableTo(mt.In(2)) {
			return method{}, false
		}

		if !conformingNext(mt.In(3), response) {
			return method{}, false
		}

		if mt.NumOut() != 2 || mt.Out(1) != errorType || !resultCompatible(mt.Out(0), response) {
			return method{}, false
		}

		return method{
			owner:    owner,
			fn:       m.Func,
			request:  mt.In(2),
			response: mt.Out(0),
			next:     mt.In(3),
		}, true
	}

	return resolveMethod(owner, match, behaviorSignature(request, response))
}

// resolveEventMethod locates the event handler method for the given event
// type. The method must return a bare error; a value-returning method does
// not qualify.
func resolveEventMethod(owner, event reflect.Type) (method, error) {
	match := func(m reflect.Method) (method, bool) {
		mt := m.Func.Type()
		if mt.IsVariadic() || mt.NumIn() != 3 || mt.In(1) != contextType || !event.AssignableTo(mt.In(2)) {
			return method{}, false
		}

		if mt.NumOut() != 1 || mt.Out(0) != errorType {
			return method{}, false
		}

		return method{owner: owner, fn: m.Func, request: mt.In(2)}, true
	}

	return resolveMethod(owner, match, eventSignature(event))
}

// conformingNext reports whether t is an acceptable continuation parameter
// type for the given response type: a non-variadic func taking a single
// context.Context and returning a value the pipeline response can be
// assigned to, plus an error.
func conformingNext(t, response reflect.Type) bool {
	return t.Kind() == reflect.Func && !t.IsVariadic() &&
		t.NumIn() == 1 && t.In(0) == contextType &&
		t.NumOut() == 2 && t.Out(1) == errorType &&
		response.AssignableTo(t.Out(0))
}

// resultCompatible reports whether a behavior result type can flow into the
// declared response type. Untyped behaviors declare an interface result
// wider than the response; the final assignability check happens at the
// Send boundary.
func resultCompatible(out, response reflect.Type) bool {
	return out.AssignableTo(response) || response.AssignableTo(out)
}

func requestSignature(request, response reflect.Type) string {
	if response == unitType {
		return fmt.Sprintf("Handle(context.Context, %s) (%s, error) or Handle(context.Context, %s) error", request, response, request)
	}

	return fmt.Sprintf("Handle(context.Context, %s) (%s, error)", request, response)
}

func behaviorSignature(request, response reflect.Type) string {
	return fmt.Sprintf("Handle(context.Context, %s, symphony.Next[%s]) (%s, error)", request, response, response)
}

func eventSignature(event reflect.Type) string {
	return fmt.Sprintf("Handle(context.Context, %s) error", event)
}

// Validate checks that instance structurally conforms to the handler shape
// identified by key. It is used by registration layers to surface authoring
// defects at configuration time rather than on first dispatch.
func Validate(key Key, instance any) error {
	if instance == nil {
		return fmt.Errorf("symphony: nil instance registered for %s", key)
	}

	owner := reflect.TypeOf(instance)

	var err error

	switch key.Kind {
	case KindRequestHandler:
		_, err = resolveRequestMethod(owner, key.Message, key.Response)
	case KindBehavior:
		_, err = resolveBehaviorMethod(owner, key.Message, key.Response)
	case KindEventHandler:
		_, err = resolveEventMethod(owner, key.Message)
	default:
		err = fmt.Errorf("symphony: cannot validate %s", key)
	}

	return err
}
