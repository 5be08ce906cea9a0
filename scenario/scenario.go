// Package scenario provides fluent helpers for testing handlers through a
// fully-assembled mediator, in a Given/When/Then fashion.
package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jarviisha/symphony"
	"github.com/jarviisha/symphony/registry"
)

// RequestInit is the entrypoint of the request scenario API.
type RequestInit[R any, T any] struct{}

// Request starts a scenario dispatching a request of type R with declared
// response type T.
func Request[R any, T any]() RequestInit[R, T] {
	return RequestInit[R, T]{}
}

// When provides the request to dispatch.
func (RequestInit[R, T]) When(req R) RequestWhen[R, T] {
	return RequestWhen[R, T]{when: req}
}

// RequestWhen is the state of the scenario once the request to dispatch has
// been provided.
type RequestWhen[R any, T any] struct {
	when R
}

// Then sets a positive expectation on the scenario outcome: the dispatch
// succeeds and returns the provided response.
func (sc RequestWhen[R, T]) Then(response T) RequestThen[R, T] {
	return RequestThen[R, T]{
		RequestWhen: sc,
		then:        response,
	}
}

// ThenError sets a negative expectation on the scenario outcome. Error
// assertion happens using errors.Is, so the error returned by the dispatch
// is unwrapped until it matches the provided expectation.
func (sc RequestWhen[R, T]) ThenError(err error) RequestThen[R, T] {
	return RequestThen[R, T]{
		RequestWhen: sc,
		wantError:   true,
		thenError:   err,
	}
}

// ThenFails sets a negative expectation on the scenario outcome, with no
// particular assertion on the error returned.
func (sc RequestWhen[R, T]) ThenFails() RequestThen[R, T] {
	return RequestThen[R, T]{
		RequestWhen: sc,
		wantError:   true,
	}
}

// RequestThen is the state of the scenario once expectations have been
// fully specified.
type RequestThen[R any, T any] struct {
	RequestWhen[R, T]

	then      T
	thenError error
	wantError bool
}

// AssertOn runs the scenario against a mediator resolving from the Registry
// configured by the provided setup function.
func (sc RequestThen[R, T]) AssertOn(t *testing.T, setup func(*registry.Registry)) {
	t.Helper()

	reg := registry.New()
	setup(reg)

	response, err := symphony.Send[T](context.Background(), symphony.New(reg), sc.when)

	if !sc.wantError {
		assert.NoError(t, err)
		assert.Equal(t, sc.then, response)

		return
	}

	if !assert.Error(t, err) {
		return
	}

	if sc.thenError != nil {
		assert.ErrorIs(t, err, sc.thenError)
	}
}

// PublishInit is the entrypoint of the publish scenario API.
type PublishInit[E any] struct{}

// Publish starts a scenario fanning out an event of type E.
func Publish[E any]() PublishInit[E] {
	return PublishInit[E]{}
}

// When provides the event to publish.
func (PublishInit[E]) When(ev E) PublishWhen[E] {
	return PublishWhen[E]{when: ev}
}

// PublishWhen is the state of the scenario once the event to publish has
// been provided.
type PublishWhen[E any] struct {
	when E
}

// Then expects the fan-out to complete without error.
func (sc PublishWhen[E]) Then() PublishThen[E] {
	return PublishThen[E]{PublishWhen: sc}
}

// ThenError expects the fan-out to stop with an error matching the provided
// one through errors.Is.
func (sc PublishWhen[E]) ThenError(err error) PublishThen[E] {
	return PublishThen[E]{
		PublishWhen: sc,
		wantError:   true,
		thenError:   err,
	}
}

// ThenFails expects the fan-out to stop with any error.
func (sc PublishWhen[E]) ThenFails() PublishThen[E] {
	return PublishThen[E]{
		PublishWhen: sc,
		wantError:   true,
	}
}

// PublishThen is the state of the scenario once expectations have been
// fully specified.
type PublishThen[E any] struct {
	PublishWhen[E]

	thenError error
	wantError bool
}

// AssertOn runs the scenario against a mediator resolving from the Registry
// configured by the provided setup function.
func (sc PublishThen[E]) AssertOn(t *testing.T, setup func(*registry.Registry)) {
	t.Helper()

	reg := registry.New()
	setup(reg)

	err := symphony.New(reg).Publish(context.Background(), sc.when)

	if !sc.wantError {
		assert.NoError(t, err)

		return
	}

	if !assert.Error(t, err) {
		return
	}

	if sc.thenError != nil {
		assert.ErrorIs(t, err, sc.thenError)
	}
}
