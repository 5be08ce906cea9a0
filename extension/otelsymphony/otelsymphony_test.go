package otelsymphony_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarviisha/symphony"
	"github.com/jarviisha/symphony/extension/otelsymphony"
	"github.com/jarviisha/symphony/internal/ping"
	"github.com/jarviisha/symphony/registry"
)

// fakePublisher records the events it was asked to fan out.
type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, ev any) error {
	p.published = append(p.published, ev)
	return p.err
}

func TestInstrumentedPipeline(t *testing.T) {
	ctx := context.Background()

	newMediator := func(t *testing.T, handler any) *symphony.Mediator {
		t.Helper()

		pipeline, err := otelsymphony.NewPipeline()
		require.NoError(t, err)

		r := registry.New()
		registry.RegisterRequestHandler[ping.Request, ping.Response](r, registry.Singleton(handler))
		r.RegisterGlobalBehavior(registry.Singleton(pipeline))

		return symphony.New(r)
	}

	t.Run("passes the dispatch through unchanged", func(t *testing.T) {
		m := newMediator(t, ping.Handler{})

		res, err := symphony.Send[ping.Response](ctx, m, ping.Request{Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "echo: hi", res.Reply)
	})

	t.Run("passes the dispatch error through unchanged", func(t *testing.T) {
		handlerErr := errors.New("echo failed")
		m := newMediator(t, ping.FailingHandler{Err: handlerErr})

		_, err := symphony.Send[ping.Response](ctx, m, ping.Request{Message: "hi"})
		assert.ErrorIs(t, err, handlerErr)
	})
}

func TestInstrumentedPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates the fan-out to the wrapped publisher", func(t *testing.T) {
		fake := &fakePublisher{}

		publisher, err := otelsymphony.InstrumentPublisher(fake)
		require.NoError(t, err)

		require.NoError(t, publisher.Publish(ctx, ping.Event{ID: "1"}))
		assert.Equal(t, []any{ping.Event{ID: "1"}}, fake.published)
	})

	t.Run("passes the fan-out error through unchanged", func(t *testing.T) {
		publishErr := errors.New("projection failed")
		fake := &fakePublisher{err: publishErr}

		publisher, err := otelsymphony.InstrumentPublisher(fake)
		require.NoError(t, err)

		assert.ErrorIs(t, publisher.Publish(ctx, ping.Event{ID: "1"}), publishErr)
	})
}
