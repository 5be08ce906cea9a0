package correlation_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarviisha/symphony"
	"github.com/jarviisha/symphony/extension/correlation"
	"github.com/jarviisha/symphony/registry"
)

type whoAmIRequest struct{}

type whoAmIResponse struct {
	CorrelationID string
	CausationID   string
}

// identityHandler reports the identifiers it observed on its context.
type identityHandler struct{}

func (identityHandler) Handle(ctx context.Context, _ whoAmIRequest) (whoAmIResponse, error) {
	var res whoAmIResponse
	res.CorrelationID, _ = correlation.CorrelationID(ctx)
	res.CausationID, _ = correlation.CausationID(ctx)

	return res, nil
}

func sequentialGenerator() correlation.Generator {
	next := 0

	return func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	t.Run("a bare context carries no identifiers", func(t *testing.T) {
		_, ok := correlation.CorrelationID(ctx)
		assert.False(t, ok)

		_, ok = correlation.CausationID(ctx)
		assert.False(t, ok)
	})

	t.Run("identifiers round-trip through the context", func(t *testing.T) {
		stamped := correlation.WithCorrelationID(ctx, "flow-1")
		stamped = correlation.WithCausationID(stamped, "cause-1")

		correlationID, ok := correlation.CorrelationID(stamped)
		require.True(t, ok)
		assert.Equal(t, "flow-1", correlationID)

		causationID, ok := correlation.CausationID(stamped)
		require.True(t, ok)
		assert.Equal(t, "cause-1", causationID)
	})

	t.Run("an empty identifier counts as absent", func(t *testing.T) {
		_, ok := correlation.CorrelationID(correlation.WithCorrelationID(ctx, ""))
		assert.False(t, ok)
	})
}

func TestBehavior(t *testing.T) {
	ctx := context.Background()

	newMediator := func(generate correlation.Generator) *symphony.Mediator {
		r := registry.New()
		registry.RegisterRequestHandler[whoAmIRequest, whoAmIResponse](r, registry.Singleton(identityHandler{}))
		r.RegisterGlobalBehavior(registry.Singleton(correlation.Behavior{Generator: generate}))

		return symphony.New(r)
	}

	t.Run("stamps fresh identifiers on an unstamped dispatch", func(t *testing.T) {
		m := newMediator(sequentialGenerator())

		res, err := symphony.Send[whoAmIResponse](ctx, m, whoAmIRequest{})
		require.NoError(t, err)
		assert.Equal(t, "id-1", res.CorrelationID)
		assert.Equal(t, "id-1", res.CausationID)
	})

	t.Run("inherits the caller correlation id and renews causation", func(t *testing.T) {
		m := newMediator(sequentialGenerator())

		stamped := correlation.WithCorrelationID(ctx, "flow-1")
		stamped = correlation.WithCausationID(stamped, "cause-0")

		res, err := symphony.Send[whoAmIResponse](stamped, m, whoAmIRequest{})
		require.NoError(t, err)
		assert.Equal(t, "flow-1", res.CorrelationID)
		assert.Equal(t, "id-1", res.CausationID)
	})

	t.Run("defaults to uuid identifiers", func(t *testing.T) {
		m := newMediator(nil)

		res, err := symphony.Send[whoAmIResponse](ctx, m, whoAmIRequest{})
		require.NoError(t, err)
		assert.NotEmpty(t, res.CorrelationID)
		assert.Equal(t, res.CorrelationID, res.CausationID)
	})

	t.Run("consecutive dispatches in one flow share the correlation id", func(t *testing.T) {
		m := newMediator(sequentialGenerator())

		stamped := correlation.WithCorrelationID(ctx, "flow-1")

		first, err := symphony.Send[whoAmIResponse](stamped, m, whoAmIRequest{})
		require.NoError(t, err)

		second, err := symphony.Send[whoAmIResponse](stamped, m, whoAmIRequest{})
		require.NoError(t, err)

		assert.Equal(t, "flow-1", first.CorrelationID)
		assert.Equal(t, "flow-1", second.CorrelationID)
		assert.NotEqual(t, first.CausationID, second.CausationID)
	})
}
