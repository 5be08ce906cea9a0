// Package fxsymphony wires the mediator into a go.uber.org/fx application:
// handler registrations are collected through an fx value group and folded
// into a single Registry, from which the Mediator is provided.
package fxsymphony

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jarviisha/symphony"
	"github.com/jarviisha/symphony/extension/zapsymphony"
	"github.com/jarviisha/symphony/registry"
)

// Registration contributes handler, behavior or event handler registrations
// to the shared Registry.
type Registration func(*registry.Registry)

// Register wraps a Registration into the fx value group consumed by Module.
//
// Example:
//
//	fxsymphony.Register(func(r *registry.Registry) {
//	    registry.RegisterRequestHandler[GetUser, User](r, registry.Singleton(&GetUserHandler{}))
//	})
func Register(fn Registration) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func() Registration { return fn },
			fx.ResultTags(`group:"symphony.registrations"`),
		),
	)
}

// NewRegistry folds every collected Registration into a Registry, in the
// order fx yields them.
func NewRegistry(registrations []Registration) *registry.Registry {
	reg := registry.New()

	for _, apply := range registrations {
		apply(reg)
	}

	return reg
}

type mediatorParams struct {
	fx.In

	Registry *registry.Registry
	Logger   *zap.Logger `optional:"true"`
}

// NewMediator provides the Mediator, attaching engine diagnostics to the
// application zap.Logger when one is in the graph.
func NewMediator(p mediatorParams) *symphony.Mediator {
	var opts []symphony.Option

	if p.Logger != nil {
		opts = append(opts, symphony.WithLogger(zapsymphony.Wrap(p.Logger)))
	}

	return symphony.New(p.Registry, opts...)
}

// Module provided to fx.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewRegistry, fx.ParamTags(`group:"symphony.registrations"`))),
	fx.Provide(NewMediator),
)
