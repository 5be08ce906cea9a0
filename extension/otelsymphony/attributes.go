package otelsymphony

import "go.opentelemetry.io/otel/attribute"

// Names of the OpenTelemetry spans created by the package.
const (
	SendSpanName    = "Mediator.Send"
	PublishSpanName = "Mediator.Publish"
)

var (
	// ErrorAttribute is used with a metric when an error is recorded.
	ErrorAttribute = attribute.Key("error")

	// RequestTypeAttribute is the attribute identifier that contains the
	// runtime type of a dispatched request.
	RequestTypeAttribute = attribute.Key("symphony.request.type")

	// EventTypeAttribute is the attribute identifier that contains the
	// runtime type of a published event.
	EventTypeAttribute = attribute.Key("symphony.event.type")
)
