package symphony

// Unit is the response type for requests that produce no meaningful value.
// It keeps the "every request has a response type" contract uniform, so that
// command-style handlers returning only an error can be dispatched through
// the same pipeline as value-returning ones.
//
// Unit has exactly one value, the zero value; any two Unit values compare
// equal through the == operator.
type Unit struct{}

// String returns the literal representation of the empty value.
func (Unit) String() string { return "()" }
