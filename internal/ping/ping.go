// Package ping provides the message and handler fixtures shared by the test
// suites across the module.
package ping

import (
	"context"
	"fmt"
	"sync"
)

// Request asks for an echo of its message.
type Request struct {
	Message string
}

// Response is the reply to a Request.
type Response struct {
	Reply string
}

// Handler replies to a Request with an "echo:" prefix.
type Handler struct{}

func (Handler) Handle(_ context.Context, req Request) (Response, error) {
	return Response{Reply: "echo: " + req.Message}, nil
}

// FailingHandler always fails with Err.
type FailingHandler struct {
	Err error
}

func (h FailingHandler) Handle(_ context.Context, _ Request) (Response, error) {
	return Response{}, h.Err
}

// Command is a request with no meaningful response.
type Command struct {
	Name string
}

// CommandHandler records the commands it consumed.
type CommandHandler struct {
	mu       sync.Mutex
	received []string
}

func (h *CommandHandler) Handle(_ context.Context, cmd Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.received = append(h.received, cmd.Name)

	return nil
}

// Received returns the names of the commands consumed so far.
func (h *CommandHandler) Received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.received...)
}

// Event signals that a Request was observed.
type Event struct {
	ID string
}

// Recorder is an event handler remembering every event it was given,
// stamped with its own name to make fan-out order observable.
type Recorder struct {
	Name string

	mu   sync.Mutex
	log  *[]string
	seen []string
}

// NewRecorder returns a Recorder appending to the shared log, used to
// assert cross-handler ordering.
func NewRecorder(name string, log *[]string) *Recorder {
	return &Recorder{Name: name, log: log}
}

func (r *Recorder) Handle(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen = append(r.seen, ev.ID)
	if r.log != nil {
		*r.log = append(*r.log, fmt.Sprintf("%s:%s", r.Name, ev.ID))
	}

	return nil
}

// Seen returns the event IDs consumed so far.
func (r *Recorder) Seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.seen...)
}

// FailingRecorder fails every event with Err.
type FailingRecorder struct {
	Err error
}

func (r FailingRecorder) Handle(_ context.Context, _ Event) error {
	return r.Err
}
