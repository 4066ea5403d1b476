// Package viewstate models the presentation state of an asynchronous
// operation as a tagged union: exactly one of idle, pending, success or error.
package viewstate

import "sync"

// Kind discriminates a State.
type Kind int

const (
	Idle Kind = iota
	Pending
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// State is an immutable snapshot. The payload is only meaningful for Success
// and the message only for Error; the zero value is Idle.
type State[T any] struct {
	kind    Kind
	payload T
	message string
}

func (s State[T]) Kind() Kind { return s.kind }

// Payload returns the success payload and whether the state is Success.
func (s State[T]) Payload() (T, bool) {
	return s.payload, s.kind == Success
}

// Message returns the error message and whether the state is Error.
func (s State[T]) Message() (string, bool) {
	return s.message, s.kind == Error
}

func (s State[T]) IsPending() bool { return s.kind == Pending }

// Holder owns a State and is the only way to transition it. Controllers keep
// their Holder unexported and publish snapshots.
type Holder[T any] struct {
	mu  sync.RWMutex
	cur State[T]
}

// Current returns the latest snapshot.
func (h *Holder[T]) Current() State[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

// Reset returns to Idle, dropping any payload or message.
func (h *Holder[T]) Reset() { h.set(State[T]{kind: Idle}) }

// Begin enters Pending, dropping any prior payload or message.
func (h *Holder[T]) Begin() { h.set(State[T]{kind: Pending}) }

// Succeed enters Success with payload.
func (h *Holder[T]) Succeed(payload T) { h.set(State[T]{kind: Success, payload: payload}) }

// Fail enters Error with message.
func (h *Holder[T]) Fail(message string) { h.set(State[T]{kind: Error, message: message}) }

// last write wins
func (h *Holder[T]) set(s State[T]) {
	h.mu.Lock()
	h.cur = s
	h.mu.Unlock()
}
