// Package future provides a single-assignment future over one asynchronous
// operation.
//
// An Action is shared between the issuer of the operation and the executor
// that eventually resolves it. Any number of goroutines may block on Get or
// register listeners; the transition to a terminal state is atomic with
// respect to concurrent registration, so every listener observes exactly
// one terminal outcome.
package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type state int

const (
	statePending state = iota
	stateCompleted
	stateFailed
)

// Action is the eventual result of exactly one asynchronous operation.
//
// State transitions exactly once, pending -> completed or pending -> failed,
// and terminal states are sticky. Resolve and Reject are owned by the
// operation's executor; everything else is safe for arbitrary callers.
type Action[T any] struct {
	mu        sync.Mutex
	state     state
	value     T
	err       error
	done      chan struct{}
	listeners []func(T, error)
}

// New creates a pending action.
func New[T any]() *Action[T] {
	return &Action[T]{done: make(chan struct{})}
}

// Resolve completes the action with a value. Listeners registered so far
// are invoked synchronously, in registration order, before Resolve returns.
//
// Calling Resolve or Reject after the action is terminal is a programming
// error and panics: the action models single-assignment semantics.
func (a *Action[T]) Resolve(v T) {
	a.transition(stateCompleted, v, nil)
}

// Reject fails the action with an error. The error is stored as the root
// cause and replayed identically to every subsequent Get and listener.
// Panics if the action is already terminal, like Resolve.
func (a *Action[T]) Reject(err error) {
	if err == nil {
		err = errors.New("rejected with nil error")
	}
	var zero T
	a.transition(stateFailed, zero, err)
}

// Cancel fails a still-pending action with *CanceledError and reports
// whether cancellation took effect. Once Resolve or Reject has been called
// it is a no-op returning false: races are resolved in favor of resolution.
func (a *Action[T]) Cancel() bool {
	a.mu.Lock()
	if a.state != statePending {
		a.mu.Unlock()
		return false
	}
	a.state = stateFailed
	a.err = &CanceledError{}
	ls := a.takeListeners()
	close(a.done)
	a.mu.Unlock()

	a.invoke(ls)
	return true
}

func (a *Action[T]) transition(to state, v T, err error) {
	a.mu.Lock()
	if a.state != statePending {
		a.mu.Unlock()
		panic(fmt.Sprintf("future: terminal action resolved twice (state %d)", a.state))
	}
	a.state = to
	a.value = v
	a.err = err
	ls := a.takeListeners()
	close(a.done)
	a.mu.Unlock()

	a.invoke(ls)
}

// takeListeners must be called with a.mu held.
func (a *Action[T]) takeListeners() []func(T, error) {
	ls := a.listeners
	a.listeners = nil
	return ls
}

func (a *Action[T]) invoke(ls []func(T, error)) {
	for _, l := range ls {
		l(a.value, a.err)
	}
}

// Get blocks until the action resolves or ctx expires.
//
// On success it returns the value. On failure it returns the stored error
// wrapped in *OpError so callers can introspect the root cause without
// unwrapping by hand (see RootCause). If the context deadline passes first,
// Get returns *TimeoutError and the action's state is untouched: a later
// Get may still succeed.
func (a *Action[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-a.done:
		return a.outcome()
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, &TimeoutError{Err: ctx.Err()}
		}
		return zero, ctx.Err()
	}
}

// GetTimeout is Get with a fresh deadline of d from now.
func (a *Action[T]) GetTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return a.Get(ctx)
}

func (a *Action[T]) outcome() (T, error) {
	// done is closed, so state/value/err are immutable from here on.
	if a.err != nil {
		var zero T
		return zero, &OpError{Err: a.err}
	}
	return a.value, nil
}

// Done returns a channel closed when the action reaches a terminal state,
// for use in select statements.
func (a *Action[T]) Done() <-chan struct{} { return a.done }

// OnComplete registers a callback invoked exactly once with the terminal
// outcome. If the action is already terminal, the callback runs
// synchronously before OnComplete returns; a listener is never silently
// dropped. Listeners registered while pending run in registration order,
// synchronously with the transition.
func (a *Action[T]) OnComplete(fn func(T, error)) {
	a.mu.Lock()
	if a.state == statePending {
		a.listeners = append(a.listeners, fn)
		a.mu.Unlock()
		return
	}
	v, err := a.value, a.err
	a.mu.Unlock()

	fn(v, err)
}

// OnSuccess registers a callback that fires only if the action completes
// with a value. A failure is a silent no-op for it, never an error.
func (a *Action[T]) OnSuccess(fn func(T)) {
	a.OnComplete(func(v T, err error) {
		if err == nil {
			fn(v)
		}
	})
}

// OnFailure registers a callback that fires only if the action fails. The
// callback receives the root cause, not a wrapped error.
func (a *Action[T]) OnFailure(fn func(error)) {
	a.OnComplete(func(_ T, err error) {
		if err != nil {
			fn(err)
		}
	})
}

// RootCause returns the innermost error behind a failure, or nil while the
// action is pending or after success.
func (a *Action[T]) RootCause() error {
	a.mu.Lock()
	err := a.err
	a.mu.Unlock()

	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}
