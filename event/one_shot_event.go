package event

// oneShotState tracks whether a OneShotEvent has fired yet.
type oneShotState int

const (
	armed oneShotState = iota
	fired
)

// OneShotEvent calls every live listener exactly once, on the first Invoke.
// Any listener subscribed after that first Invoke is called immediately,
// synchronously, with the original argument, instead of waiting for a
// second invocation that will never come.
type OneShotEvent[T any] struct {
	state     oneShotState
	arg       T
	listeners []*entry[T]
}

// NewOneShotEvent returns an armed OneShotEvent.
func NewOneShotEvent[T any]() *OneShotEvent[T] {
	return &OneShotEvent[T]{state: armed}
}

// Subscribe registers listener. If the event has already fired, listener is
// called immediately with the captured argument and the returned
// Subscription is inert (Unsubscribe is a no-op, since the listener has
// already run).
func (e *OneShotEvent[T]) Subscribe(listener func(T)) Subscription[T] {
	en := &entry[T]{listener: listener}
	en.live.Store(true)

	if e.state == fired {
		listener(e.arg)
		en.live.Store(false)
		return Subscription[T]{entry: en}
	}

	e.listeners = append(e.listeners, en)
	return Subscription[T]{entry: en}
}

// Invoke fires every currently-live listener with arg and transitions the
// event to fired. Subsequent Invoke calls are no-ops.
func (e *OneShotEvent[T]) Invoke(arg T) {
	if e.state == fired {
		return
	}
	e.state = fired
	e.arg = arg

	for _, en := range e.listeners {
		if en.live.Load() {
			en.listener(arg)
		}
	}
	e.listeners = nil
}

// IsFired reports whether Invoke has been called.
func (e *OneShotEvent[T]) IsFired() bool {
	return e.state == fired
}
