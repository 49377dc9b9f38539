// Package worker provides a small halt-channel based lifecycle helper for
// background goroutines, the pattern katzenpost's Stream and QUICProxyConn
// types embed to cancel a blocked read from another goroutine.
package worker

import "sync"

// Worker tracks background goroutines that should stop when Halt is
// called. The zero value is ready to use.
type Worker struct {
	initOnce sync.Once
	haltedCh chan struct{}
	haltOnce sync.Once
	wg       sync.WaitGroup
}

func (w *Worker) init() {
	w.initOnce.Do(func() {
		w.haltedCh = make(chan struct{})
	})
}

// Go runs fn in a new goroutine, tracked so Wait blocks until it returns.
func (w *Worker) Go(fn func()) {
	w.init()
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		fn()
	}()
}

// HaltCh returns a channel that is closed when Halt is called. Goroutines
// started with Go should select on it alongside their blocking operations.
func (w *Worker) HaltCh() <-chan struct{} {
	w.init()
	return w.haltedCh
}

// Halt closes the halt channel, if it has not already been closed, and
// blocks until every goroutine started with Go has returned. It is safe to
// call concurrently and more than once.
func (w *Worker) Halt() {
	w.init()
	w.haltOnce.Do(func() {
		close(w.haltedCh)
	})
	w.wg.Wait()
}

// IsHalted reports whether Halt has been called.
func (w *Worker) IsHalted() bool {
	w.init()
	select {
	case <-w.haltedCh:
		return true
	default:
		return false
	}
}
