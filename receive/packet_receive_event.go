// Package receive runs a background loop pulling packets off a
// wire.PacketConnection and fans each one out to subscribers.
package receive

import (
	"sync/atomic"

	"github.com/catshadow/packetconn/event"
	"github.com/catshadow/packetconn/wire"
	"github.com/catshadow/packetconn/worker"
)

// PacketReceiveEvent owns a PacketConnection's receive side: Start spawns a
// goroutine that calls Receive in a loop and invokes an Event with each
// packet, until Stop shuts the connection down or Receive itself errors.
type PacketReceiveEvent struct {
	worker.Worker

	conn         *wire.PacketConnection
	receiveEvent *event.Event[[]byte]

	started atomic.Bool
	stopped atomic.Bool
}

// New returns a PacketReceiveEvent over conn. Start must be called to begin
// pulling packets.
func New(conn *wire.PacketConnection) *PacketReceiveEvent {
	return &PacketReceiveEvent{conn: conn, receiveEvent: event.NewEvent[[]byte]()}
}

// Start spawns the receive loop. Calling it more than once has no effect
// beyond the first call.
func (p *PacketReceiveEvent) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	p.Go(p.run)
}

func (p *PacketReceiveEvent) run() {
	for {
		packet, err := p.conn.Receive()
		if err != nil {
			p.stop()
			return
		}
		p.receiveEvent.Invoke(packet)

		select {
		case <-p.HaltCh():
			return
		default:
		}
	}
}

// Stop shuts the underlying connection down and waits for the receive loop
// to exit. Safe to call more than once and from any goroutine.
func (p *PacketReceiveEvent) Stop() {
	p.stop()
	p.Halt()
}

func (p *PacketReceiveEvent) stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	_ = p.conn.Shutdown(wire.Both)
}

// Subscribe registers a listener called with each received packet's
// payload, in subscription order.
func (p *PacketReceiveEvent) Subscribe(listener func([]byte)) event.Subscription[[]byte] {
	return p.receiveEvent.Subscribe(listener)
}

// TryClone returns a new, not-yet-started PacketReceiveEvent sharing the
// underlying transport via the connection's TryClone.
func (p *PacketReceiveEvent) TryClone() *PacketReceiveEvent {
	return New(p.conn.TryClone())
}
