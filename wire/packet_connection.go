package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/catshadow/packetconn/framing"
)

// ErrIO wraps an underlying transport read/write/flush failure.
var ErrIO = errors.New("packetconn/wire: transport error")

// PacketConnection frames packets over a Transport: a 4-byte little-endian
// length header followed by the payload, no other framing byte.
type PacketConnection struct {
	transport Transport
	assembly  *framing.PacketAssembly

	// writeMu serializes header+payload writes so two clones sharing a
	// Transport can Send concurrently without interleaving each other's
	// bytes. Clones share the same *sync.Mutex instance.
	writeMu *sync.Mutex
}

// New wraps transport in a PacketConnection whose internal receive buffer
// is receiveBufferSize bytes.
func New(transport Transport, receiveBufferSize int) *PacketConnection {
	return &PacketConnection{transport: transport, assembly: framing.New(receiveBufferSize), writeMu: &sync.Mutex{}}
}

// NewWithMaxPacketSize is like New but rejects any declared packet length
// greater than maxPacketSize.
func NewWithMaxPacketSize(transport Transport, receiveBufferSize, maxPacketSize int) *PacketConnection {
	return &PacketConnection{transport: transport, assembly: framing.NewWithMax(receiveBufferSize, maxPacketSize), writeMu: &sync.Mutex{}}
}

// Send writes the 4-byte little-endian length header followed by data.
// There is no partial-write tolerance beyond what the transport provides.
// Safe to call concurrently, including from clones produced by TryClone.
func (c *PacketConnection) Send(data []byte) error {
	var header [framing.HeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(data)))

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.transport.Write(header[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if len(data) > 0 {
		if _, err := c.transport.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

// Receive delegates to the internal PacketAssembly. On any error it shuts
// the transport down on both sides and returns the error.
func (c *PacketConnection) Receive() ([]byte, error) {
	packet, err := c.assembly.ReceivePacket(c.transport)
	if err != nil {
		_ = c.Shutdown(Both)
		return nil, err
	}
	return packet, nil
}

// Shutdown instructs the transport to refuse further reads/writes/both.
// It is safe to call from a different goroutine than the one blocked in
// Receive; see Transport's docs for why.
func (c *PacketConnection) Shutdown(how How) error {
	if err := shutdownTransport(c.transport, how); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// TryClone returns a new PacketConnection sharing the same underlying
// Transport but with an independent PacketAssembly. Safe for two actors to
// Send concurrently; unsafe for two actors to Receive concurrently, since
// the two PacketAssembly instances would each consume the other's stream
// bytes.
func (c *PacketConnection) TryClone() *PacketConnection {
	return &PacketConnection{transport: c.transport, assembly: framing.New(defaultCloneBufferSize), writeMu: c.writeMu}
}

// defaultCloneBufferSize matches the buffer size callers that don't care
// about the exact figure would reasonably pick; TryCloneWithBufferSize lets
// callers that do care specify it.
const defaultCloneBufferSize = 4096

// TryCloneWithBufferSize is TryClone with an explicit receive buffer size
// for the clone's PacketAssembly.
func (c *PacketConnection) TryCloneWithBufferSize(receiveBufferSize int) *PacketConnection {
	return &PacketConnection{transport: c.transport, assembly: framing.New(receiveBufferSize), writeMu: c.writeMu}
}

var _ Connection = (*PacketConnection)(nil)
