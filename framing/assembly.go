// Package framing reconstructs discrete length-prefixed packets from a
// chunked byte stream using a single fixed-size receive buffer, with no
// heap churn beyond the packet actually handed back to the caller.
package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/catshadow/packetconn/buffer"
)

// HeaderSize is the length, in bytes, of the little-endian packet-length
// header that precedes every packet on the wire.
const HeaderSize = 4

var (
	// ErrReceivedFin is returned when the peer closed its write side
	// cleanly (a zero-byte read) at a packet boundary or partway through a
	// packet's payload. FIN partway through a header is ErrInvalidData.
	ErrReceivedFin = errors.New("packetconn/framing: received FIN")
	// ErrInvalidData is returned for a malformed header, or for a
	// declared length exceeding the configured maximum.
	ErrInvalidData = errors.New("packetconn/framing: invalid packet data")
)

// PacketAssembly owns one receive-side DataBuffer and reconstructs whole
// packets from a chunked stream. It is mutated only by the single actor
// that reads from the transport; its lifetime equals the owning
// connection's.
type PacketAssembly struct {
	buf           *buffer.DataBuffer
	header        [HeaderSize]byte
	headerFilled  int
	maxPacketSize int // 0 = unlimited
}

// New returns a PacketAssembly reading in chunks of at most
// receiveBufferSize bytes, with no maximum packet size.
func New(receiveBufferSize int) *PacketAssembly {
	return &PacketAssembly{buf: buffer.New(receiveBufferSize)}
}

// NewWithMax is like New but rejects any declared packet length greater
// than maxPacketSize with ErrInvalidData. A maxPacketSize of 0 means
// unlimited.
func NewWithMax(receiveBufferSize, maxPacketSize int) *PacketAssembly {
	return &PacketAssembly{buf: buffer.New(receiveBufferSize), maxPacketSize: maxPacketSize}
}

// ReceivePacket reads from r, a single fixed-size chunk at a time, until a
// whole packet has been reassembled, and returns its payload as a freshly
// allocated slice. Errors are terminal: further calls after an error are
// undefined, and the caller is expected to shut the connection down.
func (a *PacketAssembly) ReceivePacket(r io.Reader) ([]byte, error) {
	for a.headerFilled < HeaderSize {
		if a.buf.IsEmpty() {
			if err := a.refillChunk(r); err != nil {
				return nil, err
			}
		}
		a.headerFilled += copy(a.header[a.headerFilled:], a.buf.Take(HeaderSize-a.headerFilled))
	}

	length := int(binary.LittleEndian.Uint32(a.header[:]))
	a.headerFilled = 0

	if a.maxPacketSize > 0 && length > a.maxPacketSize {
		return nil, fmt.Errorf("%w: declared length %d exceeds maximum %d", ErrInvalidData, length, a.maxPacketSize)
	}

	packet := NewPacketBuffer(length)
	for {
		switch packet.Fill(a.buf) {
		case Finished:
			return packet.Bytes(), nil
		case RequiresData:
			if err := a.refillChunk(r); err != nil {
				return nil, err
			}
		}
	}
}

func (a *PacketAssembly) refillChunk(r io.Reader) error {
	return a.buf.Refill(func(b []byte) (int, error) {
		n, err := r.Read(b)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 0 {
			if a.headerFilled > 0 {
				return 0, fmt.Errorf("%w while reading packet header", ErrInvalidData)
			}
			return 0, ErrReceivedFin
		}
		return n, nil
	})
}
