package framing

import "github.com/catshadow/packetconn/buffer"

// State is the result of a Fill call.
type State int

const (
	// RequiresData means the buffer is not yet full; the caller must
	// refill the source DataBuffer and call Fill again.
	RequiresData State = iota
	// Finished means the buffer reached its target size.
	Finished
)

// PacketBuffer is the exclusively-owned destination for one in-flight
// packet: a byte sequence of known target size N plus a write cursor w.
type PacketBuffer struct {
	buf []byte
	w   int
}

// NewPacketBuffer returns a zero-filled PacketBuffer of size n.
func NewPacketBuffer(n int) *PacketBuffer {
	return &PacketBuffer{buf: make([]byte, n)}
}

func (p *PacketBuffer) remainingSpace() int {
	return len(p.buf) - p.w
}

// Fill copies as much of src as fits into the buffer, advancing both the
// buffer's write cursor and src's read cursor. It returns Finished once
// the buffer's target size is reached, RequiresData otherwise.
func (p *PacketBuffer) Fill(src *buffer.DataBuffer) State {
	space := p.remainingSpace()
	if space == 0 {
		return Finished
	}

	if src.Remaining() > space {
		copy(p.buf[p.w:], src.Take(space))
		p.w += space
		return Finished
	}

	chunk := src.TakeToEnd()
	copy(p.buf[p.w:], chunk)
	p.w += len(chunk)

	if p.remainingSpace() > 0 {
		return RequiresData
	}
	return Finished
}

// Bytes returns the accumulated packet payload. It consumes the
// PacketBuffer; callers should not reuse it afterwards.
func (p *PacketBuffer) Bytes() []byte {
	return p.buf
}
