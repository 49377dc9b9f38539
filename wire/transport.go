package wire

import "io"

// Transport is the minimal surface PacketConnection needs from an
// underlying stream. *net.TCPConn satisfies it without adaptation, since
// it already exports CloseRead/CloseWrite; Close (or CloseRead/CloseWrite)
// may be called concurrently with a Read blocked in another goroutine,
// which is what makes asynchronous shutdown work without the explicit
// "second handle" duplication the original design used.
type Transport interface {
	io.Reader
	io.Writer
	// CloseRead refuses further reads on this transport.
	CloseRead() error
	// CloseWrite refuses further writes on this transport, and flushes
	// any buffered data already queued to send.
	CloseWrite() error
	// Close refuses further reads and writes.
	Close() error
}

func shutdownTransport(t Transport, how How) error {
	switch how {
	case Read:
		return t.CloseRead()
	case Write:
		return t.CloseWrite()
	case Both:
		return t.Close()
	default:
		return t.Close()
	}
}
