package wire_test

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/catshadow/packetconn/wire"
)

// pipeTransport adapts a bytes pipe (io.Reader/io.Writer) into a
// wire.Transport for tests that don't need real socket shutdown semantics.
type pipeTransport struct {
	io.Reader
	io.Writer
	closed bool
}

func (p *pipeTransport) CloseRead() error  { return nil }
func (p *pipeTransport) CloseWrite() error { return nil }
func (p *pipeTransport) Close() error      { p.closed = true; return nil }

func newLoopbackPipes() (*pipeTransport, *pipeTransport) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	a := &pipeTransport{Reader: r1, Writer: w2}
	b := &pipeTransport{Reader: r2, Writer: w1}
	return a, b
}

func TestPacketConnectionRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 4, 1024}
	for _, n := range sizes {
		a, b := newLoopbackPipes()
		sender := wire.New(a, 4096)
		receiver := wire.New(b, 4096)

		payload := bytes.Repeat([]byte{0xAB}, n)

		errCh := make(chan error, 1)
		go func() { errCh <- sender.Send(payload) }()

		got, err := receiver.Receive()
		require.NoError(t, err)
		require.NoError(t, <-errCh)
		require.Equal(t, payload, got)
	}
}

func TestPacketConnectionMultiplePacketsInOneStream(t *testing.T) {
	a, b := newLoopbackPipes()
	sender := wire.New(a, 4096)
	receiver := wire.New(b, 4096)

	packets := [][]byte{
		[]byte("first"),
		{},
		bytes.Repeat([]byte{0x42}, 5000),
		[]byte("last"),
	}

	go func() {
		for _, p := range packets {
			_ = sender.Send(p)
		}
	}()

	for _, want := range packets {
		got, err := receiver.Receive()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestPacketConnectionChunkBoundaryInsensitive(t *testing.T) {
	// A receive buffer smaller than the packet forces many refills, which
	// must be transparent to the caller.
	a, b := newLoopbackPipes()
	sender := wire.New(a, 4096)
	receiver := wire.New(b, 17)

	payload := bytes.Repeat([]byte{0x7A}, 10_000)
	go func() { _ = sender.Send(payload) }()

	got, err := receiver.Receive()
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestPacketConnectionOversizeRejected(t *testing.T) {
	a, b := newLoopbackPipes()
	sender := wire.New(a, 4096)
	receiver := wire.NewWithMaxPacketSize(b, 4096, 16)

	go func() { _ = sender.Send(make([]byte, 17)) }()

	_, err := receiver.Receive()
	require.Error(t, err)
}

func TestPacketConnectionShutdownUnblocksReceive(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var serverConn net.Conn
	go func() {
		defer wg.Done()
		serverConn, _ = ln.Accept()
	}()

	clientConn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	wg.Wait()
	require.NotNil(t, serverConn)

	serverTCP := serverConn.(*net.TCPConn)
	receiver := wire.New(serverTCP, 4096)

	done := make(chan error, 1)
	go func() {
		_, err := receiver.Receive()
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, receiver.Shutdown(wire.Both))

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not unblock after Shutdown")
	}

	clientConn.Close()
}

func TestPacketConnectionTryCloneSharesSendPath(t *testing.T) {
	a, b := newLoopbackPipes()
	sender := wire.New(a, 4096)
	clone := sender.TryClone()
	receiver := wire.New(b, 4096)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = sender.Send([]byte("from-original")) }()
	go func() { defer wg.Done(); _ = clone.Send([]byte("from-clone")) }()
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		got, err := receiver.Receive()
		require.NoError(t, err)
		seen[string(got)] = true
	}
	require.True(t, seen["from-original"])
	require.True(t, seen["from-clone"])
}
