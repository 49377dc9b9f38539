package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// chunkedReader delivers a sequence of preset byte slices, one per Read
// call, to exercise arbitrary chunk-boundary interleavings.
type chunkedReader struct {
	chunks [][]byte
	i      int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.i >= len(c.chunks) {
		return 0, nil
	}
	n := copy(p, c.chunks[c.i])
	c.i++
	return n, nil
}

func encodePacket(payload []byte) []byte {
	var out bytes.Buffer
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	out.Write(header[:])
	out.Write(payload)
	return out.Bytes()
}

func TestReceivePacketSingleChunk(t *testing.T) {
	payload := []byte("hello")
	r := bytes.NewReader(encodePacket(payload))
	a := New(64)
	got, err := a.ReceivePacket(r)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReceivePacketEmptyPayload(t *testing.T) {
	r := bytes.NewReader(encodePacket(nil))
	a := New(64)
	got, err := a.ReceivePacket(r)
	require.NoError(t, err)
	require.Len(t, got, 0)
}

func TestReceivePacketSplitHeaderAcrossChunks(t *testing.T) {
	wire := encodePacket([]byte("abcdef"))
	r := &chunkedReader{chunks: [][]byte{wire[:1], wire[1:3], wire[3:]}}
	a := New(64)
	got, err := a.ReceivePacket(r)
	require.NoError(t, err)
	require.Equal(t, []byte("abcdef"), got)
}

func TestReceivePacketSplitPayloadAcrossManyChunks(t *testing.T) {
	wire := encodePacket(bytes.Repeat([]byte{7}, 1000))
	var chunks [][]byte
	for i := 0; i < len(wire); i += 3 {
		end := i + 3
		if end > len(wire) {
			end = len(wire)
		}
		chunks = append(chunks, wire[i:end])
	}
	r := &chunkedReader{chunks: chunks}
	a := New(64)
	got, err := a.ReceivePacket(r)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{7}, 1000), got)
}

func TestReceivePacketMultiplePacketsInOneChunk(t *testing.T) {
	wire := append(encodePacket([]byte("p1")), encodePacket([]byte("p2"))...)
	r := bytes.NewReader(wire)
	a := New(64)

	got1, err := a.ReceivePacket(r)
	require.NoError(t, err)
	require.Equal(t, []byte("p1"), got1)

	got2, err := a.ReceivePacket(r)
	require.NoError(t, err)
	require.Equal(t, []byte("p2"), got2)
}

func TestReceivePacketFinOnCleanBoundary(t *testing.T) {
	a := New(64)
	_, err := a.ReceivePacket(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrReceivedFin)
}

func TestReceivePacketFinMidHeaderIsInvalidData(t *testing.T) {
	wire := encodePacket([]byte("abcdef"))
	r := &chunkedReader{chunks: [][]byte{wire[:2]}}
	a := New(64)
	_, err := a.ReceivePacket(r)
	require.ErrorIs(t, err, ErrInvalidData)
	require.NotErrorIs(t, err, ErrReceivedFin)
}

func TestReceivePacketFinMidPayloadIsFinOrIOError(t *testing.T) {
	wire := encodePacket([]byte("abcdef"))
	r := &chunkedReader{chunks: [][]byte{wire[:6]}} // header + 2 payload bytes, then FIN
	a := New(64)
	_, err := a.ReceivePacket(r)
	require.True(t, errors.Is(err, ErrReceivedFin), "expected ReceivedFin, got %v", err)
	require.False(t, errors.Is(err, ErrInvalidData))
}

func TestReceivePacketRejectsOversizePacket(t *testing.T) {
	wire := encodePacket(make([]byte, 100))
	r := bytes.NewReader(wire)
	a := NewWithMax(64, 10)
	_, err := a.ReceivePacket(r)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestReceivePacketIOErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	a := New(64)
	_, err := a.ReceivePacket(errReader{wantErr})
	require.ErrorIs(t, err, wantErr)
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

var _ io.Reader = errReader{}
