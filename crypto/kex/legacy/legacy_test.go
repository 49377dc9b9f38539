package legacy_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catshadow/packetconn/crypto/kex"
	"github.com/catshadow/packetconn/crypto/kex/legacy"
	"github.com/catshadow/packetconn/wire"
)

type chanConn struct {
	out chan<- []byte
	in  <-chan []byte
}

func (c *chanConn) Send(data []byte) error {
	cp := append([]byte(nil), data...)
	c.out <- cp
	return nil
}

func (c *chanConn) Receive() ([]byte, error) { return <-c.in, nil }
func (c *chanConn) Shutdown(_ wire.How) error { return nil }

var _ wire.Connection = (*chanConn)(nil)

func newConnPair() (*chanConn, *chanConn) {
	ab := make(chan []byte, 1)
	ba := make(chan []byte, 1)
	return &chanConn{out: ab, in: ba}, &chanConn{out: ba, in: ab}
}

func TestLegacyHandshakeAgreesAndConfirms(t *testing.T) {
	active, passive := newConnPair()

	var activeSecret, passiveSecret []byte
	var activeErr, passiveErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		activeSecret, activeErr = legacy.Curve25519AES256{}.Handshake(active, kex.Client)
	}()
	go func() {
		defer wg.Done()
		passiveSecret, passiveErr = legacy.Curve25519AES256{}.Handshake(passive, kex.Server)
	}()
	wg.Wait()

	require.NoError(t, activeErr)
	require.NoError(t, passiveErr)
	require.Equal(t, activeSecret, passiveSecret)
}
