// Command pktconn is a minimal demonstration client/server exercising the
// full stack: TCP transport, length-prefixed framing, an X25519 (or hybrid)
// handshake, AEAD encryption, and the packet receive-event dispatcher.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/catshadow/packetconn/config"
	"github.com/catshadow/packetconn/crypto/kex"
	"github.com/catshadow/packetconn/logging"
	"github.com/catshadow/packetconn/metrics"
	"github.com/catshadow/packetconn/receive"
	"github.com/catshadow/packetconn/secure"
	"github.com/catshadow/packetconn/wire"
)

var log = logging.GetLogger("pktconn")

func main() {
	configPath := flag.String("config", "", "path to a pktconn.toml configuration file")
	listenAddr := flag.String("listen", "", "listen for one incoming connection on this address")
	connectAddr := flag.String("connect", "", "connect to a listening peer at this address")
	versioninfo.AddFlag(nil)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if _, err := logging.Init(os.Stderr, cfg.Logging.Level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.ListenAddr, reg)
	}

	mode := kex.Client
	if cfg.Handshake.Mode == "server" {
		mode = kex.Server
	}

	var transport net.Conn
	var err error
	switch {
	case *listenAddr != "":
		transport, err = acceptOne(*listenAddr)
	case *connectAddr != "":
		transport, err = net.Dial("tcp", *connectAddr)
	default:
		fmt.Fprintln(os.Stderr, "one of -listen or -connect is required")
		os.Exit(1)
	}
	if err != nil {
		log.Errorf("establishing transport: %v", err)
		os.Exit(1)
	}
	defer transport.Close()

	conn := wire.NewWithMaxPacketSize(transport.(*net.TCPConn), cfg.Connection.ReceiveBufferSize, cfg.Connection.MaxPacketSize)

	exchange := keyExchange(cfg.Handshake.KEX)
	cipherFactory := cipherFactory(cfg.Handshake.Cipher)

	encConn, err := secure.WithHandshake(conn, exchange, mode, cipherFactory)
	if err != nil {
		log.Errorf("handshake: %v", err)
		os.Exit(1)
	}
	log.Info("handshake complete")

	rx := receive.New(conn)
	rx.Subscribe(func(packet []byte) {
		m.RecordReceive(len(packet))
		log.Debugf("received %d bytes", len(packet))
	})
	rx.Start()
	defer rx.Stop()

	if err := encConn.Send([]byte("hello from pktconn")); err != nil {
		log.Errorf("send: %v", err)
		os.Exit(1)
	}
	m.RecordSend(len("hello from pktconn"))

	reply, err := encConn.Receive()
	if err != nil {
		log.Errorf("receive: %v", err)
		os.Exit(1)
	}
	log.Infof("received reply: %q", string(reply))
}

func acceptOne(addr string) (net.Conn, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	return ln.Accept()
}

func keyExchange(name string) kex.KeyExchange {
	if name == "hybrid" {
		return kex.Hybrid{}
	}
	return kex.Curve25519{}
}

func cipherFactory(name string) secure.CipherFactory {
	if name == "chacha20poly1305" {
		return secure.ChaCha20Poly1305Cipher
	}
	return secure.AES256GCMCipher
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Errorf("metrics server exited: %v", http.ListenAndServe(addr, mux))
}
