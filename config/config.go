// Package config loads packetconn's TOML configuration, the same
// configuration convention katzenpost's binaries use.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration document.
type Config struct {
	Connection Connection
	Handshake  Handshake
	Logging    Logging
	Metrics    Metrics
}

// Connection configures the framing layer.
type Connection struct {
	ReceiveBufferSize int `toml:"receive_buffer_size"`
	MaxPacketSize     int `toml:"max_packet_size"` // 0 = unlimited
}

// Handshake selects the key-exchange and cipher pairing.
type Handshake struct {
	KEX    string `toml:"kex"`    // "curve25519" | "hybrid"
	Cipher string `toml:"cipher"` // "aes256gcm" | "chacha20poly1305"
	Mode   string `toml:"mode"`   // "client" | "server"
}

// Logging configures the logging backend.
type Logging struct {
	Level string `toml:"level"`
}

// Metrics configures the optional Prometheus exporter.
type Metrics struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// Default returns a Config with the documented defaults.
func Default() Config {
	return Config{
		Connection: Connection{
			ReceiveBufferSize: 65536,
			MaxPacketSize:     0,
		},
		Handshake: Handshake{
			KEX:    "curve25519",
			Cipher: "aes256gcm",
			Mode:   "client",
		},
		Logging: Logging{
			Level: "INFO",
		},
		Metrics: Metrics{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9090",
		},
	}
}

// LoadFile parses the TOML document at path over the documented defaults
// and validates it.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("packetconn/config: parsing %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the rest of the stack cannot act on.
func (c Config) Validate() error {
	switch c.Handshake.KEX {
	case "curve25519", "hybrid":
	default:
		return fmt.Errorf("packetconn/config: unknown handshake.kex %q", c.Handshake.KEX)
	}
	switch c.Handshake.Cipher {
	case "aes256gcm", "chacha20poly1305":
	default:
		return fmt.Errorf("packetconn/config: unknown handshake.cipher %q", c.Handshake.Cipher)
	}
	switch c.Handshake.Mode {
	case "client", "server":
	default:
		return fmt.Errorf("packetconn/config: unknown handshake.mode %q", c.Handshake.Mode)
	}
	if c.Connection.ReceiveBufferSize <= 0 {
		return fmt.Errorf("packetconn/config: connection.receive_buffer_size must be positive")
	}
	if c.Connection.MaxPacketSize < 0 {
		return fmt.Errorf("packetconn/config: connection.max_packet_size must not be negative")
	}
	return nil
}
