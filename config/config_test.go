package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catshadow/packetconn/config"
)

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pktconn.toml")
	doc := `
[connection]
receive_buffer_size = 4096
max_packet_size = 1048576

[handshake]
kex = "hybrid"
cipher = "chacha20poly1305"
mode = "server"

[logging]
level = "DEBUG"

[metrics]
enabled = true
listen_addr = "0.0.0.0:9999"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.Connection.ReceiveBufferSize)
	require.Equal(t, 1048576, cfg.Connection.MaxPacketSize)
	require.Equal(t, "hybrid", cfg.Handshake.KEX)
	require.Equal(t, "chacha20poly1305", cfg.Handshake.Cipher)
	require.Equal(t, "server", cfg.Handshake.Mode)
	require.Equal(t, "DEBUG", cfg.Logging.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "0.0.0.0:9999", cfg.Metrics.ListenAddr)
}

func TestLoadFileRejectsUnknownKEX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pktconn.toml")
	require.NoError(t, os.WriteFile(path, []byte("[handshake]\nkex = \"rot13\"\n"), 0o644))

	_, err := config.LoadFile(path)
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}
