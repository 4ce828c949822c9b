package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":5000", cfg.Server.Addr)
	require.Equal(t, "file", cfg.Audit.Driver)
	require.Equal(t, "bot.log", cfg.Audit.Path)
	require.Equal(t, 10*time.Second, cfg.Trading.OrderTimeout())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":8080"
exchange:
  api_key: key
  secret_key: secret
  testnet: true
audit:
  driver: postgres
  conn_str: postgres://localhost/futuresbot?sslmode=disable
trading:
  order_timeout_sec: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "key", cfg.Exchange.APIKey)
	require.True(t, cfg.Exchange.Testnet)
	require.Equal(t, "postgres", cfg.Audit.Driver)
	require.Equal(t, 5*time.Second, cfg.Trading.OrderTimeout())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
