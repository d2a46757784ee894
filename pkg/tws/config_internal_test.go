package tws

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"gotest.tools/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.NilError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Host = ""
	assert.Error(t, cfg.Validate(), "host is empty")

	cfg = DefaultConfig()
	cfg.Port = 65536
	assert.Error(t, cfg.Validate(), "invalid port 65536")

	cfg = DefaultConfig()
	cfg.PumpStopTimeout = -time.Second
	assert.Error(t, cfg.Validate(), "pump_stop_timeout should be positive, got -1s")
}

func TestLoadConfig(t *testing.T) {

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		assert.NilError(t, err)
		assert.DeepEqual(t, cfg, DefaultConfig())
	})

	t.Run("file and env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tws.yaml")
		content := []byte("host: 10.195.46.21\n" +
			"port: 4002\n" +
			"client_id: 7\n" +
			"request_timeout: 3s\n" +
			"clear_cache_on_reconnect: true\n")
		assert.NilError(t, os.WriteFile(path, content, 0600))
		t.Setenv("TWS_CLIENT_ID", "9")
		t.Setenv("TWS_RECONNECT_DELAY", "500ms")

		cfg, err := LoadConfig(path)
		assert.NilError(t, err)
		assert.Equal(t, cfg.Host, "10.195.46.21")
		assert.Equal(t, cfg.Port, 4002)
		assert.Equal(t, cfg.ClientID, 9)
		assert.Equal(t, cfg.RequestTimeout, 3*time.Second)
		assert.Equal(t, cfg.ReconnectDelay, 500*time.Millisecond)
		assert.Equal(t, cfg.HandshakeTimeout, DefaultConfig().HandshakeTimeout)
		assert.Check(t, cfg.ClearCacheOnReconnect)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "fail read config")
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("TWS_PORT", "0")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "invalid port 0")
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn")
	assert.NilError(t, err)
	assert.Check(t, !logger.Core().Enabled(zapcore.InfoLevel))
	assert.Check(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("loud")
	assert.ErrorContains(t, err, "invalid log level")
}
