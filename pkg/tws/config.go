package tws

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Host                  string        `mapstructure:"host"`
	Port                  int           `mapstructure:"port"`
	ClientID              int           `mapstructure:"client_id"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	HandshakeTimeout      time.Duration `mapstructure:"handshake_timeout"`
	ReconnectDelay        time.Duration `mapstructure:"reconnect_delay"`
	FaultReconnectDelay   time.Duration `mapstructure:"fault_reconnect_delay"`
	PumpPollInterval      time.Duration `mapstructure:"pump_poll_interval"`
	PumpStopTimeout       time.Duration `mapstructure:"pump_stop_timeout"`
	ClearCacheOnReconnect bool          `mapstructure:"clear_cache_on_reconnect"`
	LogLevel              string        `mapstructure:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Host:                "127.0.0.1",
		Port:                7497,
		ClientID:            0,
		RequestTimeout:      10 * time.Second,
		HandshakeTimeout:    10 * time.Second,
		ReconnectDelay:      time.Second,
		FaultReconnectDelay: 10 * time.Second,
		PumpPollInterval:    100 * time.Millisecond,
		PumpStopTimeout:     time.Second,
		LogLevel:            "info",
	}
}

func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	if c.ClientID < 0 {
		return errors.Errorf("invalid client id %d", c.ClientID)
	}
	durations := map[string]time.Duration{
		"request_timeout":       c.RequestTimeout,
		"handshake_timeout":     c.HandshakeTimeout,
		"reconnect_delay":       c.ReconnectDelay,
		"fault_reconnect_delay": c.FaultReconnectDelay,
		"pump_poll_interval":    c.PumpPollInterval,
		"pump_stop_timeout":     c.PumpStopTimeout,
	}
	for name, value := range durations {
		if value <= 0 {
			return errors.Errorf("%s should be positive, got %s", name, value)
		}
	}
	return nil
}

// LoadConfig reads a config file and TWS_ prefixed environment variables on
// top of DefaultConfig. An empty path reads the environment only.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("client_id", defaults.ClientID)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("handshake_timeout", defaults.HandshakeTimeout)
	v.SetDefault("reconnect_delay", defaults.ReconnectDelay)
	v.SetDefault("fault_reconnect_delay", defaults.FaultReconnectDelay)
	v.SetDefault("pump_poll_interval", defaults.PumpPollInterval)
	v.SetDefault("pump_stop_timeout", defaults.PumpStopTimeout)
	v.SetDefault("clear_cache_on_reconnect", defaults.ClearCacheOnReconnect)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("TWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.WithMessage(err, "fail read config "+path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WithMessage(err, "fail decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.WithMessage(err, "invalid config")
	}
	return cfg, nil
}
