package tws

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type configMock struct {
	Ready    bool
	Fixtures bool
}

// ParseDSN reads a tws://host:port?client_id=1&request_timeout=5s DSN on top
// of DefaultConfig. mock:// DSNs are accepted with the same parameters.
func ParseDSN(dsn string) (Config, error) {
	cfg := DefaultConfig()
	u, err := url.Parse(strings.TrimSpace(dsn))
	if err != nil {
		return cfg, err
	}
	if u.Scheme != "tws" && u.Scheme != "mock" {
		return cfg, errors.New("unsupported scheme " + u.Scheme)
	}
	if u.Hostname() == "" {
		return cfg, errors.New("host is empty")
	}
	cfg.Host = u.Hostname()

	if u.Port() != "" {
		cfg.Port, err = strconv.Atoi(u.Port())
		if err != nil {
			return cfg, errors.WithMessage(err, "invalid port value")
		}
	}

	query := u.Query()
	if value := query.Get("client_id"); value != "" {
		cfg.ClientID, err = strconv.Atoi(value)
		if err != nil {
			return cfg, errors.WithMessage(err, "invalid client_id value")
		}
	}

	durations := map[string]*time.Duration{
		"request_timeout":       &cfg.RequestTimeout,
		"handshake_timeout":     &cfg.HandshakeTimeout,
		"reconnect_delay":       &cfg.ReconnectDelay,
		"fault_reconnect_delay": &cfg.FaultReconnectDelay,
		"pump_poll_interval":    &cfg.PumpPollInterval,
		"pump_stop_timeout":     &cfg.PumpStopTimeout,
	}
	for name, target := range durations {
		value := query.Get(name)
		if value == "" {
			continue
		}
		*target, err = time.ParseDuration(value)
		if err != nil {
			return cfg, errors.WithMessage(err, "invalid "+name+" value")
		}
	}

	if value := query.Get("clear_cache_on_reconnect"); value != "" {
		cfg.ClearCacheOnReconnect, err = strconv.ParseBool(value)
		if err != nil {
			return cfg, errors.WithMessage(err, "invalid clear_cache_on_reconnect value")
		}
	}
	if value := query.Get("log_level"); value != "" {
		cfg.LogLevel = value
	}

	return cfg, cfg.Validate()
}

func parseDsnMock(dsn string) (*configMock, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	return &configMock{
		Ready:    u.Query().Get("ready") != "false",
		Fixtures: u.Query().Get("fixtures") == "true",
	}, nil
}

// Open creates a client for dsn and connects it. mock:// DSNs use an in
// memory gateway and ignore dialer. A nil logger is built from log_level.
func Open(ctx context.Context, logger *zap.Logger, dsn string, dialer Dialer) (*Client, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, errors.WithMessage(err, "fail parse dsn")
	}
	if logger == nil {
		logger, err = NewLogger(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
	}

	if strings.HasPrefix(dsn, "mock://") {
		mockCfg, err := parseDsnMock(dsn)
		if err != nil {
			return nil, errors.WithMessage(err, "fail parse mock dsn")
		}
		mock := NewMockDialer(logger)
		mock.SetAutoAck(mockCfg.Ready)
		if mockCfg.Fixtures {
			mock.SetResponder(NewMockGateway().Respond)
		}
		dialer = mock
	}

	client, err := NewClient(logger, cfg, dialer)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx, cfg.Host, cfg.Port, cfg.ClientID); err != nil {
		return nil, errors.WithMessage(err, "fail connect")
	}
	return client, nil
}
