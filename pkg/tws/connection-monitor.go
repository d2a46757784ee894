package tws

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// connectionMonitor owns the gateway session. It is the only place where
// the connection state changes: transitions are serialized by mx and the
// current state is readable without locking.
type connectionMonitor struct {
	logger        *zap.Logger
	cfg           Config
	dialer        Dialer
	requests      *requestRegistry
	dispatch      func(msg interface{})
	onReconnected func()

	state  uint32
	starts uint64

	mx           sync.Mutex
	host         string
	port         int
	clientID     int
	session      string
	pump         *messagePump
	reconnecting bool
	retry        *time.Timer
	handshake    *time.Timer
	fault        error

	tmx       sync.RWMutex
	transport Transport
}

func newConnectionMonitor(logger *zap.Logger, cfg Config, dialer Dialer, requests *requestRegistry) *connectionMonitor {
	return &connectionMonitor{
		logger:   logger,
		cfg:      cfg,
		dialer:   dialer,
		requests: requests,
	}
}

func (m *connectionMonitor) State() ConnectionState {
	return ConnectionState(atomic.LoadUint32(&m.state))
}

// Fault returns the fault that stopped the session, if any.
func (m *connectionMonitor) Fault() error {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.fault
}

func (m *connectionMonitor) SessionID() string {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.session
}

// pumpStarts counts message pumps started since creation.
func (m *connectionMonitor) pumpStarts() uint64 {
	return atomic.LoadUint64(&m.starts)
}

// setState publishes state under the gate label of the session. mx must be held.
func (m *connectionMonitor) setState(state ConnectionState) {
	prev := ConnectionState(atomic.SwapUint32(&m.state, uint32(state)))
	connectionState.WithLabelValues(m.gate()).Set(float64(state))
	if prev != state {
		m.logger.Info("tws: connection state",
			zap.Stringer("from", prev),
			zap.Stringer("to", state),
			zap.String("session", m.session))
	}
}

func (m *connectionMonitor) currentTransport() Transport {
	m.tmx.RLock()
	defer m.tmx.RUnlock()
	return m.transport
}

func (m *connectionMonitor) setTransport(transport Transport) {
	m.tmx.Lock()
	m.transport = transport
	m.tmx.Unlock()
}

func (m *connectionMonitor) address() string {
	return net.JoinHostPort(m.host, strconv.Itoa(m.port))
}

// gate identifies the session in metrics: gateway address and client id.
func (m *connectionMonitor) gate() string {
	return m.address() + "/" + strconv.Itoa(m.clientID)
}

// openLocked dials a new transport and starts its pump. mx must be held.
func (m *connectionMonitor) openLocked(ctx context.Context) error {
	m.session = uuid.NewString()
	transport, err := m.dialer.Dial(ctx, m.host, m.port, m.clientID)
	if err != nil {
		return errors.WithMessage(ErrNotConnected, "dial "+m.address()+": "+err.Error())
	}
	m.setTransport(transport)
	m.pump = newMessagePump(
		m.logger.With(zap.String("session", m.session)),
		transport,
		m.dispatch,
		m.cfg.PumpPollInterval,
		m.cfg.PumpStopTimeout,
	)
	m.pump.start()
	atomic.AddUint64(&m.starts, 1)
	m.logger.Info("tws: transport opened",
		zap.String("addr", m.address()),
		zap.Int("client", m.clientID),
		zap.String("session", m.session))
	return nil
}

// detachLocked hands the current pump and transport over for teardown. mx must be held.
func (m *connectionMonitor) detachLocked() (*messagePump, Transport) {
	pump := m.pump
	m.pump = nil
	transport := m.currentTransport()
	m.setTransport(nil)
	return pump, transport
}

// teardown stops the pump before closing its transport. mx must not be held.
func (m *connectionMonitor) teardown(pump *messagePump, transport Transport) error {
	if pump != nil {
		pump.stop()
	}
	if transport == nil {
		return nil
	}
	if err := transport.Disconnect(); err != nil {
		m.logger.Warn("tws: fail close transport", zap.Error(err))
		return errors.WithMessage(err, "fail close transport")
	}
	return nil
}

func stopTimer(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}

// connect opens the first session. The handshake completes asynchronously
// when the gateway acknowledges the connection.
func (m *connectionMonitor) connect(ctx context.Context, host string, port int, clientID int) error {
	m.mx.Lock()
	defer m.mx.Unlock()

	if state := m.State(); state != StateDisconnected {
		return errors.Errorf("cannot connect while %s", state)
	}
	m.host = host
	m.port = port
	m.clientID = clientID
	m.fault = nil
	m.reconnecting = false
	m.setState(StateConnecting)

	if err := m.openLocked(ctx); err != nil {
		m.setState(StateDisconnected)
		return err
	}
	return nil
}

// disconnect stops the session. Calling it on a stopped session is a no-op.
func (m *connectionMonitor) disconnect() error {
	m.mx.Lock()
	state := m.State()
	if state == StateDisconnected {
		m.mx.Unlock()
		m.logger.Info("tws: already disconnected")
		return nil
	}
	if state == StateDisconnecting {
		m.mx.Unlock()
		m.logger.Debug("tws: disconnect in progress")
		return nil
	}
	m.setState(StateDisconnecting)
	m.reconnecting = false
	stopTimer(m.retry)
	stopTimer(m.handshake)
	m.retry, m.handshake = nil, nil
	pump, transport := m.detachLocked()
	m.mx.Unlock()

	err := m.teardown(pump, transport)

	m.mx.Lock()
	m.setState(StateDisconnected)
	addr := m.address()
	m.mx.Unlock()
	m.logger.Info("tws: disconnected", zap.String("addr", addr))
	return err
}

// reconnect schedules one reconnect cycle after delay. Signals arriving
// while a retry is scheduled are coalesced into it. A loss during the
// handshake of a reconnect attempt schedules the next retry at once.
func (m *connectionMonitor) reconnect(delay time.Duration, cause error) {
	m.mx.Lock()
	defer m.mx.Unlock()

	state := m.State()
	if state.stopping() {
		m.logger.Debug("tws: reconnect ignored", zap.Stringer("state", state), zap.Error(cause))
		return
	}
	if state == StateConnectionLost {
		m.logger.Debug("tws: reconnect already scheduled", zap.Error(cause))
		return
	}
	if m.reconnecting && state == StateConnecting {
		stopTimer(m.handshake)
		m.handshake = nil
		m.setState(StateConnectionLost)
		m.logger.Warn("tws: reconnect attempt lost",
			zap.Error(cause),
			zap.Duration("delay", delay),
			zap.String("session", m.session))
		m.scheduleLocked(delay)
		return
	}
	m.reconnecting = true
	m.setState(StateConnectionLost)
	reconnects.Inc()
	m.logger.Warn("tws: connection lost, reconnecting",
		zap.Error(cause),
		zap.Duration("delay", delay),
		zap.String("session", m.session))
	m.scheduleLocked(delay)
}

func (m *connectionMonitor) scheduleLocked(delay time.Duration) {
	stopTimer(m.retry)
	m.retry = time.AfterFunc(delay, m.attempt)
}

// attempt runs one reconnect: the old pump and transport are released first,
// then a new transport is dialed and its pump started.
func (m *connectionMonitor) attempt() {
	m.mx.Lock()
	if !m.reconnecting || m.State() != StateConnectionLost {
		m.mx.Unlock()
		return
	}
	m.setState(StateConnecting)
	pump, transport := m.detachLocked()
	m.mx.Unlock()

	_ = m.teardown(pump, transport)

	m.mx.Lock()
	defer m.mx.Unlock()
	if !m.reconnecting || m.State() != StateConnecting {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.HandshakeTimeout)
	err := m.openLocked(ctx)
	cancel()
	if err != nil {
		m.logger.Warn("tws: reconnect attempt failed", zap.Error(err), zap.Duration("retry", m.cfg.ReconnectDelay))
		m.setState(StateConnectionLost)
		m.scheduleLocked(m.cfg.ReconnectDelay)
		return
	}

	session := m.session
	stopTimer(m.handshake)
	m.handshake = time.AfterFunc(m.cfg.HandshakeTimeout, func() {
		m.handshakeExpired(session)
	})
}

func (m *connectionMonitor) handshakeExpired(session string) {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.session != session || m.State() != StateConnecting {
		return
	}
	m.logger.Warn("tws: handshake timeout",
		zap.Duration("timeout", m.cfg.HandshakeTimeout),
		zap.String("session", session))
	m.setState(StateConnectionLost)
	m.scheduleLocked(m.cfg.ReconnectDelay)
}

func (m *connectionMonitor) onConnectAck(msg *ConnectAck) {
	m.mx.Lock()
	if state := m.State(); state != StateConnecting {
		m.mx.Unlock()
		m.logger.Warn("tws: unexpected connect ack", zap.Stringer("state", state))
		return
	}
	m.setState(StateConnected)
	stopTimer(m.handshake)
	m.handshake = nil
	reconnected := m.reconnecting
	m.reconnecting = false
	session := m.session
	m.mx.Unlock()

	m.logger.Info("tws: connected",
		zap.Int("server_version", msg.ServerVersion),
		zap.String("connection_time", msg.ConnectionTime),
		zap.Bool("reconnect", reconnected),
		zap.String("session", session))

	key := TypeKey(RequestConnect, NoID)
	if m.requests.pending(key) {
		m.requests.resolve(key, msg)
	}
	if reconnected && m.onReconnected != nil {
		m.onReconnected()
	}
}

func (m *connectionMonitor) onConnectionClosed() {
	if state := m.State(); state.stopping() {
		m.logger.Debug("tws: connection closed during shutdown")
		return
	}
	m.reconnect(m.cfg.ReconnectDelay, errors.WithMessage(ErrConnectionLost, "closed by gateway"))
}

func (m *connectionMonitor) onSocketError(err error) {
	if state := m.State(); state.stopping() {
		m.logger.Debug("tws: socket error during shutdown", zap.Error(err))
		return
	}
	m.reconnect(m.cfg.ReconnectDelay, errors.WithMessage(ErrConnectionLost, err.Error()))
}

func (m *connectionMonitor) onGatewayError(err error) {
	m.reconnect(m.cfg.FaultReconnectDelay, err)
}

// onFatalError is called from the pump, so the shutdown that waits for the
// pump runs on its own goroutine.
func (m *connectionMonitor) onFatalError(fault *ConnectionFault) {
	m.mx.Lock()
	m.fault = fault
	m.mx.Unlock()

	if key := TypeKey(RequestConnect, NoID); m.requests.pending(key) {
		m.requests.fail(key, fault)
	}
	go func() {
		_ = m.disconnect()
	}()
}

// send writes req to the current transport. Transport failures are reported
// as ErrNotConnected.
func (m *connectionMonitor) send(req Request) error {
	if state := m.State(); state != StateConnected {
		return errors.WithMessage(ErrNotConnected, req.RequestName()+" while "+state.String())
	}
	transport := m.currentTransport()
	if transport == nil || !transport.IsConnected() {
		return errors.WithMessage(ErrNotConnected, req.RequestName()+": socket is closed")
	}
	if err := transport.Send(req); err != nil {
		m.logger.Warn("tws: fail send request", zap.String("request", req.RequestName()), zap.Error(err))
		return errors.WithMessage(ErrNotConnected, "send "+req.RequestName()+": "+err.Error())
	}
	sentRequests.WithLabelValues(req.RequestName()).Inc()
	return nil
}
