package tws

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// messagePump drains decoded messages of one transport on a dedicated
// goroutine and hands each of them to dispatch. A pump is started once and
// stopped once; reconnects create a new pump.
type messagePump struct {
	logger       *zap.Logger
	transport    Transport
	dispatch     func(msg interface{})
	pollInterval time.Duration
	stopTimeout  time.Duration
	stopCh       chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	startOnce    sync.Once
}

func newMessagePump(logger *zap.Logger, transport Transport, dispatch func(msg interface{}), pollInterval, stopTimeout time.Duration) *messagePump {
	return &messagePump{
		logger:       logger,
		transport:    transport,
		dispatch:     dispatch,
		pollInterval: pollInterval,
		stopTimeout:  stopTimeout,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (p *messagePump) start() {
	p.startOnce.Do(func() {
		pumpStarts.Inc()
		go p.run()
	})
}

func (p *messagePump) run() {
	defer close(p.done)
	idle := time.NewTicker(p.pollInterval)
	defer idle.Stop()

	for {
		if p.transport.IsConnected() {
			select {
			case <-p.stopCh:
				return
			case <-p.transport.Signal():
				p.drain()
			case <-idle.C:
			}
			continue
		}

		// messages decoded before the socket went down are still delivered
		p.drain()
		select {
		case <-p.stopCh:
			return
		case <-idle.C:
		}
	}
}

func (p *messagePump) drain() {
	for {
		select {
		case <-p.stopCh:
			return
		default:
		}
		msg, ok := p.transport.Next()
		if !ok {
			return
		}
		p.process(msg)
	}
}

func (p *messagePump) process(msg interface{}) {
	defer func() {
		if r := recover(); r != nil {
			handlerPanics.Inc()
			p.logger.Error("tws pump: message handler failed",
				zap.String("message", fmt.Sprintf("%T", msg)),
				zap.Any("panic", r))
		}
	}()
	p.dispatch(msg)
}

// stop signals the pump goroutine and waits for it at most stopTimeout.
// It returns false when the goroutine did not exit in time.
func (p *messagePump) stop() bool {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	// a pump that was never started has nothing to wait for
	p.startOnce.Do(func() {
		close(p.done)
	})

	timer := time.NewTimer(p.stopTimeout)
	defer timer.Stop()
	select {
	case <-p.done:
		return true
	case <-timer.C:
		p.logger.Warn("tws pump: did not stop in time", zap.Duration("timeout", p.stopTimeout))
		return false
	}
}

// stopped is closed when the pump goroutine has exited.
func (p *messagePump) stopped() <-chan struct{} {
	return p.done
}
