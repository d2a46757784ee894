package tws

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gotest.tools/assert"
)

type escalatorStub struct {
	mx      sync.Mutex
	gateway []error
	fatal   []*ConnectionFault
}

func (e *escalatorStub) onGatewayError(err error) {
	e.mx.Lock()
	e.gateway = append(e.gateway, err)
	e.mx.Unlock()
}

func (e *escalatorStub) onFatalError(fault *ConnectionFault) {
	e.mx.Lock()
	e.fatal = append(e.fatal, fault)
	e.mx.Unlock()
}

func TestClassifyTerminalError(t *testing.T) {
	for _, tc := range []struct {
		id       int
		code     int
		severity errorSeverity
	}{
		{id: -1, code: CodeMarketDataFarmOK, severity: severityInfo},
		{id: -1, code: CodeHistoricalFarmOK, severity: severityInfo},
		{id: 12, code: CodeOrderCanceled, severity: severityInfo},
		{id: 12, code: 2109, severity: severityWarn},
		{id: 12, code: 200, severity: severityRequest},
		{id: 0, code: 354, severity: severityRequest},
		{id: -1, code: 1100, severity: severityGateway},
		{id: -1, code: 504, severity: severityGateway},
		{id: -1, code: CodeUpgradeRequired, severity: severityFatal},
		{id: 7, code: CodeCancelOrderNotFound, severity: severityCancelNotFound},
		{id: 7, code: CodeOrderCannotBeCancelled, severity: severityCancelRejected},
	} {
		assert.Equal(t, classifyTerminalError(tc.id, tc.code), tc.severity, "id %d code %d", tc.id, tc.code)
	}
}

func TestTerminalErrorHandler(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("info only logged", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		escalator := &escalatorStub{}
		handler := newTerminalErrorHandler(logger, registry, escalator)

		call, err := registry.register(IDKey(12), "place_order")
		assert.NilError(t, err)
		handler.handle(12, CodeOrderCanceled, "Order Canceled - reason:")
		handler.handle(-1, CodeMarketDataFarmOK, "Market data farm connection is OK:usfarm")

		assert.Check(t, !call.Settled())
		assert.Equal(t, len(escalator.gateway), 0)
		assert.Equal(t, len(escalator.fatal), 0)
	})

	t.Run("request error", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		escalator := &escalatorStub{}
		handler := newTerminalErrorHandler(logger, registry, escalator)

		call, err := registry.register(IDKey(4), "contract_details")
		assert.NilError(t, err)
		handler.handle(4, 200, "No security definition has been found for the request")

		_, err = call.WaitTimeout(time.Second)
		assert.Check(t, IsTerminalError(err, 200))
		assert.Equal(t, registry.size(), 0)
		assert.Equal(t, len(escalator.gateway), 0)
	})

	t.Run("request error without waiter", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		escalator := &escalatorStub{}
		handler := newTerminalErrorHandler(logger, registry, escalator)

		handler.handle(99, 200, "No security definition has been found for the request")
		assert.Equal(t, len(escalator.gateway), 0)
	})

	t.Run("gateway error escalates", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		escalator := &escalatorStub{}
		handler := newTerminalErrorHandler(logger, registry, escalator)

		handler.handle(-1, 1100, "Connectivity between IB and Trader Workstation has been lost.")
		assert.Equal(t, len(escalator.gateway), 1)
		assert.Check(t, IsTerminalError(escalator.gateway[0], 1100))
		assert.Equal(t, len(escalator.fatal), 0)
	})

	t.Run("fatal", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		escalator := &escalatorStub{}
		handler := newTerminalErrorHandler(logger, registry, escalator)

		handler.handle(-1, CodeUpgradeRequired, "The TWS is out of date and must be upgraded.")
		assert.Equal(t, len(escalator.fatal), 1)
		assert.Equal(t, escalator.fatal[0].Code, CodeUpgradeRequired)
		assert.Equal(t, len(escalator.gateway), 0)
	})

	t.Run("cancel not found", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		handler := newTerminalErrorHandler(logger, registry, &escalatorStub{})

		call, err := registry.register(TypeKey(RequestOrderCancel, 7), "cancel_order")
		assert.NilError(t, err)
		handler.handle(7, CodeCancelOrderNotFound, "OrderId 7 that needs to be cancelled is not found.")

		_, err = call.WaitTimeout(time.Second)
		assert.Check(t, IsTerminalError(err, CodeCancelOrderNotFound))
	})

	t.Run("cancel for another order is ignored", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		handler := newTerminalErrorHandler(logger, registry, &escalatorStub{})

		call, err := registry.register(TypeKey(RequestOrderCancel, 7), "cancel_order")
		assert.NilError(t, err)
		handler.handle(8, CodeCancelOrderNotFound, "OrderId 8 that needs to be cancelled is not found.")
		assert.Check(t, !call.Settled())
	})

	t.Run("cancel rejected resolves", func(t *testing.T) {
		registry := newRequestRegistry(logger)
		handler := newTerminalErrorHandler(logger, registry, &escalatorStub{})

		call, err := registry.register(TypeKey(RequestOrderCancel, 9), "cancel_order")
		assert.NilError(t, err)
		handler.handle(9, CodeOrderCannotBeCancelled, "Order 9 cannot be cancelled")

		value, err := call.WaitTimeout(time.Second)
		assert.NilError(t, err)
		assert.Equal(t, value, true)
	})
}

func TestTerminalErrorMatching(t *testing.T) {
	err := errors.WithMessage(&TerminalError{Code: 201, Message: "Order rejected"}, "place order")
	assert.Check(t, IsTerminalError(err, 201))
	assert.Check(t, !IsTerminalError(err, 202))
	assert.Check(t, !IsTerminalError(errors.New("plain"), 201))
	assert.ErrorContains(t, err, "Order rejected")
}
