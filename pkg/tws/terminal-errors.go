package tws

import (
	"strconv"

	"go.uber.org/zap"
)

type errorSeverity uint8

const (
	severityRequest errorSeverity = iota
	severityInfo
	severityWarn
	severityGateway
	severityFatal
	severityCancelNotFound
	severityCancelRejected
)

func (s errorSeverity) String() string {
	switch s {
	case severityRequest:
		return "request"
	case severityInfo:
		return "info"
	case severityWarn:
		return "warn"
	case severityGateway:
		return "gateway"
	case severityFatal:
		return "fatal"
	case severityCancelNotFound:
		return "cancel_not_found"
	case severityCancelRejected:
		return "cancel_rejected"
	}
	return "unknown"
}

// Gateway error codes with a fixed handling.
const (
	CodeOrderCanceled          = 202
	CodeMarketDataFarmOK       = 2104
	CodeHistoricalFarmOK       = 2106
	CodeUpgradeRequired        = 503
	CodeCancelOrderNotFound    = 10147
	CodeOrderCannotBeCancelled = 10148
)

// terminalCodes classifies gateway codes. Classification uses the numeric
// code only, never the message text.
var terminalCodes = map[int]errorSeverity{
	CodeOrderCanceled:    severityInfo,
	2100:                 severityInfo, // account data unsubscribed
	CodeMarketDataFarmOK: severityInfo,
	CodeHistoricalFarmOK: severityInfo,
	2107:                 severityInfo, // historical data farm inactive
	2108:                 severityInfo, // market data farm inactive

	161:   severityWarn, // cancel attempted in a non cancellable state
	201:   severityWarn, // order rejected
	399:   severityWarn, // order message
	2105:  severityWarn, // historical data farm broken
	2109:  severityWarn, // outside regular trading hours
	10185: severityWarn, // pnl cancel failed
	10186: severityWarn, // pnl single cancel failed

	CodeUpgradeRequired:        severityFatal,
	CodeCancelOrderNotFound:    severityCancelNotFound,
	CodeOrderCannotBeCancelled: severityCancelRejected,
}

func classifyTerminalError(id, code int) errorSeverity {
	if severity, ok := terminalCodes[code]; ok {
		return severity
	}
	if id >= 0 {
		return severityRequest
	}
	return severityGateway
}

// connectionEscalator receives errors that affect the whole session.
type connectionEscalator interface {
	onGatewayError(err error)
	onFatalError(fault *ConnectionFault)
}

// terminalErrorHandler routes gateway error notifications either to the
// pending request they belong to or to the connection monitor.
type terminalErrorHandler struct {
	logger    *zap.Logger
	requests  *requestRegistry
	escalator connectionEscalator
}

func newTerminalErrorHandler(logger *zap.Logger, requests *requestRegistry, escalator connectionEscalator) *terminalErrorHandler {
	return &terminalErrorHandler{
		logger:    logger,
		requests:  requests,
		escalator: escalator,
	}
}

func (h *terminalErrorHandler) handle(id, code int, message string) {
	severity := classifyTerminalError(id, code)
	terminalErrors.WithLabelValues(strconv.Itoa(code), severity.String()).Inc()

	fields := []zap.Field{zap.Int("id", id), zap.Int("code", code), zap.String("message", message)}
	switch severity {
	case severityInfo:
		h.logger.Info("tws: terminal notice", fields...)
	case severityWarn:
		h.logger.Warn("tws: terminal warning", fields...)
	case severityCancelNotFound:
		h.requests.fail(TypeKey(RequestOrderCancel, id), &TerminalError{Code: code, Message: message})
	case severityCancelRejected:
		h.logger.Warn("tws: order cannot be cancelled", fields...)
		h.requests.resolve(TypeKey(RequestOrderCancel, id), true)
	case severityFatal:
		h.logger.Error("tws: terminal fault", fields...)
		h.escalator.onFatalError(&ConnectionFault{Code: code, Message: message})
	case severityRequest:
		h.requests.fail(IDKey(id), &TerminalError{Code: code, Message: message})
	default:
		h.logger.Error("tws: terminal error", fields...)
		h.escalator.onGatewayError(&TerminalError{Code: code, Message: message})
	}
}
