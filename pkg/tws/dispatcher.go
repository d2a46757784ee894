package tws

import (
	"fmt"

	"go.uber.org/zap"
)

// connectionHandler receives session lifecycle messages.
type connectionHandler interface {
	onConnectAck(msg *ConnectAck)
	onConnectionClosed()
	onSocketError(err error)
}

// errorHandler receives gateway error notifications.
type errorHandler interface {
	handle(id, code int, message string)
}

// replyHandler receives messages that answer an outstanding request.
type replyHandler interface {
	onNextValidID(msg *NextValidID)
	onContractDetails(msg *ContractDetailsMessage)
	onContractDetailsEnd(msg *ContractDetailsEnd)
	onOpenOrderEnd()
	onPositionEnd()
}

// cacheHandler receives state pushed by the gateway.
type cacheHandler interface {
	onOpenOrder(msg *OpenOrder)
	onOrderStatus(msg *OrderStatusEvent)
	onPosition(msg *PositionMessage)
	onPortfolio(msg *PortfolioMessage)
	onTickPrice(msg *TickPrice)
	onTickSize(msg *TickSize)
	onTickString(msg *TickString)
	onTickGeneric(msg *TickGeneric)
	onPnLSingle(msg *PnLSingle)
	onMarketDepth(msg *MarketDepthMessage)
}

// dispatcher fans inbound messages out to the handler of their category.
type dispatcher struct {
	logger     *zap.Logger
	connection connectionHandler
	errors     errorHandler
	replies    replyHandler
	cache      cacheHandler
}

func (d *dispatcher) dispatch(msg interface{}) {
	switch m := msg.(type) {
	case *ConnectAck:
		d.count("connect_ack")
		d.connection.onConnectAck(m)
	case *ConnectionClosed:
		d.count("connection_closed")
		d.connection.onConnectionClosed()
	case *SocketError:
		d.count("socket_error")
		d.connection.onSocketError(m.Err)
	case *ErrorMessage:
		d.count("error")
		d.errors.handle(m.ID, m.Code, m.Message)
	case *NextValidID:
		d.count("next_valid_id")
		d.replies.onNextValidID(m)
	case *ContractDetailsMessage:
		d.count("contract_details")
		d.replies.onContractDetails(m)
	case *ContractDetailsEnd:
		d.count("contract_details_end")
		d.replies.onContractDetailsEnd(m)
	case *OpenOrderEnd:
		d.count("open_order_end")
		d.replies.onOpenOrderEnd()
	case *PositionEnd:
		d.count("position_end")
		d.replies.onPositionEnd()
	case *OpenOrder:
		d.count("open_order")
		d.cache.onOpenOrder(m)
	case *OrderStatusEvent:
		d.count("order_status")
		d.cache.onOrderStatus(m)
	case *PositionMessage:
		d.count("position")
		d.cache.onPosition(m)
	case *PortfolioMessage:
		d.count("portfolio")
		d.cache.onPortfolio(m)
	case *TickPrice:
		d.count("tick_price")
		d.cache.onTickPrice(m)
	case *TickSize:
		d.count("tick_size")
		d.cache.onTickSize(m)
	case *TickString:
		d.count("tick_string")
		d.cache.onTickString(m)
	case *TickGeneric:
		d.count("tick_generic")
		d.cache.onTickGeneric(m)
	case *PnLSingle:
		d.count("pnl_single")
		d.cache.onPnLSingle(m)
	case *MarketDepthMessage:
		d.count("market_depth")
		d.cache.onMarketDepth(m)
	default:
		d.count("unexpected")
		d.logger.Warn("tws: unexpected inbound message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (d *dispatcher) count(message string) {
	inboundMessages.WithLabelValues(message).Inc()
}
