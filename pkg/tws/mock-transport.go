package tws

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const mockServerVersion = 176

// MockResponder answers a request sent over a MockTransport, usually by
// pushing reply messages back into it.
type MockResponder func(t *MockTransport, req Request) error

// MockTransport is an in-memory Transport. Inbound messages are queued with
// Push and read by the pump; sent requests are recorded.
type MockTransport struct {
	logger    *zap.Logger
	mx        sync.Mutex
	queue     []interface{}
	sent      []Request
	responder MockResponder
	signal    chan struct{}
	connected uint32
	closed    uint32
}

func NewMockTransport(logger *zap.Logger) *MockTransport {
	return &MockTransport{
		logger:    logger,
		signal:    make(chan struct{}, 1),
		connected: 1,
	}
}

func (t *MockTransport) Send(req Request) error {
	if !t.IsConnected() {
		return errors.New("mock: socket is closed")
	}
	t.mx.Lock()
	t.sent = append(t.sent, req)
	responder := t.responder
	t.mx.Unlock()

	t.logger.Debug("mock-transport: request", zap.String("request", req.RequestName()), zap.Reflect("payload", req))
	if responder != nil {
		return responder(t, req)
	}
	return nil
}

func (t *MockTransport) Signal() <-chan struct{} {
	return t.signal
}

func (t *MockTransport) Next() (interface{}, bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if len(t.queue) == 0 {
		return nil, false
	}
	msg := t.queue[0]
	t.queue[0] = nil
	t.queue = t.queue[1:]
	return msg, true
}

func (t *MockTransport) IsConnected() bool {
	return atomic.LoadUint32(&t.connected) == 1
}

func (t *MockTransport) Disconnect() error {
	atomic.StoreUint32(&t.connected, 0)
	atomic.StoreUint32(&t.closed, 1)
	return nil
}

// Closed reports whether Disconnect was called.
func (t *MockTransport) Closed() bool {
	return atomic.LoadUint32(&t.closed) == 1
}

// Push queues inbound messages and signals the reader.
func (t *MockTransport) Push(msgs ...interface{}) {
	t.mx.Lock()
	t.queue = append(t.queue, msgs...)
	t.mx.Unlock()
	select {
	case t.signal <- struct{}{}:
	default:
	}
}

// Drop simulates a broken socket.
func (t *MockTransport) Drop(err error) {
	atomic.StoreUint32(&t.connected, 0)
	t.Push(&SocketError{Err: err})
}

// CloseByGateway simulates the gateway closing the session.
func (t *MockTransport) CloseByGateway() {
	atomic.StoreUint32(&t.connected, 0)
	t.Push(&ConnectionClosed{})
}

func (t *MockTransport) SetResponder(responder MockResponder) {
	t.mx.Lock()
	t.responder = responder
	t.mx.Unlock()
}

// Sent returns a copy of every request written so far.
func (t *MockTransport) Sent() []Request {
	t.mx.Lock()
	defer t.mx.Unlock()
	result := make([]Request, len(t.sent))
	copy(result, t.sent)
	return result
}

// MockDialer creates MockTransports. By default every new transport
// acknowledges the connection right away.
type MockDialer struct {
	logger     *zap.Logger
	mx         sync.Mutex
	transports []*MockTransport
	failures   []error
	autoAck    bool
	responder  MockResponder
}

func NewMockDialer(logger *zap.Logger) *MockDialer {
	return &MockDialer{
		logger:  logger,
		autoAck: true,
	}
}

func (d *MockDialer) Dial(ctx context.Context, host string, port int, clientID int) (Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mx.Lock()
	if len(d.failures) > 0 {
		err := d.failures[0]
		d.failures = d.failures[1:]
		d.mx.Unlock()
		d.logger.Info("mock-dialer: dial failed", zap.String("host", host), zap.Int("port", port), zap.Error(err))
		return nil, err
	}
	transport := NewMockTransport(d.logger)
	transport.SetResponder(d.responder)
	d.transports = append(d.transports, transport)
	autoAck := d.autoAck
	d.mx.Unlock()

	d.logger.Info("mock-dialer: dial", zap.String("host", host), zap.Int("port", port), zap.Int("client", clientID))
	if autoAck {
		transport.Push(
			&ConnectAck{ServerVersion: mockServerVersion, ConnectionTime: time.Now().Format("20060102 15:04:05 MST")},
			&NextValidID{OrderID: 1},
		)
	}
	return transport, nil
}

func (d *MockDialer) SetAutoAck(val bool) {
	d.mx.Lock()
	d.autoAck = val
	d.mx.Unlock()
}

// SetResponder sets the responder of transports dialed from now on.
func (d *MockDialer) SetResponder(responder MockResponder) {
	d.mx.Lock()
	d.responder = responder
	d.mx.Unlock()
}

// FailNext makes the next dials fail with errs, one per dial.
func (d *MockDialer) FailNext(errs ...error) {
	d.mx.Lock()
	d.failures = append(d.failures, errs...)
	d.mx.Unlock()
}

func (d *MockDialer) Dials() int {
	d.mx.Lock()
	defer d.mx.Unlock()
	return len(d.transports)
}

// Last returns the most recently dialed transport.
func (d *MockDialer) Last() *MockTransport {
	d.mx.Lock()
	defer d.mx.Unlock()
	if len(d.transports) == 0 {
		return nil
	}
	return d.transports[len(d.transports)-1]
}

// MockGateway answers requests the way a paper trading gateway would. It is
// used by mock:// DSNs with fixtures and by tests.
type MockGateway struct {
	Account string
	mx      sync.Mutex
	nextID  int
	orders  map[int]PlaceOrderRequest
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		Account: "DU1000001",
		nextID:  1,
		orders:  make(map[int]PlaceOrderRequest),
	}
}

func (g *MockGateway) Respond(t *MockTransport, req Request) error {
	g.mx.Lock()
	defer g.mx.Unlock()

	switch r := req.(type) {
	case IDsRequest:
		g.nextID++
		t.Push(&NextValidID{OrderID: g.nextID})
	case PlaceOrderRequest:
		g.orders[r.OrderID] = r
		if r.OrderID >= g.nextID {
			g.nextID = r.OrderID + 1
		}
		t.Push(
			&OpenOrder{OrderID: r.OrderID, Contract: r.Contract, Order: r.Order},
			&OrderStatusEvent{OrderID: r.OrderID, Status: OrderStatusSubmitted, Remaining: r.Order.Quantity},
		)
	case CancelOrderRequest:
		order, ok := g.orders[r.OrderID]
		if !ok {
			t.Push(&ErrorMessage{
				ID:      r.OrderID,
				Code:    CodeCancelOrderNotFound,
				Message: "OrderId " + strconv.Itoa(r.OrderID) + " that needs to be cancelled is not found.",
			})
			return nil
		}
		delete(g.orders, r.OrderID)
		t.Push(
			&OrderStatusEvent{OrderID: r.OrderID, Status: OrderStatusCancelled, Remaining: order.Order.Quantity},
			&ErrorMessage{ID: r.OrderID, Code: CodeOrderCanceled, Message: "Order Canceled - reason:"},
		)
	case OpenOrdersRequest:
		for id, order := range g.orders {
			t.Push(&OpenOrder{OrderID: id, Contract: order.Contract, Order: order.Order})
		}
		t.Push(&OpenOrderEnd{})
	case ContractDetailsRequest:
		contract := r.Contract
		if contract.ID == 0 {
			contract.ID = 265598
		}
		t.Push(
			&ContractDetailsMessage{ReqID: r.ReqID, Details: ContractDetails{
				Contract:   contract,
				MarketName: contract.Symbol,
				LongName:   contract.Symbol,
				MinTick:    0.01,
				TimeZoneID: "US/Eastern",
			}},
			&ContractDetailsEnd{ReqID: r.ReqID},
		)
	case PositionsRequest:
		t.Push(
			&PositionMessage{
				Account:     g.Account,
				Contract:    Contract{ID: 265598, Symbol: "AAPL", SecType: "STK", Exchange: "SMART", Currency: "USD"},
				Quantity:    100,
				AverageCost: 150.25,
			},
			&PositionEnd{},
		)
	case AccountUpdatesRequest:
		if !r.Subscribe {
			return nil
		}
		account := r.Account
		if account == "" {
			account = g.Account
		}
		t.Push(&PortfolioMessage{
			Account:       account,
			Contract:      Contract{ID: 265598, Symbol: "AAPL", SecType: "STK", Exchange: "NASDAQ", Currency: "USD"},
			Position:      100,
			MarketPrice:   150.11,
			MarketValue:   15011,
			AverageCost:   150.25,
			UnrealizedPnL: -14,
			RealizedPnL:   0,
		})
	case MarketDataRequest:
		t.Push(
			&TickPrice{TickerID: r.TickerID, Field: TickBid, Price: 150.10},
			&TickPrice{TickerID: r.TickerID, Field: TickAsk, Price: 150.12},
			&TickSize{TickerID: r.TickerID, Field: TickBidSize, Size: 300},
			&TickString{TickerID: r.TickerID, Field: TickLastTimestamp, Value: strconv.FormatInt(time.Now().Unix(), 10)},
		)
	case MarketDepthRequest:
		t.Push(
			&MarketDepthMessage{TickerID: r.TickerID, Position: 0, Operation: DepthInsert, Side: DepthSideBid, Price: 150.10, Size: 300},
			&MarketDepthMessage{TickerID: r.TickerID, Position: 0, Operation: DepthInsert, Side: DepthSideAsk, Price: 150.12, Size: 200},
		)
	case PnLSingleRequest:
		t.Push(&PnLSingle{ReqID: r.ReqID, Position: 100, Daily: 12.5, Unrealized: 250, Realized: 0, Value: 15010})
	}
	return nil
}
