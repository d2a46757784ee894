package tws

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Names of id keyed requests. Inbound messages settle an id keyed slot only
// when it was registered under the matching name.
const (
	requestNamePlaceOrder      = "place_order"
	requestNameContractDetails = "contract_details"
	requestNamePnLSingle       = "pnl_single"
)

// Client is a gateway client with one live connection. Requests may be sent
// from any goroutine; replies are delivered by the message pump.
type Client struct {
	logger   *zap.Logger
	cfg      Config
	requests *requestRegistry
	cache    *CacheRepository
	monitor  *connectionMonitor

	idMx   sync.Mutex
	lastID int
}

var _ Terminal = (*Client)(nil)

// NewClient creates a disconnected client. dialer opens the transport on
// every connection attempt.
func NewClient(logger *zap.Logger, cfg Config, dialer Dialer) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	if dialer == nil {
		return nil, errors.New("dialer is required")
	}

	client := &Client{
		logger:   logger,
		cfg:      cfg,
		requests: newRequestRegistry(logger),
		cache:    NewCacheRepository(logger),
	}
	client.monitor = newConnectionMonitor(logger, cfg, dialer, client.requests)
	router := &dispatcher{
		logger:     logger,
		connection: client.monitor,
		errors:     newTerminalErrorHandler(logger, client.requests, client.monitor),
		replies:    client,
		cache:      client,
	}
	client.monitor.dispatch = router.dispatch
	if cfg.ClearCacheOnReconnect {
		client.monitor.onReconnected = client.cache.Clear
	}
	return client, nil
}

// Connect opens the session and waits for the gateway handshake.
func (c *Client) Connect(ctx context.Context, host string, port int, clientID int) error {
	key := TypeKey(RequestConnect, NoID)
	call, err := c.requests.register(key, "connect")
	if err != nil {
		return err
	}
	if err := c.monitor.connect(ctx, host, port, clientID); err != nil {
		c.requests.fail(key, err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()
	if _, err := call.Wait(ctx); err != nil {
		if c.requests.pending(key) {
			c.requests.fail(key, err)
		}
		if derr := c.monitor.disconnect(); derr != nil {
			c.logger.Warn("tws: fail disconnect after handshake failure", zap.Error(derr))
		}
		return errors.WithMessage(err, "handshake")
	}
	return nil
}

// Disconnect stops the session. It is safe to call more than once.
func (c *Client) Disconnect() error {
	return c.monitor.disconnect()
}

func (c *Client) Close() error {
	return c.Disconnect()
}

func (c *Client) State() ConnectionState {
	return c.monitor.State()
}

func (c *Client) IsConnected() bool {
	return c.monitor.State() == StateConnected
}

// Fault returns the gateway fault that closed the session, if any.
func (c *Client) Fault() error {
	return c.monitor.Fault()
}

func (c *Client) SessionID() string {
	return c.monitor.SessionID()
}

func (c *Client) Cache() *CacheRepository {
	return c.cache
}

func (c *Client) ensureConnected() error {
	if state := c.monitor.State(); state != StateConnected {
		return errors.WithMessage(ErrNotConnected, "state "+state.String())
	}
	return nil
}

func (c *Client) send(req Request) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	return c.monitor.send(req)
}

// sendRequest registers key and then sends req, so a reply can never arrive
// before its pending slot exists.
func (c *Client) sendRequest(key RequestKey, name string, req Request) (*PendingRequest, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}
	call, err := c.requests.register(key, name)
	if err != nil {
		return nil, err
	}
	if err := c.monitor.send(req); err != nil {
		c.requests.fail(key, err)
		return nil, err
	}
	return call, nil
}

// await waits for call within RequestTimeout. A type keyed slot is released
// when the caller gives up; an id keyed one stays until a late reply.
func (c *Client) await(ctx context.Context, call *PendingRequest) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	value, err := call.Wait(ctx)
	if err != nil && call.Key().Type != RequestByID {
		c.requests.fail(call.Key(), err)
	}
	return value, err
}

func unexpectedReply(call *PendingRequest, value interface{}) error {
	return errors.Wrapf(ErrUnexpectedReply, "%s got %T", call.Key(), value)
}

// replyItems returns the parts of a completed multi-part reply.
func replyItems(call *PendingRequest, value interface{}) ([]interface{}, error) {
	items, ok := value.([]interface{})
	if !ok {
		return nil, unexpectedReply(call, value)
	}
	return items, nil
}

// NextID returns an id that was not handed out by this client before.
func (c *Client) NextID(ctx context.Context) (int, error) {
	c.idMx.Lock()
	defer c.idMx.Unlock()

	call, err := c.sendRequest(TypeKey(RequestNextID, NoID), "next_id", IDsRequest{NumIDs: 1})
	if err != nil {
		return 0, err
	}
	value, err := c.await(ctx, call)
	if err != nil {
		return 0, errors.WithMessage(err, "next id")
	}
	id, ok := value.(int)
	if !ok {
		return 0, errors.WithMessage(unexpectedReply(call, value), "next id")
	}
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id, nil
}

// PlaceOrder sends a new order and waits until the gateway reports it open.
func (c *Client) PlaceOrder(ctx context.Context, contract Contract, order OrderRequest) (*Order, error) {
	if err := order.Validate(); err != nil {
		return nil, errors.WithMessage(err, "place order")
	}
	id, err := c.NextID(ctx)
	if err != nil {
		return nil, err
	}
	call, err := c.sendRequest(IDKey(id), requestNamePlaceOrder, PlaceOrderRequest{OrderID: id, Contract: contract, Order: order})
	if err != nil {
		return nil, err
	}
	value, err := c.await(ctx, call)
	if err != nil {
		return nil, errors.WithMessage(err, "place order "+strconv.Itoa(id))
	}
	placed, ok := value.(*Order)
	if !ok {
		return nil, errors.WithMessage(unexpectedReply(call, value), "place order "+strconv.Itoa(id))
	}
	return placed, nil
}

// CancelOrder cancels an order. Only one cancel can be in flight at a time.
// An order the gateway cannot cancel any more counts as done.
func (c *Client) CancelOrder(ctx context.Context, orderID int) error {
	call, err := c.sendRequest(TypeKey(RequestOrderCancel, orderID), "cancel_order", CancelOrderRequest{OrderID: orderID})
	if err != nil {
		return err
	}
	_, err = c.await(ctx, call)
	return errors.WithMessage(err, "cancel order "+strconv.Itoa(orderID))
}

// OpenOrders requests all open orders and returns them once the list is complete.
func (c *Client) OpenOrders(ctx context.Context) ([]*Order, error) {
	call, err := c.sendRequest(TypeKey(RequestOpenOrders, NoID), "open_orders", OpenOrdersRequest{})
	if err != nil {
		return nil, err
	}
	value, err := c.await(ctx, call)
	if err != nil {
		return nil, errors.WithMessage(err, "open orders")
	}
	items, err := replyItems(call, value)
	if err != nil {
		return nil, errors.WithMessage(err, "open orders")
	}
	result := make([]*Order, 0, len(items))
	for _, item := range items {
		order, ok := item.(*Order)
		if !ok {
			return nil, errors.WithMessage(unexpectedReply(call, item), "open orders")
		}
		result = append(result, order)
	}
	return result, nil
}

func (c *Client) ContractDetails(ctx context.Context, contract Contract) ([]ContractDetails, error) {
	id, err := c.NextID(ctx)
	if err != nil {
		return nil, err
	}
	call, err := c.sendRequest(IDKey(id), requestNameContractDetails, ContractDetailsRequest{ReqID: id, Contract: contract})
	if err != nil {
		return nil, err
	}
	value, err := c.await(ctx, call)
	if err != nil {
		return nil, errors.WithMessage(err, "contract details")
	}
	items, err := replyItems(call, value)
	if err != nil {
		return nil, errors.WithMessage(err, "contract details")
	}
	result := make([]ContractDetails, 0, len(items))
	for _, item := range items {
		details, ok := item.(ContractDetails)
		if !ok {
			return nil, errors.WithMessage(unexpectedReply(call, item), "contract details")
		}
		result = append(result, details)
	}
	return result, nil
}

// SubscribeMarketData starts streaming ticks of contract into the cache and
// returns the ticker id.
func (c *Client) SubscribeMarketData(ctx context.Context, contract Contract, genericTicks string, snapshot bool) (int, error) {
	id, err := c.NextID(ctx)
	if err != nil {
		return 0, err
	}
	err = c.send(MarketDataRequest{TickerID: id, Contract: contract, GenericTicks: genericTicks, Snapshot: snapshot})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) UnsubscribeMarketData(tickerID int) error {
	return c.send(CancelMarketDataRequest{TickerID: tickerID})
}

func (c *Client) SubscribeMarketDepth(ctx context.Context, contract Contract, rows int) (int, error) {
	id, err := c.NextID(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.send(MarketDepthRequest{TickerID: id, Contract: contract, Rows: rows}); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) UnsubscribeMarketDepth(tickerID int) error {
	return c.send(CancelMarketDepthRequest{TickerID: tickerID})
}

// Positions returns all positions reported up to the end marker. Updates keep
// flowing into the cache afterwards.
func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	call, err := c.sendRequest(TypeKey(RequestPositions, NoID), "positions", PositionsRequest{})
	if err != nil {
		return nil, err
	}
	value, err := c.await(ctx, call)
	if err != nil {
		return nil, errors.WithMessage(err, "positions")
	}
	items, err := replyItems(call, value)
	if err != nil {
		return nil, errors.WithMessage(err, "positions")
	}
	result := make([]Position, 0, len(items))
	for _, item := range items {
		position, ok := item.(Position)
		if !ok {
			return nil, errors.WithMessage(unexpectedReply(call, item), "positions")
		}
		result = append(result, position)
	}
	return result, nil
}

// SubscribePnL subscribes to PnL of one position and returns the request id
// with the first update. The id is returned on timeout too, so the caller
// can unsubscribe.
func (c *Client) SubscribePnL(ctx context.Context, account, modelCode string, contractID int) (int, PnL, error) {
	id, err := c.NextID(ctx)
	if err != nil {
		return 0, PnL{}, err
	}
	req := PnLSingleRequest{ReqID: id, Account: account, ModelCode: modelCode, ContractID: contractID}
	call, err := c.sendRequest(IDKey(id), requestNamePnLSingle, req)
	if err != nil {
		return 0, PnL{}, err
	}
	value, err := c.await(ctx, call)
	if err != nil {
		return id, PnL{}, errors.WithMessage(err, "subscribe pnl")
	}
	pnl, ok := value.(PnL)
	if !ok {
		return id, PnL{}, errors.WithMessage(unexpectedReply(call, value), "subscribe pnl")
	}
	return id, pnl, nil
}

func (c *Client) UnsubscribePnL(reqID int) error {
	return c.send(CancelPnLSingleRequest{ReqID: reqID})
}

// SubscribeAccountUpdates streams the portfolio of account into the cache.
func (c *Client) SubscribeAccountUpdates(account string) error {
	return c.send(AccountUpdatesRequest{Subscribe: true, Account: account})
}

func (c *Client) UnsubscribeAccountUpdates(account string) error {
	return c.send(AccountUpdatesRequest{Subscribe: false, Account: account})
}

func (c *Client) onNextValidID(msg *NextValidID) {
	key := TypeKey(RequestNextID, NoID)
	if !c.requests.pending(key) {
		c.logger.Debug("tws: next valid id", zap.Int("id", msg.OrderID))
		return
	}
	c.requests.resolve(key, msg.OrderID)
}

func (c *Client) onContractDetails(msg *ContractDetailsMessage) {
	key := IDKey(msg.ReqID)
	if !c.requests.expects(key, requestNameContractDetails) {
		c.logger.Warn("tws: contract details without matching request", zap.Stringer("key", key))
		return
	}
	c.requests.append(key, msg.Details)
}

func (c *Client) onContractDetailsEnd(msg *ContractDetailsEnd) {
	key := IDKey(msg.ReqID)
	if !c.requests.expects(key, requestNameContractDetails) {
		c.logger.Warn("tws: contract details end without matching request", zap.Stringer("key", key))
		return
	}
	c.requests.complete(key)
}

func (c *Client) onOpenOrderEnd() {
	key := TypeKey(RequestOpenOrders, NoID)
	if c.requests.pending(key) {
		c.requests.complete(key)
	}
}

func (c *Client) onPositionEnd() {
	key := TypeKey(RequestPositions, NoID)
	if c.requests.pending(key) {
		c.requests.complete(key)
	}
}

func (c *Client) onOpenOrder(msg *OpenOrder) {
	order := NewOrder(msg.OrderID, msg.Contract, msg.Order)
	if !c.cache.AddOrder(order) {
		order, _ = c.cache.Order(msg.OrderID)
	}

	if key := IDKey(msg.OrderID); c.requests.expects(key, requestNamePlaceOrder) {
		c.requests.resolve(key, order)
	}
	if key := TypeKey(RequestOpenOrders, NoID); c.requests.pending(key) {
		c.requests.append(key, order)
	}
}

func (c *Client) onOrderStatus(msg *OrderStatusEvent) {
	c.cache.AddStatus(*msg)
	if !msg.Status.IsCancelled() {
		return
	}
	if key := TypeKey(RequestOrderCancel, msg.OrderID); c.requests.pending(key) {
		c.requests.resolve(key, true)
	}
}

func (c *Client) onPosition(msg *PositionMessage) {
	position := Position{
		Account:     msg.Account,
		Contract:    msg.Contract,
		Quantity:    msg.Quantity,
		AverageCost: msg.AverageCost,
	}
	c.cache.UpdatePosition(position)
	if key := TypeKey(RequestPositions, NoID); c.requests.pending(key) {
		c.requests.append(key, position)
	}
}

func (c *Client) onPortfolio(msg *PortfolioMessage) {
	c.cache.UpdatePortfolio(PortfolioItem{
		Account:       msg.Account,
		Contract:      msg.Contract,
		Position:      msg.Position,
		MarketPrice:   msg.MarketPrice,
		MarketValue:   decimal.NewFromFloat(msg.MarketValue),
		AverageCost:   msg.AverageCost,
		UnrealizedPnL: decimal.NewFromFloat(msg.UnrealizedPnL),
		RealizedPnL:   decimal.NewFromFloat(msg.RealizedPnL),
	})
}

func (c *Client) onTickPrice(msg *TickPrice) {
	_, err := c.cache.UpdateTick(msg.TickerID, func(tick *Tick) error {
		return tick.SetPrice(msg.Field, msg.Price)
	})
	c.tickUpdated(msg.TickerID, msg.Field, err)
}

func (c *Client) onTickSize(msg *TickSize) {
	_, err := c.cache.UpdateTick(msg.TickerID, func(tick *Tick) error {
		return tick.SetSize(msg.Field, msg.Size)
	})
	c.tickUpdated(msg.TickerID, msg.Field, err)
}

func (c *Client) onTickString(msg *TickString) {
	_, err := c.cache.UpdateTick(msg.TickerID, func(tick *Tick) error {
		return tick.SetString(msg.Field, msg.Value)
	})
	c.tickUpdated(msg.TickerID, msg.Field, err)
}

func (c *Client) onTickGeneric(msg *TickGeneric) {
	_, err := c.cache.UpdateTick(msg.TickerID, func(tick *Tick) error {
		return tick.SetGeneric(msg.Field, msg.Value)
	})
	c.tickUpdated(msg.TickerID, msg.Field, err)
}

func (c *Client) tickUpdated(tickerID int, field TickType, err error) {
	if err != nil {
		c.logger.Warn("tws: tick not applied", zap.Int("ticker", tickerID), zap.Int("field", int(field)), zap.Error(err))
	}
}

func (c *Client) onPnLSingle(msg *PnLSingle) {
	pnl := PnL{
		Position:   msg.Position,
		Daily:      pnlValue(msg.Daily),
		Unrealized: pnlValue(msg.Unrealized),
		Realized:   pnlValue(msg.Realized),
		Value:      pnlValue(msg.Value),
	}
	c.cache.UpdatePnL(msg.ReqID, pnl)
	if key := IDKey(msg.ReqID); c.requests.expects(key, requestNamePnLSingle) {
		c.requests.resolve(key, pnl)
	}
}

func (c *Client) onMarketDepth(msg *MarketDepthMessage) {
	row := DepthRow{
		Position:    msg.Position,
		MarketMaker: msg.MarketMaker,
		Price:       msg.Price,
		Size:        msg.Size,
	}
	if err := c.cache.UpdateMarketDepth(msg.TickerID, msg.Operation, msg.Side, row); err != nil {
		c.logger.Warn("tws: market depth not applied", zap.Int("ticker", msg.TickerID), zap.Error(err))
	}
}
