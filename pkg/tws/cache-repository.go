package tws

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CacheRepository keeps the latest gateway state: orders with their status
// history, positions, portfolio, market data ticks, PnL and market depth. Every method
// is safe for concurrent use and each mutation is atomic per key.
type CacheRepository struct {
	logger    *zap.Logger
	locks     sync.Map // order id -> *sync.Mutex
	orders    sync.Map // order id -> *Order
	statuses  sync.Map // order id -> []OrderStatusEvent received before the order
	positions sync.Map // PositionKey -> Position
	portfolio sync.Map // PositionKey -> PortfolioItem
	ticks     sync.Map // ticker id -> *Tick
	pnl       sync.Map // request id -> PnL
	books     sync.Map // ticker id -> *OrderBook
}

func NewCacheRepository(logger *zap.Logger) *CacheRepository {
	return &CacheRepository{logger: logger}
}

func (c *CacheRepository) orderLock(orderID int) *sync.Mutex {
	mxVal, ok := c.locks.Load(orderID)
	if !ok {
		mxVal, _ = c.locks.LoadOrStore(orderID, &sync.Mutex{})
	}
	mx, _ := mxVal.(*sync.Mutex)
	return mx
}

// AddOrder stores order unless one with the same id exists. Statuses that
// arrived before the order are moved into it. Returns false for a duplicate.
func (c *CacheRepository) AddOrder(order *Order) bool {
	mx := c.orderLock(order.ID)
	mx.Lock()
	defer mx.Unlock()

	if _, loaded := c.orders.Load(order.ID); loaded {
		c.logger.Debug("tws cache: order already added", zap.Int("order", order.ID))
		return false
	}
	if buffered, ok := c.statuses.LoadAndDelete(order.ID); ok {
		for _, status := range buffered.([]OrderStatusEvent) {
			order.addStatus(status)
		}
	}
	c.orders.Store(order.ID, order)
	return true
}

// AddStatus attaches status to its order. A status for an unknown order is
// kept until the order is added. Returns true only when an existing order
// received a status it did not have.
func (c *CacheRepository) AddStatus(status OrderStatusEvent) bool {
	mx := c.orderLock(status.OrderID)
	mx.Lock()
	defer mx.Unlock()

	if order, ok := c.orders.Load(status.OrderID); ok {
		return order.(*Order).addStatus(status)
	}

	var buffered []OrderStatusEvent
	if val, ok := c.statuses.Load(status.OrderID); ok {
		buffered = val.([]OrderStatusEvent)
	}
	for _, item := range buffered {
		if item == status {
			return false
		}
	}
	c.statuses.Store(status.OrderID, append(buffered[:len(buffered):len(buffered)], status))
	c.logger.Debug("tws cache: status buffered for unknown order", zap.Int("order", status.OrderID))
	return false
}

func (c *CacheRepository) Order(orderID int) (*Order, bool) {
	val, ok := c.orders.Load(orderID)
	if !ok {
		return nil, false
	}
	return val.(*Order), true
}

// Orders returns all cached orders ordered by id.
func (c *CacheRepository) Orders() []*Order {
	result := make([]*Order, 0)
	c.orders.Range(func(_, val interface{}) bool {
		result = append(result, val.(*Order))
		return true
	})
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// UpdatePosition replaces the position for its account and contract.
func (c *CacheRepository) UpdatePosition(position Position) {
	c.positions.Store(position.Key(), position)
}

// Position returns the position for account and contract. A nil position
// without error means nothing is cached for the pair.
func (c *CacheRepository) Position(account string, contractID int) (*Position, error) {
	if contractID == 0 {
		return nil, errors.Wrapf(ErrNoContract, "position lookup for account %s", account)
	}
	val, ok := c.positions.Load(PositionKey{Account: account, ContractID: contractID})
	if !ok {
		return nil, nil
	}
	position := val.(Position)
	return &position, nil
}

func (c *CacheRepository) Positions() []Position {
	result := make([]Position, 0)
	c.positions.Range(func(_, val interface{}) bool {
		result = append(result, val.(Position))
		return true
	})
	return result
}

// UpdatePortfolio replaces the portfolio item for its account and contract.
func (c *CacheRepository) UpdatePortfolio(item PortfolioItem) {
	c.portfolio.Store(item.Key(), item)
}

// PortfolioItem returns the holding of account in contract, nil when none is cached.
func (c *CacheRepository) PortfolioItem(account string, contractID int) (*PortfolioItem, error) {
	if contractID == 0 {
		return nil, errors.Wrapf(ErrNoContract, "portfolio lookup for account %s", account)
	}
	val, ok := c.portfolio.Load(PositionKey{Account: account, ContractID: contractID})
	if !ok {
		return nil, nil
	}
	item := val.(PortfolioItem)
	return &item, nil
}

func (c *CacheRepository) Portfolio() []PortfolioItem {
	result := make([]PortfolioItem, 0)
	c.portfolio.Range(func(_, val interface{}) bool {
		result = append(result, val.(PortfolioItem))
		return true
	})
	return result
}

// UpdateTick applies update to the tick of tickerID, creating it on first use.
func (c *CacheRepository) UpdateTick(tickerID int, update func(tick *Tick) error) (*Tick, error) {
	val, ok := c.ticks.Load(tickerID)
	if !ok {
		val, _ = c.ticks.LoadOrStore(tickerID, newTick())
	}
	tick := val.(*Tick)
	return tick, update(tick)
}

func (c *CacheRepository) Tick(tickerID int) (*Tick, bool) {
	val, ok := c.ticks.Load(tickerID)
	if !ok {
		return nil, false
	}
	return val.(*Tick), true
}

func (c *CacheRepository) UpdatePnL(reqID int, pnl PnL) {
	c.pnl.Store(reqID, pnl)
}

func (c *CacheRepository) PnL(reqID int) (PnL, bool) {
	val, ok := c.pnl.Load(reqID)
	if !ok {
		return PnL{}, false
	}
	return val.(PnL), true
}

// UpdateMarketDepth applies one depth operation to the book of tickerID.
func (c *CacheRepository) UpdateMarketDepth(tickerID int, op DepthOperation, side DepthSide, row DepthRow) error {
	val, ok := c.books.Load(tickerID)
	if !ok {
		val, _ = c.books.LoadOrStore(tickerID, newOrderBook())
	}
	return val.(*OrderBook).apply(op, side, row)
}

func (c *CacheRepository) OrderBook(tickerID int) (*OrderBook, bool) {
	val, ok := c.books.Load(tickerID)
	if !ok {
		return nil, false
	}
	return val.(*OrderBook), true
}

// Clear drops all cached state. It is not atomic across keys.
func (c *CacheRepository) Clear() {
	for _, m := range []*sync.Map{&c.orders, &c.statuses, &c.locks, &c.positions, &c.portfolio, &c.ticks, &c.pnl, &c.books} {
		m.Range(func(key, _ interface{}) bool {
			m.Delete(key)
			return true
		})
	}
	c.logger.Info("tws cache: cleared")
}
