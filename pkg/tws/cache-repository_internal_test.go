package tws

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gotest.tools/assert"
)

func TestCacheRepositoryOrders(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	contract := Contract{ID: 265598, Symbol: "AAPL", SecType: "STK", Exchange: "SMART", Currency: "USD"}
	request := OrderRequest{Action: OrderActionBuy, Type: OrderTypeLimit, Quantity: 10, LimitPrice: 150}

	t.Run("status before order", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		submitted := OrderStatusEvent{OrderID: 5, Status: OrderStatusSubmitted, Remaining: 10}
		filled := OrderStatusEvent{OrderID: 5, Status: OrderStatusFilled, Filled: 10, AvgFillPrice: 149.5}

		assert.Check(t, !cache.AddStatus(submitted))
		assert.Check(t, !cache.AddStatus(filled))
		_, ok := cache.Order(5)
		assert.Check(t, !ok)

		assert.Check(t, cache.AddOrder(NewOrder(5, contract, request)))
		order, ok := cache.Order(5)
		assert.Check(t, ok)
		assert.DeepEqual(t, order.Statuses(), []OrderStatusEvent{submitted, filled})

		_, buffered := cache.statuses.Load(5)
		assert.Check(t, !buffered)
	})

	t.Run("duplicate order", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		first := NewOrder(6, contract, request)
		assert.Check(t, cache.AddOrder(first))
		assert.Check(t, !cache.AddOrder(NewOrder(6, contract, OrderRequest{Quantity: 99})))

		order, _ := cache.Order(6)
		assert.Check(t, order == first)
		assert.Equal(t, len(cache.Orders()), 1)
	})

	t.Run("duplicate status", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		status := OrderStatusEvent{OrderID: 7, Status: OrderStatusSubmitted, Remaining: 10}

		assert.Check(t, !cache.AddStatus(status))
		assert.Check(t, !cache.AddStatus(status))
		assert.Check(t, cache.AddOrder(NewOrder(7, contract, request)))
		assert.Check(t, !cache.AddStatus(status))

		cancelled := OrderStatusEvent{OrderID: 7, Status: OrderStatusCancelled, Remaining: 10}
		assert.Check(t, cache.AddStatus(cancelled))

		order, _ := cache.Order(7)
		assert.Equal(t, len(order.Statuses()), 2)
		last, ok := order.LastStatus()
		assert.Check(t, ok)
		assert.Equal(t, last.Status, OrderStatusCancelled)
	})

	t.Run("concurrent order and status", func(t *testing.T) {
		for round := 0; round < 50; round++ {
			cache := NewCacheRepository(logger)
			statuses := []OrderStatusEvent{
				{OrderID: 8, Status: OrderStatusPreSubmitted, Remaining: 10},
				{OrderID: 8, Status: OrderStatusSubmitted, Remaining: 10},
				{OrderID: 8, Status: OrderStatusFilled, Filled: 10},
			}
			var wg sync.WaitGroup
			for _, status := range statuses {
				wg.Add(1)
				go func(status OrderStatusEvent) {
					defer wg.Done()
					cache.AddStatus(status)
				}(status)
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				cache.AddOrder(NewOrder(8, contract, request))
			}()
			wg.Wait()

			order, ok := cache.Order(8)
			assert.Check(t, ok)
			assert.Equal(t, len(order.Statuses()), 3)
		}
	})

	t.Run("orders sorted", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		for _, id := range []int{30, 10, 20} {
			cache.AddOrder(NewOrder(id, contract, request))
		}
		orders := cache.Orders()
		assert.Equal(t, orders[0].ID, 10)
		assert.Equal(t, orders[1].ID, 20)
		assert.Equal(t, orders[2].ID, 30)
	})
}

func TestCacheRepositoryPositions(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cache := NewCacheRepository(logger)
	contract := Contract{ID: 265598, Symbol: "AAPL"}

	cache.UpdatePosition(Position{Account: "DU1", Contract: contract, Quantity: 100, AverageCost: 150})
	cache.UpdatePosition(Position{Account: "DU1", Contract: contract, Quantity: 50, AverageCost: 151})
	cache.UpdatePosition(Position{Account: "DU2", Contract: contract, Quantity: 10, AverageCost: 140})

	position, err := cache.Position("DU1", 265598)
	assert.NilError(t, err)
	assert.Equal(t, position.Quantity, 50.0)
	assert.Equal(t, position.AverageCost, 151.0)
	assert.Equal(t, len(cache.Positions()), 2)

	position, err = cache.Position("DU3", 265598)
	assert.NilError(t, err)
	assert.Check(t, position == nil)

	_, err = cache.Position("DU1", 0)
	assert.Check(t, errors.Is(err, ErrNoContract))
}

func TestCacheRepositoryPortfolio(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cache := NewCacheRepository(logger)
	contract := Contract{ID: 265598, Symbol: "AAPL"}

	cache.UpdatePortfolio(PortfolioItem{Account: "DU1", Contract: contract, Position: 100, MarketValue: decimal.NewFromInt(15000)})
	cache.UpdatePortfolio(PortfolioItem{Account: "DU1", Contract: contract, Position: 80, MarketValue: decimal.NewFromInt(12040)})
	cache.UpdatePortfolio(PortfolioItem{Account: "DU2", Contract: contract, Position: 5})

	item, err := cache.PortfolioItem("DU1", 265598)
	assert.NilError(t, err)
	assert.Equal(t, item.Position, 80.0)
	assert.Equal(t, item.MarketValue.String(), "12040")
	assert.Equal(t, len(cache.Portfolio()), 2)

	item, err = cache.PortfolioItem("DU3", 265598)
	assert.NilError(t, err)
	assert.Check(t, item == nil)

	_, err = cache.PortfolioItem("DU1", 0)
	assert.Check(t, errors.Is(err, ErrNoContract))
}

func TestCacheRepositoryTicks(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("concurrent fields", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := cache.UpdateTick(1, func(tick *Tick) error { return tick.SetPrice(TickBid, 100.5) })
			assert.Check(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := cache.UpdateTick(1, func(tick *Tick) error { return tick.SetPrice(TickAsk, 101.5) })
			assert.Check(t, err)
		}()
		wg.Wait()

		tick, ok := cache.Tick(1)
		assert.Check(t, ok)
		bid, ok := tick.Bid()
		assert.Check(t, ok)
		assert.Equal(t, bid, 100.5)
		ask, ok := tick.Ask()
		assert.Check(t, ok)
		assert.Equal(t, ask, 101.5)
	})

	t.Run("unknown code", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		tick, err := cache.UpdateTick(2, func(tick *Tick) error { return tick.SetPrice(TickType(1000), 1) })
		assert.Check(t, errors.Is(err, errUnknownTickType))
		assert.Equal(t, len(tick.Fields()), 0)
		assert.Check(t, tick.UpdatedAt().IsZero())
	})

	t.Run("clear", func(t *testing.T) {
		cache := NewCacheRepository(logger)
		_, err := cache.UpdateTick(3, func(tick *Tick) error { return tick.SetSize(TickVolume, 1000) })
		assert.NilError(t, err)
		cache.AddOrder(NewOrder(1, Contract{}, OrderRequest{}))
		cache.AddStatus(OrderStatusEvent{OrderID: 2, Status: OrderStatusSubmitted})
		cache.UpdatePosition(Position{Account: "DU1", Contract: Contract{ID: 1}})
		cache.UpdatePnL(4, PnL{Position: 1})
		cache.UpdatePortfolio(PortfolioItem{Account: "DU1", Contract: Contract{ID: 1}})
		assert.NilError(t, cache.UpdateMarketDepth(5, DepthInsert, DepthSideBid, DepthRow{Position: 0, Price: 1, Size: 1}))

		cache.Clear()

		_, ok := cache.Tick(3)
		assert.Check(t, !ok)
		assert.Equal(t, len(cache.Orders()), 0)
		assert.Equal(t, len(cache.Positions()), 0)
		assert.Equal(t, len(cache.Portfolio()), 0)
		_, ok = cache.PnL(4)
		assert.Check(t, !ok)
		_, ok = cache.OrderBook(5)
		assert.Check(t, !ok)

		// buffered statuses and per-order locks are dropped too
		lockCount := 0
		cache.locks.Range(func(_, _ interface{}) bool {
			lockCount++
			return true
		})
		assert.Equal(t, lockCount, 0)
		cache.AddOrder(NewOrder(2, Contract{}, OrderRequest{}))
		order, _ := cache.Order(2)
		assert.Equal(t, len(order.Statuses()), 0)
	})
}

func TestCacheRepositoryPnLAndDepth(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cache := NewCacheRepository(logger)

	cache.UpdatePnL(9, PnL{Position: 100, Daily: pnlValue(12.5), Unrealized: pnlValue(unsetPnLValue)})
	pnl, ok := cache.PnL(9)
	assert.Check(t, ok)
	assert.Check(t, pnl.Daily.Valid)
	assert.Check(t, pnl.Daily.Decimal.Equal(decimal.RequireFromString("12.5")))
	assert.Check(t, !pnl.Unrealized.Valid)

	assert.NilError(t, cache.UpdateMarketDepth(10, DepthInsert, DepthSideBid, DepthRow{Position: 1, Price: 99, Size: 5}))
	assert.NilError(t, cache.UpdateMarketDepth(10, DepthInsert, DepthSideBid, DepthRow{Position: 0, Price: 100, Size: 3}))
	assert.NilError(t, cache.UpdateMarketDepth(10, DepthInsert, DepthSideAsk, DepthRow{Position: 0, Price: 101, Size: 7}))
	assert.NilError(t, cache.UpdateMarketDepth(10, DepthUpdate, DepthSideAsk, DepthRow{Position: 0, Price: 101, Size: 9}))

	book, ok := cache.OrderBook(10)
	assert.Check(t, ok)
	assert.DeepEqual(t, book.Bids(), []DepthRow{{Position: 0, Price: 100, Size: 3}, {Position: 1, Price: 99, Size: 5}})
	assert.DeepEqual(t, book.Asks(), []DepthRow{{Position: 0, Price: 101, Size: 9}})

	assert.NilError(t, cache.UpdateMarketDepth(10, DepthDelete, DepthSideBid, DepthRow{Position: 1}))
	assert.Equal(t, len(book.Bids()), 1)

	err := cache.UpdateMarketDepth(10, DepthOperation(7), DepthSideBid, DepthRow{})
	assert.ErrorContains(t, err, "unsupported depth operation 7")
}
