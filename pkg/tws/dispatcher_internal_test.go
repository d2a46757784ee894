package tws

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/assert"
)

type errorRecorder struct {
	codes []int
}

func (r *errorRecorder) handle(id, code int, message string) {
	r.codes = append(r.codes, code)
}

func TestDispatcher(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	client, err := NewClient(logger, testConfig(), NewMockDialer(logger))
	assert.NilError(t, err)

	errs := &errorRecorder{}
	router := &dispatcher{
		logger:     logger,
		connection: client.monitor,
		errors:     errs,
		replies:    client,
		cache:      client,
	}

	router.dispatch(&ErrorMessage{ID: 1, Code: 200, Message: "No security definition"})
	router.dispatch(&OrderStatusEvent{OrderID: 3, Status: OrderStatusSubmitted})
	router.dispatch(&OpenOrder{OrderID: 3, Contract: testContract, Order: limitOrder(1)})
	router.dispatch(&TickSize{TickerID: 4, Field: TickVolume, Size: 1200})
	router.dispatch(&PositionMessage{Account: "DU1", Contract: testContract, Quantity: 5})
	router.dispatch(&PortfolioMessage{Account: "DU1", Contract: testContract, Position: 5, MarketValue: 750.5})
	router.dispatch("heartbeat")

	assert.DeepEqual(t, errs.codes, []int{200})
	order, ok := client.Cache().Order(3)
	assert.Check(t, ok)
	assert.Equal(t, len(order.Statuses()), 1)
	tick, ok := client.Cache().Tick(4)
	assert.Check(t, ok)
	volume, _ := tick.Size(TickVolume)
	assert.Equal(t, volume, int64(1200))
	assert.Equal(t, len(client.Cache().Positions()), 1)
	item, err := client.Cache().PortfolioItem("DU1", testContract.ID)
	assert.NilError(t, err)
	assert.Equal(t, item.MarketValue.String(), "750.5")

	unexpected := logs.FilterMessage("tws: unexpected inbound message").AllUntimed()
	assert.Equal(t, len(unexpected), 1)
	assert.Equal(t, unexpected[0].ContextMap()["type"], "string")
}
