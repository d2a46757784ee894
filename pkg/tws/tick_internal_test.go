package tws

import (
	"testing"
	"time"

	"github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func TestTickKinds(t *testing.T) {
	for _, tc := range []struct {
		field TickType
		kind  TickKind
		name  string
	}{
		{TickBidSize, TickKindSize, "bidSize"},
		{TickBid, TickKindPrice, "bid"},
		{TickLast, TickKindPrice, "last"},
		{TickVolume, TickKindSize, "volume"},
		{TickLastTimestamp, TickKindString, "lastTimestamp"},
		{TickHalted, TickKindGeneric, "halted"},
		{TickOptionImpliedVol, TickKindGeneric, "optionImpliedVol"},
		{TickType(1000), TickKindUnknown, "tick_1000"},
	} {
		assert.Equal(t, tc.field.Kind(), tc.kind, tc.name)
		assert.Equal(t, tc.field.String(), tc.name)
	}
}

func TestTickSetters(t *testing.T) {
	tick := newTick()

	assert.NilError(t, tick.SetPrice(TickBid, 10.5))
	assert.NilError(t, tick.SetSize(TickBidSize, 200))
	assert.NilError(t, tick.SetString(TickLastTimestamp, "1700000000"))
	assert.NilError(t, tick.SetGeneric(TickHalted, 0))

	err := tick.SetPrice(TickBidSize, 1)
	assert.ErrorContains(t, err, "tick bidSize is a size field, got price")
	err = tick.SetSize(TickType(1000), 1)
	assert.Check(t, errors.Is(err, errUnknownTickType))

	bid, ok := tick.Bid()
	assert.Check(t, ok)
	assert.Equal(t, bid, 10.5)
	_, ok = tick.Ask()
	assert.Check(t, !ok)
	size, _ := tick.Size(TickBidSize)
	assert.Equal(t, size, int64(200))
	text, _ := tick.Text(TickLastTimestamp)
	assert.Equal(t, text, "1700000000")
	halted, ok := tick.Generic(TickHalted)
	assert.Check(t, ok)
	assert.Equal(t, halted, 0.0)

	// the rejected size update is not stored
	_, ok = tick.Price(TickBidSize)
	assert.Check(t, !ok)
	assert.Equal(t, len(tick.Fields()), 4)
}

func TestTickMarshalJSON(t *testing.T) {
	tick := newTick()
	assert.NilError(t, tick.SetPrice(TickAsk, 1.25))
	assert.NilError(t, tick.SetSize(TickAskSize, 7))
	tick.updated = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	data, err := jsoniter.Marshal(tick)
	assert.NilError(t, err)
	assert.Equal(t, string(data), `{"fields":{"ask":1.25,"askSize":7},"updated":"2024-01-02T15:04:05Z"}`)
}
