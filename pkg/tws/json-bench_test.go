package tws

import (
	"testing"
)

func BenchmarkTick_JsonMarshal(b *testing.B) {
	tick := newTick()
	_ = tick.SetPrice(TickBid, 150.10)
	_ = tick.SetPrice(TickAsk, 150.12)
	_ = tick.SetPrice(TickLast, 150.11)
	_ = tick.SetSize(TickBidSize, 300)
	_ = tick.SetSize(TickAskSize, 200)
	_ = tick.SetSize(TickVolume, 1250000)
	_ = tick.SetString(TickLastTimestamp, "1547549876")
	_ = tick.SetGeneric(TickHalted, 0)

	for i := 0; i < b.N; i++ {
		if _, err := tick.MarshalJSON(); err != nil {
			b.Fatal("fail marshal tick", err)
		}
	}
}
