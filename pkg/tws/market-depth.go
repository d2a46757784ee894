package tws

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type DepthSide uint8

const (
	DepthSideAsk DepthSide = iota
	DepthSideBid
)

type DepthOperation uint8

const (
	DepthInsert DepthOperation = iota
	DepthUpdate
	DepthDelete
)

type DepthKey struct {
	Side     DepthSide
	Position int
}

// DepthRow is one level of the order book.
type DepthRow struct {
	Position    int     `json:"position"`
	MarketMaker string  `json:"marketMaker,omitempty"`
	Price       float64 `json:"price"`
	Size        int64   `json:"size"`
}

// OrderBook holds market depth rows of one ticker keyed by side and position.
type OrderBook struct {
	mx   sync.RWMutex
	rows map[DepthKey]DepthRow
}

func newOrderBook() *OrderBook {
	return &OrderBook{rows: make(map[DepthKey]DepthRow)}
}

func (b *OrderBook) apply(op DepthOperation, side DepthSide, row DepthRow) error {
	key := DepthKey{Side: side, Position: row.Position}
	b.mx.Lock()
	defer b.mx.Unlock()
	switch op {
	case DepthInsert, DepthUpdate:
		b.rows[key] = row
	case DepthDelete:
		delete(b.rows, key)
	default:
		return errors.Errorf("unsupported depth operation %d", op)
	}
	return nil
}

func (b *OrderBook) side(side DepthSide) []DepthRow {
	b.mx.RLock()
	result := make([]DepthRow, 0, len(b.rows))
	for key, row := range b.rows {
		if key.Side == side {
			result = append(result, row)
		}
	}
	b.mx.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result
}

// Bids returns bid rows ordered by position.
func (b *OrderBook) Bids() []DepthRow {
	return b.side(DepthSideBid)
}

// Asks returns ask rows ordered by position.
func (b *OrderBook) Asks() []DepthRow {
	return b.side(DepthSideAsk)
}
