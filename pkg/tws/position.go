package tws

import (
	"math"

	"github.com/shopspring/decimal"
)

// PositionKey identifies a position by account and contract id.
type PositionKey struct {
	Account    string
	ContractID int
}

type Position struct {
	Account     string   `json:"account"`
	Contract    Contract `json:"contract"`
	Quantity    float64  `json:"position"`
	AverageCost float64  `json:"avgCost"`
}

func (p Position) Key() PositionKey {
	return PositionKey{Account: p.Account, ContractID: p.Contract.ID}
}

// PortfolioItem is one holding of an account as reported by account updates.
type PortfolioItem struct {
	Account       string          `json:"account"`
	Contract      Contract        `json:"contract"`
	Position      float64         `json:"position"`
	MarketPrice   float64         `json:"marketPrice"`
	MarketValue   decimal.Decimal `json:"marketValue"`
	AverageCost   float64         `json:"averageCost"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPNL"`
	RealizedPnL   decimal.Decimal `json:"realizedPNL"`
}

func (p PortfolioItem) Key() PositionKey {
	return PositionKey{Account: p.Account, ContractID: p.Contract.ID}
}

// PnL is the profit and loss of a single position. The gateway leaves any
// value unset when it is not known yet.
type PnL struct {
	Position   float64             `json:"pos"`
	Daily      decimal.NullDecimal `json:"dailyPnL"`
	Unrealized decimal.NullDecimal `json:"unrealizedPnL"`
	Realized   decimal.NullDecimal `json:"realizedPnL"`
	Value      decimal.NullDecimal `json:"value"`
}

// unsetPnLValue is the gateway marker for a value that is not computed.
const unsetPnLValue = math.MaxFloat64

// pnlValue converts a raw gateway value, mapping the unset marker to null.
func pnlValue(v float64) decimal.NullDecimal {
	if v == unsetPnLValue {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}
