package tws

import (
	"sync"

	"github.com/pkg/errors"
)

type Contract struct {
	ID              int    `json:"conId"`
	Symbol          string `json:"symbol"`
	SecType         string `json:"secType"`
	Exchange        string `json:"exchange"`
	PrimaryExchange string `json:"primaryExchange,omitempty"`
	Currency        string `json:"currency"`
	LocalSymbol     string `json:"localSymbol,omitempty"`
}

type ContractDetails struct {
	Contract     Contract `json:"contract"`
	MarketName   string   `json:"marketName"`
	LongName     string   `json:"longName"`
	MinTick      float64  `json:"minTick"`
	TimeZoneID   string   `json:"timeZoneId"`
	TradingHours string   `json:"tradingHours"`
}

// OrderRequest holds the order parameters sent with placeOrder.
type OrderRequest struct {
	Account     string           `json:"account,omitempty"`
	Action      OrderAction      `json:"action"`
	Type        OrderType        `json:"orderType"`
	TimeInForce OrderTimeInForce `json:"tif"`
	Quantity    float64          `json:"totalQuantity"`
	LimitPrice  float64          `json:"lmtPrice,omitempty"`
	AuxPrice    float64          `json:"auxPrice,omitempty"`
	OutsideRTH  bool             `json:"outsideRth,omitempty"`
	Transmit    bool             `json:"transmit"`
}

// Validate rejects orders the gateway would refuse for missing parameters.
func (r OrderRequest) Validate() error {
	if r.Quantity <= 0 {
		return errors.Errorf("invalid quantity %v", r.Quantity)
	}
	if r.Type.HasLimitPrice() && r.LimitPrice <= 0 {
		return errors.Errorf("%s order without limit price", r.Type)
	}
	return nil
}

// OrderStatusEvent is one orderStatus notification. Events are comparable and
// identical events are stored once per order.
type OrderStatusEvent struct {
	OrderID       int         `json:"orderId"`
	Status        OrderStatus `json:"status"`
	Filled        float64     `json:"filled"`
	Remaining     float64     `json:"remaining"`
	AvgFillPrice  float64     `json:"avgFillPrice"`
	PermID        int64       `json:"permId"`
	ParentID      int         `json:"parentId"`
	LastFillPrice float64     `json:"lastFillPrice"`
	ClientID      int         `json:"clientId"`
	WhyHeld       string      `json:"whyHeld,omitempty"`
	MktCapPrice   float64     `json:"mktCapPrice"`
}

// Order is a cached open order together with its status history.
type Order struct {
	ID       int
	Contract Contract
	Request  OrderRequest

	mx       sync.RWMutex
	statuses []OrderStatusEvent
	seen     map[OrderStatusEvent]struct{}
}

func NewOrder(id int, contract Contract, request OrderRequest) *Order {
	return &Order{
		ID:       id,
		Contract: contract,
		Request:  request,
		seen:     make(map[OrderStatusEvent]struct{}),
	}
}

// addStatus records status unless an identical one is already stored.
func (o *Order) addStatus(status OrderStatusEvent) bool {
	o.mx.Lock()
	defer o.mx.Unlock()
	if _, ok := o.seen[status]; ok {
		return false
	}
	o.seen[status] = struct{}{}
	o.statuses = append(o.statuses, status)
	return true
}

func (o *Order) Statuses() []OrderStatusEvent {
	o.mx.RLock()
	defer o.mx.RUnlock()
	result := make([]OrderStatusEvent, len(o.statuses))
	copy(result, o.statuses)
	return result
}

// LastStatus returns the most recently received status.
func (o *Order) LastStatus() (OrderStatusEvent, bool) {
	o.mx.RLock()
	defer o.mx.RUnlock()
	if len(o.statuses) == 0 {
		return OrderStatusEvent{}, false
	}
	return o.statuses[len(o.statuses)-1], true
}
