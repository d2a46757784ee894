package tws

import (
	"bytes"
	"errors"
	"strconv"
)

type OrderAction uint8

const (
	OrderActionBuy OrderAction = iota
	OrderActionSell
	OrderActionShortSell

	orderActionBuyStr       = "BUY"
	orderActionSellStr      = "SELL"
	orderActionShortSellStr = "SSHORT"
)

var (
	orderActionBuyBytes       = []byte(`"BUY"`)
	orderActionSellBytes      = []byte(`"SELL"`)
	orderActionShortSellBytes = []byte(`"SSHORT"`)
)

func (oa OrderAction) String() string {
	switch oa {
	case OrderActionBuy:
		return orderActionBuyStr
	case OrderActionSell:
		return orderActionSellStr
	case OrderActionShortSell:
		return orderActionShortSellStr
	}
	panic("invalid order action string conversion" + strconv.Itoa(int(oa)))
}

func (oa OrderAction) MarshalJSON() ([]byte, error) {
	switch oa {
	case OrderActionBuy:
		return orderActionBuyBytes, nil
	case OrderActionSell:
		return orderActionSellBytes, nil
	case OrderActionShortSell:
		return orderActionShortSellBytes, nil
	}
	return nil, errors.New("invalid order action json conversion: " + strconv.Itoa(int(oa)))
}

func (oa *OrderAction) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, orderActionBuyBytes) {
		*oa = OrderActionBuy
		return nil
	}
	if bytes.Equal(data, orderActionSellBytes) {
		*oa = OrderActionSell
		return nil
	}
	if bytes.Equal(data, orderActionShortSellBytes) {
		*oa = OrderActionShortSell
		return nil
	}
	return errors.New("unsupported order action: " + string(data))
}

func OrderActionStrToType(value string) (OrderAction, error) {
	switch value {
	case orderActionBuyStr:
		return OrderActionBuy, nil
	case orderActionSellStr:
		return OrderActionSell, nil
	case orderActionShortSellStr:
		return OrderActionShortSell, nil
	}
	return 0, errors.New("unsupported order action: " + value)
}
