package tws

import (
	"bytes"
	"errors"
	"strconv"
)

type OrderType uint8

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
	OrderTypeStop
	OrderTypeStopLimit
	OrderTypeMarketOnClose
	OrderTypeLimitOnClose
	OrderTypeTrailing

	orderTypeMarketStr        = "MKT"
	orderTypeLimitStr         = "LMT"
	orderTypeStopStr          = "STP"
	orderTypeStopLimitStr     = "STP LMT"
	orderTypeMarketOnCloseStr = "MOC"
	orderTypeLimitOnCloseStr  = "LOC"
	orderTypeTrailingStr      = "TRAIL"
)

var (
	orderTypeMarketByte        = []byte(`"MKT"`)
	orderTypeLimitByte         = []byte(`"LMT"`)
	orderTypeStopByte          = []byte(`"STP"`)
	orderTypeStopLimitByte     = []byte(`"STP LMT"`)
	orderTypeMarketOnCloseByte = []byte(`"MOC"`)
	orderTypeLimitOnCloseByte  = []byte(`"LOC"`)
	orderTypeTrailingByte      = []byte(`"TRAIL"`)
)

func (ot OrderType) String() string {
	switch ot {
	case OrderTypeMarket:
		return orderTypeMarketStr
	case OrderTypeLimit:
		return orderTypeLimitStr
	case OrderTypeStop:
		return orderTypeStopStr
	case OrderTypeStopLimit:
		return orderTypeStopLimitStr
	case OrderTypeMarketOnClose:
		return orderTypeMarketOnCloseStr
	case OrderTypeLimitOnClose:
		return orderTypeLimitOnCloseStr
	case OrderTypeTrailing:
		return orderTypeTrailingStr
	}
	panic("invalid order type string conversion" + strconv.Itoa(int(ot)))
}

// HasLimitPrice reports whether orders of this type carry a limit price.
func (ot OrderType) HasLimitPrice() bool {
	return ot == OrderTypeLimit || ot == OrderTypeStopLimit || ot == OrderTypeLimitOnClose
}

func (ot OrderType) MarshalJSON() ([]byte, error) {
	switch ot {
	case OrderTypeMarket:
		return orderTypeMarketByte, nil
	case OrderTypeLimit:
		return orderTypeLimitByte, nil
	case OrderTypeStop:
		return orderTypeStopByte, nil
	case OrderTypeStopLimit:
		return orderTypeStopLimitByte, nil
	case OrderTypeMarketOnClose:
		return orderTypeMarketOnCloseByte, nil
	case OrderTypeLimitOnClose:
		return orderTypeLimitOnCloseByte, nil
	case OrderTypeTrailing:
		return orderTypeTrailingByte, nil
	}
	return nil, errors.New("invalid order type json conversion: " + strconv.Itoa(int(ot)))
}

func (ot *OrderType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, orderTypeLimitByte) {
		*ot = OrderTypeLimit
		return nil
	}
	if bytes.Equal(data, orderTypeMarketByte) {
		*ot = OrderTypeMarket
		return nil
	}
	if bytes.Equal(data, orderTypeStopByte) {
		*ot = OrderTypeStop
		return nil
	}
	if bytes.Equal(data, orderTypeStopLimitByte) {
		*ot = OrderTypeStopLimit
		return nil
	}
	if bytes.Equal(data, orderTypeMarketOnCloseByte) {
		*ot = OrderTypeMarketOnClose
		return nil
	}
	if bytes.Equal(data, orderTypeLimitOnCloseByte) {
		*ot = OrderTypeLimitOnClose
		return nil
	}
	if bytes.Equal(data, orderTypeTrailingByte) {
		*ot = OrderTypeTrailing
		return nil
	}
	return errors.New("unsupported order type: " + string(data))
}

func OrderTypeStrToType(value string) (OrderType, error) {
	switch value {
	case orderTypeMarketStr:
		return OrderTypeMarket, nil
	case orderTypeLimitStr:
		return OrderTypeLimit, nil
	case orderTypeStopStr:
		return OrderTypeStop, nil
	case orderTypeStopLimitStr:
		return OrderTypeStopLimit, nil
	case orderTypeMarketOnCloseStr:
		return OrderTypeMarketOnClose, nil
	case orderTypeLimitOnCloseStr:
		return OrderTypeLimitOnClose, nil
	case orderTypeTrailingStr:
		return OrderTypeTrailing, nil
	}
	return 0, errors.New("unsupported order type: " + value)
}
