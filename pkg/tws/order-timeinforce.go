package tws

import (
	"bytes"
	"errors"
	"strconv"
)

type OrderTimeInForce uint8

const (
	OrderTimeInForceDAY OrderTimeInForce = iota
	OrderTimeInForceGTC
	OrderTimeInForceIOC
	OrderTimeInForceGTD
	OrderTimeInForceOPG
	OrderTimeInForceFOK

	orderTimeInForceDAYStr = "DAY"
	orderTimeInForceGTCStr = "GTC"
	orderTimeInForceIOCStr = "IOC"
	orderTimeInForceGTDStr = "GTD"
	orderTimeInForceOPGStr = "OPG"
	orderTimeInForceFOKStr = "FOK"
)

var (
	orderTimeInForceDAYBytes = []byte(`"DAY"`)
	orderTimeInForceGTCBytes = []byte(`"GTC"`)
	orderTimeInForceIOCBytes = []byte(`"IOC"`)
	orderTimeInForceGTDBytes = []byte(`"GTD"`)
	orderTimeInForceOPGBytes = []byte(`"OPG"`)
	orderTimeInForceFOKBytes = []byte(`"FOK"`)
)

func (tif OrderTimeInForce) String() string {
	switch tif {
	case OrderTimeInForceDAY:
		return orderTimeInForceDAYStr
	case OrderTimeInForceGTC:
		return orderTimeInForceGTCStr
	case OrderTimeInForceIOC:
		return orderTimeInForceIOCStr
	case OrderTimeInForceGTD:
		return orderTimeInForceGTDStr
	case OrderTimeInForceOPG:
		return orderTimeInForceOPGStr
	case OrderTimeInForceFOK:
		return orderTimeInForceFOKStr
	}
	panic("invalid order time in force string conversion" + strconv.Itoa(int(tif)))
}

func (tif OrderTimeInForce) MarshalJSON() ([]byte, error) {
	switch tif {
	case OrderTimeInForceDAY:
		return orderTimeInForceDAYBytes, nil
	case OrderTimeInForceGTC:
		return orderTimeInForceGTCBytes, nil
	case OrderTimeInForceIOC:
		return orderTimeInForceIOCBytes, nil
	case OrderTimeInForceGTD:
		return orderTimeInForceGTDBytes, nil
	case OrderTimeInForceOPG:
		return orderTimeInForceOPGBytes, nil
	case OrderTimeInForceFOK:
		return orderTimeInForceFOKBytes, nil
	}
	return nil, errors.New("invalid order time in force json conversion: " + strconv.Itoa(int(tif)))
}

func (tif *OrderTimeInForce) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, orderTimeInForceDAYBytes) {
		*tif = OrderTimeInForceDAY
		return nil
	}
	if bytes.Equal(data, orderTimeInForceGTCBytes) {
		*tif = OrderTimeInForceGTC
		return nil
	}
	if bytes.Equal(data, orderTimeInForceIOCBytes) {
		*tif = OrderTimeInForceIOC
		return nil
	}
	if bytes.Equal(data, orderTimeInForceGTDBytes) {
		*tif = OrderTimeInForceGTD
		return nil
	}
	if bytes.Equal(data, orderTimeInForceOPGBytes) {
		*tif = OrderTimeInForceOPG
		return nil
	}
	if bytes.Equal(data, orderTimeInForceFOKBytes) {
		*tif = OrderTimeInForceFOK
		return nil
	}
	return errors.New("unsupported order time in force: " + string(data))
}

func OrderTimeInForceStrToType(value string) (OrderTimeInForce, error) {
	switch value {
	case orderTimeInForceDAYStr:
		return OrderTimeInForceDAY, nil
	case orderTimeInForceGTCStr:
		return OrderTimeInForceGTC, nil
	case orderTimeInForceIOCStr:
		return OrderTimeInForceIOC, nil
	case orderTimeInForceGTDStr:
		return OrderTimeInForceGTD, nil
	case orderTimeInForceOPGStr:
		return OrderTimeInForceOPG, nil
	case orderTimeInForceFOKStr:
		return OrderTimeInForceFOK, nil
	}
	return 0, errors.New("unsupported order time in force: " + value)
}
