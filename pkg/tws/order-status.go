package tws

import (
	"bytes"
	"errors"
	"strconv"
)

// OrderStatus is the order state reported by the gateway in orderStatus messages.
type OrderStatus uint8

const (
	OrderStatusApiPending OrderStatus = iota
	OrderStatusPendingSubmit
	OrderStatusPendingCancel
	OrderStatusPreSubmitted
	OrderStatusSubmitted
	OrderStatusApiCancelled
	OrderStatusCancelled
	OrderStatusFilled
	OrderStatusInactive

	orderStatusApiPendingStr    = "ApiPending"
	orderStatusPendingSubmitStr = "PendingSubmit"
	orderStatusPendingCancelStr = "PendingCancel"
	orderStatusPreSubmittedStr  = "PreSubmitted"
	orderStatusSubmittedStr     = "Submitted"
	orderStatusApiCancelledStr  = "ApiCancelled"
	orderStatusCancelledStr     = "Cancelled"
	orderStatusFilledStr        = "Filled"
	orderStatusInactiveStr      = "Inactive"
)

var (
	orderStatusApiPendingBytes    = []byte(`"ApiPending"`)
	orderStatusPendingSubmitBytes = []byte(`"PendingSubmit"`)
	orderStatusPendingCancelBytes = []byte(`"PendingCancel"`)
	orderStatusPreSubmittedBytes  = []byte(`"PreSubmitted"`)
	orderStatusSubmittedBytes     = []byte(`"Submitted"`)
	orderStatusApiCancelledBytes  = []byte(`"ApiCancelled"`)
	orderStatusCancelledBytes     = []byte(`"Cancelled"`)
	orderStatusFilledBytes        = []byte(`"Filled"`)
	orderStatusInactiveBytes      = []byte(`"Inactive"`)
)

func (os OrderStatus) String() string {
	switch os {
	case OrderStatusApiPending:
		return orderStatusApiPendingStr
	case OrderStatusPendingSubmit:
		return orderStatusPendingSubmitStr
	case OrderStatusPendingCancel:
		return orderStatusPendingCancelStr
	case OrderStatusPreSubmitted:
		return orderStatusPreSubmittedStr
	case OrderStatusSubmitted:
		return orderStatusSubmittedStr
	case OrderStatusApiCancelled:
		return orderStatusApiCancelledStr
	case OrderStatusCancelled:
		return orderStatusCancelledStr
	case OrderStatusFilled:
		return orderStatusFilledStr
	case OrderStatusInactive:
		return orderStatusInactiveStr
	}
	panic("invalid order status string conversion" + strconv.Itoa(int(os)))
}

// IsCancelled reports whether the order was cancelled by the gateway or by a request.
func (os OrderStatus) IsCancelled() bool {
	return os == OrderStatusCancelled || os == OrderStatusApiCancelled
}

// IsDone reports whether no more status changes are expected.
func (os OrderStatus) IsDone() bool {
	return os.IsCancelled() || os == OrderStatusFilled || os == OrderStatusInactive
}

func (os OrderStatus) MarshalJSON() ([]byte, error) {
	switch os {
	case OrderStatusApiPending:
		return orderStatusApiPendingBytes, nil
	case OrderStatusPendingSubmit:
		return orderStatusPendingSubmitBytes, nil
	case OrderStatusPendingCancel:
		return orderStatusPendingCancelBytes, nil
	case OrderStatusPreSubmitted:
		return orderStatusPreSubmittedBytes, nil
	case OrderStatusSubmitted:
		return orderStatusSubmittedBytes, nil
	case OrderStatusApiCancelled:
		return orderStatusApiCancelledBytes, nil
	case OrderStatusCancelled:
		return orderStatusCancelledBytes, nil
	case OrderStatusFilled:
		return orderStatusFilledBytes, nil
	case OrderStatusInactive:
		return orderStatusInactiveBytes, nil
	}
	return nil, errors.New("invalid order status json conversion: " + strconv.Itoa(int(os)))
}

func (os *OrderStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, orderStatusSubmittedBytes) {
		*os = OrderStatusSubmitted
		return nil
	}
	if bytes.Equal(data, orderStatusPreSubmittedBytes) {
		*os = OrderStatusPreSubmitted
		return nil
	}
	if bytes.Equal(data, orderStatusFilledBytes) {
		*os = OrderStatusFilled
		return nil
	}
	if bytes.Equal(data, orderStatusCancelledBytes) {
		*os = OrderStatusCancelled
		return nil
	}
	if bytes.Equal(data, orderStatusApiCancelledBytes) {
		*os = OrderStatusApiCancelled
		return nil
	}
	if bytes.Equal(data, orderStatusPendingSubmitBytes) {
		*os = OrderStatusPendingSubmit
		return nil
	}
	if bytes.Equal(data, orderStatusPendingCancelBytes) {
		*os = OrderStatusPendingCancel
		return nil
	}
	if bytes.Equal(data, orderStatusApiPendingBytes) {
		*os = OrderStatusApiPending
		return nil
	}
	if bytes.Equal(data, orderStatusInactiveBytes) {
		*os = OrderStatusInactive
		return nil
	}

	return errors.New("unsupported order status: " + string(data))
}

func OrderStatusStrToType(value string) (OrderStatus, error) {
	switch value {
	case orderStatusApiPendingStr:
		return OrderStatusApiPending, nil
	case orderStatusPendingSubmitStr:
		return OrderStatusPendingSubmit, nil
	case orderStatusPendingCancelStr:
		return OrderStatusPendingCancel, nil
	case orderStatusPreSubmittedStr:
		return OrderStatusPreSubmitted, nil
	case orderStatusSubmittedStr:
		return OrderStatusSubmitted, nil
	case orderStatusApiCancelledStr:
		return OrderStatusApiCancelled, nil
	case orderStatusCancelledStr:
		return OrderStatusCancelled, nil
	case orderStatusFilledStr:
		return OrderStatusFilled, nil
	case orderStatusInactiveStr:
		return OrderStatusInactive, nil
	}
	return 0, errors.New("unsupported order status: " + value)
}
