package tws_test

import (
	"encoding/json"
	"testing"

	"github.com/SergeyLukashevich/ib-client/pkg/tws"
	"github.com/json-iterator/go"
	"gotest.tools/assert"
)

type testOrderDataType struct {
	Type tws.OrderType `json:"type"`
}

func orderTypeGetMap() map[string]tws.OrderType {
	return map[string]tws.OrderType{
		"MKT":     tws.OrderTypeMarket,
		"LMT":     tws.OrderTypeLimit,
		"STP":     tws.OrderTypeStop,
		"STP LMT": tws.OrderTypeStopLimit,
		"MOC":     tws.OrderTypeMarketOnClose,
		"LOC":     tws.OrderTypeLimitOnClose,
		"TRAIL":   tws.OrderTypeTrailing,
	}
}

func TestOrderType_MarshalJSON(t *testing.T) {
	for valStr, val := range orderTypeGetMap() {
		jsonStr := `{"type":"` + valStr + `"}`

		result, err := json.Marshal(&testOrderDataType{val})
		assert.NilError(t, err)
		assert.Equal(t, string(result), jsonStr, "std marshal "+valStr)

		result, err = jsoniter.Marshal(&testOrderDataType{val})
		assert.NilError(t, err)
		assert.Equal(t, string(result), jsonStr, "jsoniter marshal "+valStr)

		var obj testOrderDataType
		assert.NilError(t, json.Unmarshal([]byte(jsonStr), &obj))
		assert.Equal(t, obj.Type, val, "std unmarshal "+valStr)
	}

	var obj testOrderDataType
	err := jsoniter.Unmarshal([]byte(`{"type":"PEG MID"}`), &obj)
	assert.ErrorContains(t, err, `unsupported order type: "PEG MID"`)
}

func TestOrderType_String(t *testing.T) {
	for valStr, val := range orderTypeGetMap() {
		assert.Equal(t, val.String(), valStr)
		resolve, err := tws.OrderTypeStrToType(valStr)
		assert.NilError(t, err)
		assert.Equal(t, resolve, val)
	}

	assert.Check(t, tws.OrderTypeLimit.HasLimitPrice())
	assert.Check(t, tws.OrderTypeStopLimit.HasLimitPrice())
	assert.Check(t, !tws.OrderTypeMarket.HasLimitPrice())

	_, err := tws.OrderTypeStrToType("PEG MID")
	assert.Error(t, err, "unsupported order type: PEG MID")
}
