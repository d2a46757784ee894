package tws_test

import (
	"encoding/json"
	"testing"

	"github.com/SergeyLukashevich/ib-client/pkg/tws"
	"github.com/json-iterator/go"
	"gotest.tools/assert"
)

type testOrderDataTimeInForce struct {
	TimeInForce tws.OrderTimeInForce `json:"tif"`
}

func TestOrderTimeInForce_MarshalJSON(t *testing.T) {
	for valStr, val := range map[string]tws.OrderTimeInForce{
		"DAY": tws.OrderTimeInForceDAY,
		"GTC": tws.OrderTimeInForceGTC,
		"IOC": tws.OrderTimeInForceIOC,
		"GTD": tws.OrderTimeInForceGTD,
		"OPG": tws.OrderTimeInForceOPG,
		"FOK": tws.OrderTimeInForceFOK,
	} {
		jsonStr := `{"tif":"` + valStr + `"}`

		result, err := json.Marshal(&testOrderDataTimeInForce{val})
		assert.NilError(t, err)
		assert.Equal(t, string(result), jsonStr)

		var obj testOrderDataTimeInForce
		assert.NilError(t, jsoniter.Unmarshal([]byte(jsonStr), &obj))
		assert.Equal(t, obj.TimeInForce, val)

		resolve, err := tws.OrderTimeInForceStrToType(valStr)
		assert.NilError(t, err)
		assert.Equal(t, resolve, val)
	}

	_, err := tws.OrderTimeInForceStrToType("GTX")
	assert.Error(t, err, "unsupported order time in force: GTX")
}
