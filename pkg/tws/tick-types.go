package tws

import (
	"strconv"
)

// TickKind is the value family a tick field belongs to.
type TickKind uint8

const (
	TickKindUnknown TickKind = iota
	TickKindSize
	TickKindPrice
	TickKindString
	TickKindGeneric
)

func (k TickKind) String() string {
	switch k {
	case TickKindSize:
		return "size"
	case TickKindPrice:
		return "price"
	case TickKindString:
		return "string"
	case TickKindGeneric:
		return "generic"
	}
	return "unknown"
}

// TickType is the gateway field code of a market data update.
type TickType int

const (
	TickBidSize                TickType = 0
	TickBid                    TickType = 1
	TickAsk                    TickType = 2
	TickAskSize                TickType = 3
	TickLast                   TickType = 4
	TickLastSize               TickType = 5
	TickHigh                   TickType = 6
	TickLow                    TickType = 7
	TickVolume                 TickType = 8
	TickClose                  TickType = 9
	TickOpen                   TickType = 14
	TickLow13Week              TickType = 15
	TickHigh13Week             TickType = 16
	TickLow26Week              TickType = 17
	TickHigh26Week             TickType = 18
	TickLow52Week              TickType = 19
	TickHigh52Week             TickType = 20
	TickAvgVolume              TickType = 21
	TickOptionHistoricalVol    TickType = 23
	TickOptionImpliedVol       TickType = 24
	TickOptionCallOpenInterest TickType = 27
	TickOptionPutOpenInterest  TickType = 28
	TickOptionCallVolume       TickType = 29
	TickOptionPutVolume        TickType = 30
	TickIndexFuturePremium     TickType = 31
	TickBidExchange            TickType = 32
	TickAskExchange            TickType = 33
	TickAuctionVolume          TickType = 34
	TickAuctionPrice           TickType = 35
	TickAuctionImbalance       TickType = 36
	TickMarkPrice              TickType = 37
	TickLastTimestamp          TickType = 45
	TickShortable              TickType = 46
	TickRTVolume               TickType = 48
	TickHalted                 TickType = 49
	TickBidYield               TickType = 50
	TickAskYield               TickType = 51
	TickLastYield              TickType = 52
	TickTradeCount             TickType = 54
	TickTradeRate              TickType = 55
	TickVolumeRate             TickType = 56
	TickLastRTHTrade           TickType = 57
	TickRTHistoricalVol        TickType = 58
	TickIBDividends            TickType = 59
	TickRegulatoryImbalance    TickType = 61
	TickNews                   TickType = 62
	TickShortTermVolume3Min    TickType = 63
	TickShortTermVolume5Min    TickType = 64
	TickShortTermVolume10Min   TickType = 65
	TickDelayedBid             TickType = 66
	TickDelayedAsk             TickType = 67
	TickDelayedLast            TickType = 68
	TickDelayedBidSize         TickType = 69
	TickDelayedAskSize         TickType = 70
	TickDelayedLastSize        TickType = 71
	TickDelayedHigh            TickType = 72
	TickDelayedLow             TickType = 73
	TickDelayedVolume          TickType = 74
	TickDelayedClose           TickType = 75
	TickDelayedOpen            TickType = 76
	TickRTTradeVolume          TickType = 77
	TickCreditmanMarkPrice     TickType = 78
	TickCreditmanSlowMarkPrice TickType = 79
	TickDelayedBidOption       TickType = 80
	TickDelayedAskOption       TickType = 81
	TickDelayedLastOption      TickType = 82
	TickDelayedModelOption     TickType = 83
	TickLastExchange           TickType = 84
	TickLastRegulatoryTime     TickType = 85
	TickFuturesOpenInterest    TickType = 86
)

type tickTypeInfo struct {
	kind TickKind
	name string
}

var tickTypes = map[TickType]tickTypeInfo{
	TickBidSize:                {TickKindSize, "bidSize"},
	TickAskSize:                {TickKindSize, "askSize"},
	TickLastSize:               {TickKindSize, "lastSize"},
	TickVolume:                 {TickKindSize, "volume"},
	TickAvgVolume:              {TickKindSize, "avgVolume"},
	TickOptionCallOpenInterest: {TickKindSize, "optionCallOpenInterest"},
	TickOptionPutOpenInterest:  {TickKindSize, "optionPutOpenInterest"},
	TickOptionCallVolume:       {TickKindSize, "optionCallVolume"},
	TickOptionPutVolume:        {TickKindSize, "optionPutVolume"},
	TickAuctionVolume:          {TickKindSize, "auctionVolume"},
	TickAuctionImbalance:       {TickKindSize, "auctionImbalance"},
	TickRegulatoryImbalance:    {TickKindSize, "regulatoryImbalance"},
	TickShortTermVolume3Min:    {TickKindSize, "shortTermVolume3Min"},
	TickShortTermVolume5Min:    {TickKindSize, "shortTermVolume5Min"},
	TickShortTermVolume10Min:   {TickKindSize, "shortTermVolume10Min"},
	TickDelayedBidSize:         {TickKindSize, "delayedBidSize"},
	TickDelayedAskSize:         {TickKindSize, "delayedAskSize"},
	TickDelayedLastSize:        {TickKindSize, "delayedLastSize"},
	TickDelayedVolume:          {TickKindSize, "delayedVolume"},
	TickFuturesOpenInterest:    {TickKindSize, "futuresOpenInterest"},

	TickBid:                    {TickKindPrice, "bid"},
	TickAsk:                    {TickKindPrice, "ask"},
	TickLast:                   {TickKindPrice, "last"},
	TickHigh:                   {TickKindPrice, "high"},
	TickLow:                    {TickKindPrice, "low"},
	TickClose:                  {TickKindPrice, "close"},
	TickOpen:                   {TickKindPrice, "open"},
	TickLow13Week:              {TickKindPrice, "low13Week"},
	TickHigh13Week:             {TickKindPrice, "high13Week"},
	TickLow26Week:              {TickKindPrice, "low26Week"},
	TickHigh26Week:             {TickKindPrice, "high26Week"},
	TickLow52Week:              {TickKindPrice, "low52Week"},
	TickHigh52Week:             {TickKindPrice, "high52Week"},
	TickAuctionPrice:           {TickKindPrice, "auctionPrice"},
	TickMarkPrice:              {TickKindPrice, "markPrice"},
	TickBidYield:               {TickKindPrice, "bidYield"},
	TickAskYield:               {TickKindPrice, "askYield"},
	TickLastYield:              {TickKindPrice, "lastYield"},
	TickLastRTHTrade:           {TickKindPrice, "lastRthTrade"},
	TickDelayedBid:             {TickKindPrice, "delayedBid"},
	TickDelayedAsk:             {TickKindPrice, "delayedAsk"},
	TickDelayedLast:            {TickKindPrice, "delayedLast"},
	TickDelayedHigh:            {TickKindPrice, "delayedHigh"},
	TickDelayedLow:             {TickKindPrice, "delayedLow"},
	TickDelayedClose:           {TickKindPrice, "delayedClose"},
	TickDelayedOpen:            {TickKindPrice, "delayedOpen"},
	TickCreditmanMarkPrice:     {TickKindPrice, "creditmanMarkPrice"},
	TickCreditmanSlowMarkPrice: {TickKindPrice, "creditmanSlowMarkPrice"},
	TickDelayedBidOption:       {TickKindPrice, "delayedBidOption"},
	TickDelayedAskOption:       {TickKindPrice, "delayedAskOption"},
	TickDelayedLastOption:      {TickKindPrice, "delayedLastOption"},
	TickDelayedModelOption:     {TickKindPrice, "delayedModelOption"},

	TickBidExchange:        {TickKindString, "bidExchange"},
	TickAskExchange:        {TickKindString, "askExchange"},
	TickLastTimestamp:      {TickKindString, "lastTimestamp"},
	TickRTVolume:           {TickKindString, "rtVolume"},
	TickIBDividends:        {TickKindString, "ibDividends"},
	TickNews:               {TickKindString, "news"},
	TickRTTradeVolume:      {TickKindString, "rtTradeVolume"},
	TickLastExchange:       {TickKindString, "lastExchange"},
	TickLastRegulatoryTime: {TickKindString, "lastRegulatoryTime"},

	TickOptionHistoricalVol: {TickKindGeneric, "optionHistoricalVol"},
	TickOptionImpliedVol:    {TickKindGeneric, "optionImpliedVol"},
	TickIndexFuturePremium:  {TickKindGeneric, "indexFuturePremium"},
	TickShortable:           {TickKindGeneric, "shortable"},
	TickHalted:              {TickKindGeneric, "halted"},
	TickTradeCount:          {TickKindGeneric, "tradeCount"},
	TickTradeRate:           {TickKindGeneric, "tradeRate"},
	TickVolumeRate:          {TickKindGeneric, "volumeRate"},
	TickRTHistoricalVol:     {TickKindGeneric, "rtHistoricalVol"},
}

// Kind returns the value family of the field, TickKindUnknown for codes the
// cache does not track.
func (t TickType) Kind() TickKind {
	return tickTypes[t].kind
}

func (t TickType) String() string {
	if info, ok := tickTypes[t]; ok {
		return info.name
	}
	return "tick_" + strconv.Itoa(int(t))
}
