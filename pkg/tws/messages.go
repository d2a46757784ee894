package tws

// Inbound messages produced by a Transport. The pump dispatches them by type.

// ConnectAck completes the connection handshake.
type ConnectAck struct {
	ServerVersion  int
	ConnectionTime string
}

// ConnectionClosed is reported when the gateway closes the session.
type ConnectionClosed struct{}

// SocketError is reported when reading from or writing to the socket fails.
type SocketError struct {
	Err error
}

// ErrorMessage is a gateway error notification. ID is the request id the
// error refers to or -1.
type ErrorMessage struct {
	ID      int
	Code    int
	Message string
}

type NextValidID struct {
	OrderID int
}

type OpenOrder struct {
	OrderID  int
	Contract Contract
	Order    OrderRequest
}

type OpenOrderEnd struct{}

type PositionMessage struct {
	Account     string
	Contract    Contract
	Quantity    float64
	AverageCost float64
}

type PositionEnd struct{}

// PortfolioMessage is one updatePortfolio notification of an account subscription.
type PortfolioMessage struct {
	Account       string
	Contract      Contract
	Position      float64
	MarketPrice   float64
	MarketValue   float64
	AverageCost   float64
	UnrealizedPnL float64
	RealizedPnL   float64
}

type ContractDetailsMessage struct {
	ReqID   int
	Details ContractDetails
}

type ContractDetailsEnd struct {
	ReqID int
}

type TickAttrib struct {
	CanAutoExecute bool
	PastLimit      bool
	PreOpen        bool
}

type TickPrice struct {
	TickerID int
	Field    TickType
	Price    float64
	Attrib   TickAttrib
}

type TickSize struct {
	TickerID int
	Field    TickType
	Size     int64
}

type TickString struct {
	TickerID int
	Field    TickType
	Value    string
}

type TickGeneric struct {
	TickerID int
	Field    TickType
	Value    float64
}

// PnLSingle carries raw PnL values of one position subscription.
type PnLSingle struct {
	ReqID      int
	Position   float64
	Daily      float64
	Unrealized float64
	Realized   float64
	Value      float64
}

type MarketDepthMessage struct {
	TickerID    int
	Position    int
	MarketMaker string
	Operation   DepthOperation
	Side        DepthSide
	Price       float64
	Size        int64
}
