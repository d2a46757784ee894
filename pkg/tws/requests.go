package tws

// Request is an outbound message written to the Transport.
type Request interface {
	RequestName() string
}

type IDsRequest struct {
	NumIDs int
}

func (IDsRequest) RequestName() string { return "req_ids" }

type PlaceOrderRequest struct {
	OrderID  int
	Contract Contract
	Order    OrderRequest
}

func (PlaceOrderRequest) RequestName() string { return "place_order" }

type CancelOrderRequest struct {
	OrderID int
}

func (CancelOrderRequest) RequestName() string { return "cancel_order" }

type OpenOrdersRequest struct{}

func (OpenOrdersRequest) RequestName() string { return "req_open_orders" }

type ContractDetailsRequest struct {
	ReqID    int
	Contract Contract
}

func (ContractDetailsRequest) RequestName() string { return "req_contract_details" }

type MarketDataRequest struct {
	TickerID     int
	Contract     Contract
	GenericTicks string
	Snapshot     bool
}

func (MarketDataRequest) RequestName() string { return "req_mkt_data" }

type CancelMarketDataRequest struct {
	TickerID int
}

func (CancelMarketDataRequest) RequestName() string { return "cancel_mkt_data" }

type MarketDepthRequest struct {
	TickerID int
	Contract Contract
	Rows     int
}

func (MarketDepthRequest) RequestName() string { return "req_mkt_depth" }

type CancelMarketDepthRequest struct {
	TickerID int
}

func (CancelMarketDepthRequest) RequestName() string { return "cancel_mkt_depth" }

type PositionsRequest struct{}

func (PositionsRequest) RequestName() string { return "req_positions" }

// AccountUpdatesRequest starts or stops portfolio updates of one account.
type AccountUpdatesRequest struct {
	Subscribe bool
	Account   string
}

func (AccountUpdatesRequest) RequestName() string { return "req_account_updates" }

type PnLSingleRequest struct {
	ReqID      int
	Account    string
	ModelCode  string
	ContractID int
}

func (PnLSingleRequest) RequestName() string { return "req_pnl_single" }

type CancelPnLSingleRequest struct {
	ReqID int
}

func (CancelPnLSingleRequest) RequestName() string { return "cancel_pnl_single" }
