package tws

import "context"

// Terminal is the application facing API of a gateway client.
type Terminal interface {
	Connect(ctx context.Context, host string, port int, clientID int) error
	Disconnect() error
	Close() error
	State() ConnectionState
	IsConnected() bool
	Fault() error

	NextID(ctx context.Context) (int, error)
	PlaceOrder(ctx context.Context, contract Contract, order OrderRequest) (*Order, error)
	CancelOrder(ctx context.Context, orderID int) error
	OpenOrders(ctx context.Context) ([]*Order, error)

	ContractDetails(ctx context.Context, contract Contract) ([]ContractDetails, error)
	SubscribeMarketData(ctx context.Context, contract Contract, genericTicks string, snapshot bool) (int, error)
	UnsubscribeMarketData(tickerID int) error
	SubscribeMarketDepth(ctx context.Context, contract Contract, rows int) (int, error)
	UnsubscribeMarketDepth(tickerID int) error

	Positions(ctx context.Context) ([]Position, error)
	SubscribePnL(ctx context.Context, account, modelCode string, contractID int) (int, PnL, error)
	UnsubscribePnL(reqID int) error
	SubscribeAccountUpdates(account string) error
	UnsubscribeAccountUpdates(account string) error

	// Cache gives read access to the state pushed by the gateway
	Cache() *CacheRepository
}
