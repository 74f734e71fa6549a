// Package chain defines the transaction message variants and the pure
// conversion from human quantities into chain base units.
package chain

// Side of an order from the caller's perspective.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderKind selects immediate execution or a resting priced order.
type OrderKind string

const (
	OrderKindMarket OrderKind = "market"
	OrderKindLimit  OrderKind = "limit"
)

// Chain-side order type enumeration.
const (
	orderTypeBuy  int32 = 1
	orderTypeSell int32 = 2
)

// Msg is one transaction message. SignValue returns the canonical value
// object embedded in the sign doc; field order inside it is alphabetical so
// that serialization is byte-stable.
type Msg interface {
	TypeURL() string
	SignValue() any
}

// Coin is an amount of a single denom in base units.
type Coin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// MsgSend transfers base-unit funds between two addresses.
type MsgSend struct {
	From   string
	To     string
	Denom  string
	Amount string
}

func (MsgSend) TypeURL() string { return "/cosmos.bank.v1beta1.MsgSend" }

func (m MsgSend) SignValue() any {
	return struct {
		Amount      []Coin `json:"amount"`
		FromAddress string `json:"from_address"`
		ToAddress   string `json:"to_address"`
	}{
		Amount:      []Coin{{Amount: m.Amount, Denom: m.Denom}},
		FromAddress: m.From,
		ToAddress:   m.To,
	}
}

// SpotOrder carries the chain-scaled fields shared by spot order messages.
type SpotOrder struct {
	Sender       string
	MarketID     string
	Subaccount   string
	FeeRecipient string
	Price        string
	Quantity     string
	Side         Side
}

func (o SpotOrder) orderType() int32 {
	if o.Side == SideSell {
		return orderTypeSell
	}
	return orderTypeBuy
}

type spotOrderValue struct {
	MarketID  string `json:"market_id"`
	OrderInfo struct {
		FeeRecipient string `json:"fee_recipient"`
		Price        string `json:"price"`
		Quantity     string `json:"quantity"`
		SubaccountID string `json:"subaccount_id"`
	} `json:"order_info"`
	OrderType int32 `json:"order_type"`
}

func (o SpotOrder) signValue() any {
	var order spotOrderValue
	order.MarketID = o.MarketID
	order.OrderInfo.FeeRecipient = o.FeeRecipient
	order.OrderInfo.Price = o.Price
	order.OrderInfo.Quantity = o.Quantity
	order.OrderInfo.SubaccountID = o.Subaccount
	order.OrderType = o.orderType()
	return struct {
		Order  any    `json:"order"`
		Sender string `json:"sender"`
	}{Order: order, Sender: o.Sender}
}

// MsgCreateSpotMarketOrder places an immediate-execution spot order. Price
// carries the sentinel zero.
type MsgCreateSpotMarketOrder struct {
	Order SpotOrder
}

func (MsgCreateSpotMarketOrder) TypeURL() string {
	return "/injective.exchange.v1beta1.MsgCreateSpotMarketOrder"
}

func (m MsgCreateSpotMarketOrder) SignValue() any { return m.Order.signValue() }

// MsgCreateSpotLimitOrder places a price-bounded resting spot order.
type MsgCreateSpotLimitOrder struct {
	Order SpotOrder
}

func (MsgCreateSpotLimitOrder) TypeURL() string {
	return "/injective.exchange.v1beta1.MsgCreateSpotLimitOrder"
}

func (m MsgCreateSpotLimitOrder) SignValue() any { return m.Order.signValue() }
