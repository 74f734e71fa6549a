package tools

import (
	"context"
	"fmt"

	agerr "github.com/injkit/injagent/internal/errors"
)

// Arg describes one tool argument for the dispatch layer.
type Arg struct {
	Name        string
	Required    bool
	Description string
}

// Spec is the dispatch-layer description of one tool.
type Spec struct {
	Name        string
	Description string
	Args        []Arg
}

// Specs lists every tool the service exposes, in a stable order.
func Specs() []Spec {
	return []Spec{
		{
			Name:        "get-wallet-address",
			Description: "Return the address of the locally stored wallet",
		},
		{
			Name:        "create-wallet",
			Description: "Generate a new wallet and persist it locally",
			Args: []Arg{
				{Name: "override", Description: "Replace an existing wallet"},
			},
		},
		{
			Name:        "check-wallet-balance",
			Description: "List verified token balances for an address",
			Args: []Arg{
				{Name: "address", Description: "Injective address to inspect, defaults to the local wallet"},
			},
		},
		{
			Name:        "search-tokens",
			Description: "Fuzzy-search verified tokens by denom, symbol, or name",
			Args: []Arg{
				{Name: "query", Required: true, Description: "Search text"},
			},
		},
		{
			Name:        "search-spot-markets",
			Description: "Fuzzy-search spot markets by ticker",
			Args: []Arg{
				{Name: "query", Required: true, Description: "Search text"},
			},
		},
		{
			Name:        "search-derivative-markets",
			Description: "Fuzzy-search derivative markets by ticker",
			Args: []Arg{
				{Name: "query", Required: true, Description: "Search text"},
			},
		},
		{
			Name:        "send-funds",
			Description: "Send tokens from the local wallet to another address",
			Args: []Arg{
				{Name: "address", Required: true, Description: "Recipient address"},
				{Name: "amount", Required: true, Description: "Human-readable amount"},
				{Name: "denom", Required: true, Description: "Exact token denom"},
			},
		},
		{
			Name:        "trade-spot-market",
			Description: "Place a spot market or limit order from the local wallet",
			Args: []Arg{
				{Name: "ticker", Required: true, Description: "Exact market ticker"},
				{Name: "side", Required: true, Description: "buy or sell"},
				{Name: "quantity", Required: true, Description: "Order quantity in base tokens"},
				{Name: "price", Description: "Limit price in quote tokens, required for limit orders"},
				{Name: "type", Description: "market or limit, defaults to market"},
			},
		},
	}
}

// Dispatch routes a named tool invocation to its handler. Unknown names
// and missing required arguments come back as error results, never panics.
func (s *Service) Dispatch(ctx context.Context, name string, args map[string]string) Result {
	switch name {
	case "get-wallet-address":
		return s.WalletAddress()
	case "create-wallet":
		return s.CreateWallet(args["override"] == "true")
	case "check-wallet-balance":
		address := args["address"]
		if address == "" {
			local, found := s.LocalAddress()
			if !found {
				return failText(agerr.CodeUsage, `missing required argument "address" and no local wallet exists`)
			}
			address = local
		}
		return s.WalletBalance(ctx, address)
	case "search-tokens":
		if res, missing := requireArgs(args, "query"); missing {
			return res
		}
		return s.SearchTokens(args["query"])
	case "search-spot-markets":
		if res, missing := requireArgs(args, "query"); missing {
			return res
		}
		return s.SearchSpotMarkets(args["query"])
	case "search-derivative-markets":
		if res, missing := requireArgs(args, "query"); missing {
			return res
		}
		return s.SearchDerivativeMarkets(args["query"])
	case "send-funds":
		if res, missing := requireArgs(args, "address", "amount", "denom"); missing {
			return res
		}
		return s.SendFunds(ctx, args["address"], args["amount"], args["denom"])
	case "trade-spot-market":
		if res, missing := requireArgs(args, "ticker", "side", "quantity"); missing {
			return res
		}
		orderType := args["type"]
		if orderType == "" {
			orderType = "market"
		}
		return s.TradeSpotMarket(ctx, TradeParams{
			Ticker:   args["ticker"],
			Side:     args["side"],
			Quantity: args["quantity"],
			Price:    args["price"],
			Type:     orderType,
		})
	default:
		return failText(agerr.CodeUsage, fmt.Sprintf("unknown tool %q", name))
	}
}

func requireArgs(args map[string]string, names ...string) (Result, bool) {
	for _, name := range names {
		if args[name] == "" {
			return failText(agerr.CodeUsage, fmt.Sprintf("missing required argument %q", name)), true
		}
	}
	return Result{}, false
}
