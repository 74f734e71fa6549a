package chain

import (
	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/model"
)

// Builder assembles signed-ready transaction messages. It is pure: no
// network, no key material, byte-identical output for identical input.

// BuildTransfer converts humanAmount into the token's base units and wraps
// it in a bank send message.
func BuildTransfer(src, dst string, token model.Token, humanAmount string) (Msg, error) {
	baseAmount, err := ToBaseUnits(humanAmount, token.Decimals)
	if err != nil {
		return nil, err
	}
	return MsgSend{
		From:   src,
		To:     dst,
		Denom:  token.Denom,
		Amount: baseAmount,
	}, nil
}

// BuildSpotOrder converts the human quantity and price into chain scale and
// assembles a market or limit order for the sender's default subaccount.
// Limit orders without a price fail before any signing can happen.
func BuildSpotOrder(sender string, market model.SpotMarket, side Side, kind OrderKind, humanQuantity, humanPrice string) (Msg, error) {
	if side != SideBuy && side != SideSell {
		return nil, agerr.New(agerr.CodeUsage, "order side must be buy or sell")
	}

	subaccount, err := DefaultSubaccountID(sender)
	if err != nil {
		return nil, agerr.Wrap(agerr.CodeUsage, "derive subaccount", err)
	}

	quantity, err := ToBaseUnits(humanQuantity, market.BaseDecimals())
	if err != nil {
		return nil, err
	}

	order := SpotOrder{
		Sender:       sender,
		MarketID:     market.MarketID,
		Subaccount:   subaccount,
		FeeRecipient: sender,
		Quantity:     quantity,
		Side:         side,
	}

	switch kind {
	case OrderKindMarket:
		// Market orders execute at book price; the chain expects a
		// sentinel zero here.
		order.Price = "0"
		return MsgCreateSpotMarketOrder{Order: order}, nil
	case OrderKindLimit:
		if humanPrice == "" {
			return nil, agerr.New(agerr.CodeMissingPrice, "limit orders require a price")
		}
		price, err := ToChainPrice(humanPrice, market.BaseDecimals(), market.QuoteDecimals())
		if err != nil {
			return nil, err
		}
		order.Price = price
		return MsgCreateSpotLimitOrder{Order: order}, nil
	}
	return nil, agerr.New(agerr.CodeUsage, "order type must be market or limit")
}
