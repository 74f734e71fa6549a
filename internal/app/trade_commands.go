package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/injkit/injagent/internal/tools"
)

func (s *runtimeState) newSendFundsCommand() *cobra.Command {
	var address, amount, denom string
	cmd := &cobra.Command{
		Use:   "send-funds",
		Short: "Send tokens from the local wallet to another address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(true); err != nil {
				return err
			}
			return s.emit(s.service.SendFunds(context.Background(), address, amount, denom))
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "Human-readable amount")
	cmd.Flags().StringVar(&denom, "denom", "", "Exact token denom")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("denom")
	return cmd
}

func (s *runtimeState) newTradeSpotMarketCommand() *cobra.Command {
	var params tools.TradeParams
	cmd := &cobra.Command{
		Use:   "trade-spot-market",
		Short: "Place a spot market or limit order from the local wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(true); err != nil {
				return err
			}
			return s.emit(s.service.TradeSpotMarket(context.Background(), params))
		},
	}
	cmd.Flags().StringVar(&params.Ticker, "ticker", "", "Exact market ticker, e.g. INJ/USDT")
	cmd.Flags().StringVar(&params.Side, "side", "", "Order side (buy|sell)")
	cmd.Flags().StringVar(&params.Quantity, "quantity", "", "Order quantity in base tokens")
	cmd.Flags().StringVar(&params.Price, "price", "", "Limit price in quote tokens")
	cmd.Flags().StringVar(&params.Type, "type", "market", "Order type (market|limit)")
	_ = cmd.MarkFlagRequired("ticker")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}
